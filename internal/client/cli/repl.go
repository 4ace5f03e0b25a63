package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	status() string

	List(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	Sort(ctx context.Context, args []string) error
	Clear(ctx context.Context, args []string) error

	New(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Toggle(ctx context.Context, args []string) error
	Duplicate(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error

	Note(ctx context.Context, args []string) error
	Image(ctx context.Context, args []string) error
	EditNote(ctx context.Context, args []string) error
	RemoveContent(ctx context.Context, args []string) error
	Document(ctx context.Context, args []string) error

	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Backup(ctx context.Context, args []string) error
	Categories(ctx context.Context, args []string) error
	Settings(ctx context.Context, args []string) error
}

type command struct {
	name  string
	usage string
	run   func(execIface, context.Context, []string) error
}

var commands = []command{
	{"list", "list [text]             list tasks matching the current view", execIface.List},
	{"search", "search [text]           set the search text (empty clears it)", execIface.Search},
	{"filter", "filter <field>[=]<value> filter by status, priority or category", execIface.Filter},
	{"sort", "sort date|title|priority", execIface.Sort},
	{"clear", "clear                   reset search, filters and sort", execIface.Clear},
	{"new", "new                     create a task", execIface.New},
	{"show", "show <id>               show a task and its content", execIface.Show},
	{"edit", "edit <id>               edit title, category and priority", execIface.Edit},
	{"toggle", "toggle <id>             switch between active and completed", execIface.Toggle},
	{"dup", "dup <id>                duplicate a task", execIface.Duplicate},
	{"delete", "delete <id>             delete a task", execIface.Delete},
	{"note", "note <id>               attach a text note", execIface.Note},
	{"image", "image <id> <file>       attach an image file", execIface.Image},
	{"editnote", "editnote <id> <item>    rewrite a note, saving as you type", execIface.EditNote},
	{"rmcontent", "rmcontent <id> <item>   remove a note or image", execIface.RemoveContent},
	{"doc", "doc <id> [file]         write a printable HTML document", execIface.Document},
	{"export", "export [file]           export all tasks as JSON", execIface.Export},
	{"import", "import <file>           merge tasks from an export", execIface.Import},
	{"backup", "backup [latest]         snapshot now, or show the latest snapshot", execIface.Backup},
	{"categories", "categories              list known categories", execIface.Categories},
	{"settings", "settings [k=v...|reset] show or change settings", execIface.Settings},
}

var aliases = map[string]string{
	"l":   "list",
	"ls":  "list",
	"rm":  "delete",
	"cat": "show",
}

func lookup(name string) (command, bool) {
	if full, ok := aliases[name]; ok {
		name = full
	}
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Available commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %s\n", c.usage)
	}
	fmt.Fprintln(w, "  exit | quit")
}

// runREPL reads a line, parses the first token as the command and dispatches
// to a. Errors returned by commands are printed and the loop continues. The
// loop exits on EOF, on "exit"/"quit", or when ctx is cancelled.
func runREPL(ctx context.Context, a execIface, in LineInput, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		line, err := in.ReadLine(fmt.Sprintf("tk%s> ", a.status()))
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintln(w, "read error:", err)
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help", "?":
			printHelp(w)
			continue
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		}

		cmd, ok := lookup(name)
		if !ok {
			fmt.Fprintln(w, "Unknown command:", name)
			continue
		}
		if err := cmd.run(a, ctx, args); err != nil {
			fmt.Fprintln(w, "Error:", err)
		}
	}
}
