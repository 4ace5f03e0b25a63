// Package cli implements the interactive taskkeeper shell.
//
// The shell reads one command per line, keeps the current search, filters and
// sort order between commands, and delegates all work to the task and backup
// services. Line editing and history come from readline when stdin is a
// terminal; otherwise input is read line by line, which keeps the shell
// scriptable.
//
// Type "help" inside the shell for the command list.
package cli
