package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
)

// SQLiteRepository implements Repository on the indexed SQLite schema.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a repository bound to db. The caller owns db
// unless Close is called.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Name() string { return "indexed" }

// Init applies the embedded migrations.
func (r *SQLiteRepository) Init(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	return migrations.Up(ctx, r.db)
}

const taskColumns = `id, title, category, priority, status, created_at, updated_at`

// Put upserts the task row and replaces its content rows in one transaction.
func (r *SQLiteRepository) Put(ctx context.Context, t *models.Task) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (`+taskColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title,
				category = excluded.category,
				priority = excluded.priority,
				status = excluded.status,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at`,
			t.ID, t.Title, t.Category, string(t.Priority), string(t.Status),
			formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
		if err != nil {
			return fmt.Errorf("failed to upsert task: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM content WHERE task_id = ?`, t.ID); err != nil {
			return fmt.Errorf("failed to clear content: %w", err)
		}

		// own rows were just removed, so a conflict means another task owns the id
		for pos, c := range t.Content {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO content (id, task_id, position, type, content, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO NOTHING`,
				c.ID, t.ID, pos, string(c.Type), c.Content,
				formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
			if err != nil {
				return fmt.Errorf("failed to insert content %d: %w", c.ID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to insert content %d: %w", c.ID, err)
			}
			if n == 0 {
				return fmt.Errorf("%w: content %d", common.ErrContentOwned, c.ID)
			}
		}

		if t.Category != "" {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO categories (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, t.Category)
			if err != nil {
				return fmt.Errorf("failed to register category: %w", err)
			}
		}
		return nil
	})
}

// Get returns a single task with its content in stored order.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	var task *models.Task
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		row := tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
		t, err := scanTask(row)
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		if err != nil {
			return fmt.Errorf("query row scan failed: %w", err)
		}

		items, err := r.contentFor(ctx, tx, `WHERE task_id = ?`, id)
		if err != nil {
			return err
		}
		t.Content = append(t.Content, items[id]...)
		task = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// GetAll reads tasks and content inside one transaction so the snapshot is
// consistent.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Task, error) {
	var result []models.Task
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rows, err := tx.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks`)
		if err != nil {
			return fmt.Errorf("failed to select tasks: %w", err)
		}
		defer rows.Close()

		list := make([]models.Task, 0)
		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return fmt.Errorf("failed to scan task: %w", err)
			}
			list = append(list, t)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		items, err := r.contentFor(ctx, tx, "")
		if err != nil {
			return err
		}
		for i := range list {
			list[i].Content = append(list[i].Content, items[list[i].ID]...)
		}
		result = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// contentFor loads content rows grouped by task id, in position order.
func (r *SQLiteRepository) contentFor(ctx context.Context, tx dbx.DBTX, where string, args ...any) (map[int64][]models.ContentItem, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT task_id, id, type, content, created_at, updated_at
		FROM content `+where+` ORDER BY task_id, position`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select content: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]models.ContentItem)
	for rows.Next() {
		var (
			taskID           int64
			c                models.ContentItem
			typ              string
			created, updated string
		)
		if err := rows.Scan(&taskID, &c.ID, &typ, &c.Content, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		c.Type = models.ContentType(typ)
		if c.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if c.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		out[taskID] = append(out[taskID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the task and every content row indexed under it.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM content WHERE task_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete content: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
}

// Categories returns every registered category name.
func (r *SQLiteRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t                models.Task
		priority, status string
		created, updated string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Category, &priority, &status, &created, &updated); err != nil {
		return models.Task{}, err
	}
	t.Priority = models.Priority(priority)
	t.Status = models.Status(status)
	t.Content = []models.ContentItem{}

	var err error
	if t.CreatedAt, err = parseTime(created); err != nil {
		return models.Task{}, err
	}
	if t.UpdatedAt, err = parseTime(updated); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t, nil
}
