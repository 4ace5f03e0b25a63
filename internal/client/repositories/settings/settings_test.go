package settings

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newSQLite(t *testing.T) Repository {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return NewSQLiteRepository(db)
}

func newKV(t *testing.T) Repository {
	t.Helper()
	store, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewKVRepository(store)
}

func TestRepository_SetListClear(t *testing.T) {
	cases := map[string]func(*testing.T) Repository{
		"sqlite": newSQLite,
		"kv":     newKV,
	}
	for name, open := range cases {
		t.Run(name, func(t *testing.T) {
			r := open(t)
			ctx := context.Background()

			m, err := r.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, m)

			require.NoError(t, r.Set(ctx, "theme", []byte(`"dark"`)))
			require.NoError(t, r.Set(ctx, "autoBackup", []byte(`false`)))
			require.NoError(t, r.Set(ctx, "theme", []byte(`"light"`)))

			m, err = r.List(ctx)
			require.NoError(t, err)
			assert.Len(t, m, 2)
			assert.JSONEq(t, `"light"`, string(m["theme"]))
			assert.JSONEq(t, `false`, string(m["autoBackup"]))

			require.NoError(t, r.Clear(ctx))
			m, err = r.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, m)
		})
	}
}

func TestKVRepository_RejectsInvalidJSON(t *testing.T) {
	r := newKV(t)
	err := r.Set(context.Background(), "theme", []byte(`dark`))
	assert.ErrorIs(t, err, common.ErrInvalidFormat)
}

func TestSQLiteRepository_ErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewSQLiteRepository(db)
	boom := errors.New("boom")

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO settings`)).WillReturnError(boom)
	err = r.Set(context.Background(), "theme", []byte(`"x"`))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "settings[theme]")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, value FROM settings`)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow("theme", []byte(`"x"`)).RowError(0, boom))
	_, err = r.List(context.Background())
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}
