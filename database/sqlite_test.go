package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/database"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func openTestPool(t *testing.T, path string) *database.SQLitePool {
	t.Helper()

	pool, err := database.OpenSQLite(context.Background(), path, 2)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return pool
}

func TestOpenSQLite_CreatesSchemaAndWAL(t *testing.T) {
	pool := openTestPool(t, filepath.Join(t.TempDir(), "tasks.db"))

	conn, err := pool.Take(context.Background())
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	defer pool.Put(conn)

	var journalMode string
	err = sqlitex.Execute(conn, "PRAGMA journal_mode", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			journalMode = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %q, want %q", journalMode, "wal")
	}

	var columns []string
	err = sqlitex.Execute(conn, "SELECT name FROM pragma_table_info('tasks') ORDER BY cid", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			columns = append(columns, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		t.Fatalf("table_info: %v", err)
	}
	want := []string{"id", "title", "description", "completed", "priority", "summary", "created_at"}
	if len(columns) != len(want) {
		t.Fatalf("columns = %v, want %v", columns, want)
	}
	for i := range want {
		if columns[i] != want[i] {
			t.Fatalf("columns = %v, want %v", columns, want)
		}
	}
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")

	first, err := database.OpenSQLite(context.Background(), path, 1)
	if err != nil {
		t.Fatalf("first OpenSQLite: %v", err)
	}
	conn, err := first.Take(context.Background())
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	err = sqlitex.Execute(conn, "INSERT INTO tasks (title, created_at) VALUES (?, ?)", &sqlitex.ExecOptions{
		Args: []any{"kept", int64(1)},
	})
	first.Put(conn)
	if err != nil {
		t.Fatalf("INSERT: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := openTestPool(t, path)
	conn, err = second.Take(context.Background())
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	defer second.Put(conn)

	var count int64
	err = sqlitex.Execute(conn, "SELECT count(*) FROM tasks", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			count = stmt.ColumnInt64(0)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1 (reopen must not drop rows)", count)
	}
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	if _, err := database.OpenSQLite(context.Background(), "", 1); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestTake_CancelledContext(t *testing.T) {
	pool := openTestPool(t, filepath.Join(t.TempDir(), "tasks.db"))

	held := make([]*sqlite.Conn, 0, 2)
	for range 2 {
		conn, err := pool.Take(context.Background())
		if err != nil {
			t.Fatalf("Take: %v", err)
		}
		held = append(held, conn)
	}
	defer func() {
		for _, c := range held {
			pool.Put(c)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := pool.Take(ctx); err == nil {
		t.Fatal("expected error from cancelled context on exhausted pool")
	}
}
