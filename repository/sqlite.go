package repository

import (
	"context"
	"time"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/database"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/models"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const sqliteTaskColumns = "id, title, description, completed, priority, summary, created_at"

type SQLiteRepository struct {
	pool *database.SQLitePool
	now  Clock
}

func NewSQLiteRepository(pool *database.SQLitePool) *SQLiteRepository {
	return &SQLiteRepository{pool: pool, now: time.Now}
}

// WithClock replaces the time source used to stamp created_at.
func (r *SQLiteRepository) WithClock(now Clock) *SQLiteRepository {
	r.now = now
	return r
}

// withConn runs fn on a pooled connection that is interrupted when ctx ends.
func (r *SQLiteRepository) withConn(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer r.pool.Put(conn)

	conn.SetInterrupt(ctx.Done())
	defer conn.SetInterrupt(nil)

	return fn(conn)
}

func (r *SQLiteRepository) Create(ctx context.Context, task models.Task) (models.Task, error) {
	task = normalize(task)
	createdAt := r.now().UTC()

	err := r.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			`INSERT INTO tasks (title, description, completed, priority, summary, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{
				Args: []any{
					task.Title,
					task.Description,
					sqliteValue(task.Completed),
					string(task.Priority),
					task.Summary,
					createdAt.UnixNano(),
				},
			})
		if err != nil {
			return err
		}
		task.ID = conn.LastInsertRowID()
		return nil
	})
	if err != nil {
		return models.Task{}, persistenceErr("create task", err)
	}

	task.CreatedAt = time.Unix(0, createdAt.UnixNano()).UTC()
	return task, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`SELECT `+sqliteTaskColumns+` FROM tasks ORDER BY created_at DESC, id DESC`,
			&sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					tasks = append(tasks, scanSQLiteTask(stmt))
					return nil
				},
			})
	})
	if err != nil {
		return nil, persistenceErr("list tasks", err)
	}
	return tasks, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (models.Task, error) {
	var task models.Task
	err := r.withConn(ctx, func(conn *sqlite.Conn) error {
		var err error
		task, err = getSQLiteTask(conn, id)
		return err
	})
	if err != nil {
		return models.Task{}, persistenceErr("get task", err)
	}
	return task, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, update models.TaskUpdate) (models.Task, error) {
	var task models.Task
	err := r.withConn(ctx, func(conn *sqlite.Conn) (err error) {
		endTransaction, err := sqlitex.ImmediateTransaction(conn)
		if err != nil {
			return err
		}
		defer endTransaction(&err)

		current, err := getSQLiteTask(conn, id)
		if err != nil {
			return err
		}
		task = update.Apply(current)
		if update.IsEmpty() {
			return nil
		}

		set, args := setClause(update.Fields(), func(int) string { return "?" }, sqliteValue)
		return sqlitex.Execute(conn,
			`UPDATE tasks SET `+set+` WHERE id = ?`,
			&sqlitex.ExecOptions{Args: append(args, id)})
	})
	if err != nil {
		return models.Task{}, persistenceErr("update task", err)
	}
	return task, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (models.Task, error) {
	var task models.Task
	err := r.withConn(ctx, func(conn *sqlite.Conn) (err error) {
		endTransaction, err := sqlitex.ImmediateTransaction(conn)
		if err != nil {
			return err
		}
		defer endTransaction(&err)

		task, err = getSQLiteTask(conn, id)
		if err != nil {
			return err
		}
		return sqlitex.Execute(conn, `DELETE FROM tasks WHERE id = ?`, &sqlitex.ExecOptions{
			Args: []any{id},
		})
	})
	if err != nil {
		return models.Task{}, persistenceErr("delete task", err)
	}
	return task, nil
}

func getSQLiteTask(conn *sqlite.Conn, id int64) (models.Task, error) {
	var (
		task  models.Task
		found bool
	)
	err := sqlitex.Execute(conn,
		`SELECT `+sqliteTaskColumns+` FROM tasks WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				task = scanSQLiteTask(stmt)
				found = true
				return nil
			},
		})
	if err != nil {
		return models.Task{}, err
	}
	if !found {
		return models.Task{}, ErrNotFound
	}
	return task, nil
}

func scanSQLiteTask(stmt *sqlite.Stmt) models.Task {
	return models.Task{
		ID:          stmt.ColumnInt64(0),
		Title:       stmt.ColumnText(1),
		Description: stmt.ColumnText(2),
		Completed:   stmt.ColumnInt64(3) != 0,
		Priority:    models.Priority(stmt.ColumnText(4)),
		Summary:     stmt.ColumnText(5),
		CreatedAt:   time.Unix(0, stmt.ColumnInt64(6)).UTC(),
	}
}

// sqliteValue stores booleans as 0/1 integers.
func sqliteValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return int64(1)
		}
		return int64(0)
	}
	return v
}
