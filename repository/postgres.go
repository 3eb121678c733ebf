package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/models"
)

const postgresTaskColumns = "id, title, description, completed, priority, summary, created_at"

type PostgresRepository struct {
	db  *sql.DB
	now Clock
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

func (r *PostgresRepository) WithClock(now Clock) *PostgresRepository {
	r.now = now
	return r
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgresTask(row rowScanner) (models.Task, error) {
	var (
		task     models.Task
		priority string
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&priority,
		&task.Summary,
		&task.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	task.Priority = models.Priority(priority)
	task.CreatedAt = task.CreatedAt.UTC()
	return task, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task models.Task) (models.Task, error) {
	task = normalize(task)
	// postgres keeps microseconds
	createdAt := r.now().UTC().Truncate(time.Microsecond)

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (title, description, completed, priority, summary, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		task.Title,
		task.Description,
		task.Completed,
		string(task.Priority),
		task.Summary,
		createdAt,
	).Scan(&task.ID)
	if err != nil {
		return models.Task{}, persistenceErr("create task", err)
	}

	task.CreatedAt = createdAt
	return task, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postgresTaskColumns+` FROM tasks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, persistenceErr("list tasks", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanPostgresTask(rows)
		if err != nil {
			return nil, persistenceErr("scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("list tasks", err)
	}
	return tasks, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+postgresTaskColumns+` FROM tasks WHERE id = $1`, id)
	task, err := scanPostgresTask(row)
	if err != nil {
		return models.Task{}, persistenceErr("get task", err)
	}
	return task, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, update models.TaskUpdate) (task models.Task, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, persistenceErr("begin update", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	current, err := scanPostgresTask(tx.QueryRowContext(ctx,
		`SELECT `+postgresTaskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return models.Task{}, persistenceErr("update task", err)
	}
	task = update.Apply(current)

	if !update.IsEmpty() {
		fields := update.Fields()
		set, args := setClause(fields,
			func(i int) string { return fmt.Sprintf("$%d", i) },
			func(v any) any { return v })
		query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d`, set, len(fields)+1)
		if _, err = tx.ExecContext(ctx, query, append(args, id)...); err != nil {
			return models.Task{}, persistenceErr("update task", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Task{}, persistenceErr("commit update", err)
	}
	return task, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM tasks WHERE id = $1 RETURNING `+postgresTaskColumns, id)
	task, err := scanPostgresTask(row)
	if err != nil {
		return models.Task{}, persistenceErr("delete task", err)
	}
	return task, nil
}
