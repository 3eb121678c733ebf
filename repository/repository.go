package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/models"
)

var (
	ErrNotFound    = errors.New("task not found")
	ErrPersistence = errors.New("persistence failure")
)

// TaskRepository is the CRUD surface over the tasks table. Every call is
// its own committed unit of work; nothing is held between calls.
type TaskRepository interface {
	Create(ctx context.Context, task models.Task) (models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	Get(ctx context.Context, id int64) (models.Task, error)
	Update(ctx context.Context, id int64, update models.TaskUpdate) (models.Task, error)
	Delete(ctx context.Context, id int64) (models.Task, error)
}

// Clock is swapped in tests to control created_at.
type Clock func() time.Time

func persistenceErr(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// setClause renders "col = <ph>, ..." for the supplied fields. placeholder
// receives the 1-based argument position.
func setClause(fields []models.UpdateField, placeholder func(int) string, value func(any) any) (string, []any) {
	parts := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for i, f := range fields {
		parts = append(parts, fmt.Sprintf("%s = %s", f.Column, placeholder(i+1)))
		args = append(args, value(f.Value))
	}
	return strings.Join(parts, ", "), args
}

func normalize(task models.Task) models.Task {
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	return task
}
