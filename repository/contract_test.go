package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/models"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/repository"
)

// stepClock hands out strictly increasing timestamps one second apart.
type stepClock struct {
	mu   sync.Mutex
	next time.Time
}

func newStepClock() *stepClock {
	return &stepClock{next: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(time.Second)
	return t
}

func ptr[T any](v T) *T { return &v }

// runContract exercises the behavior every TaskRepository must share.
// newRepo must return an empty repository whose clock is clk.Now.
func runContract(t *testing.T, newRepo func(t *testing.T, clk repository.Clock) repository.TaskRepository) {
	ctx := context.Background()

	t.Run("CreateAssignsIDAndTimestamp", func(t *testing.T) {
		clk := newStepClock()
		repo := newRepo(t, clk.Now)

		task := models.NewTask("Write report", "Quarterly numbers")
		task.Summary = "Quarterly numbers"
		task.Priority = models.PriorityHigh

		created, err := repo.Create(ctx, task)
		if err != nil {
			t.Fatalf("Create() err=%v, want nil", err)
		}
		if created.ID <= 0 {
			t.Fatalf("ID=%d, want > 0", created.ID)
		}
		if created.CreatedAt.IsZero() {
			t.Fatalf("CreatedAt is zero, want stamped")
		}
		if created.Priority != models.PriorityHigh || created.Summary != "Quarterly numbers" || created.Completed {
			t.Fatalf("created=%+v, want fields preserved", created)
		}

		got, err := repo.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get() err=%v, want nil", err)
		}
		if got != created {
			t.Fatalf("Get()=%+v, want %+v", got, created)
		}
	})

	t.Run("CreateDefaultsPriority", func(t *testing.T) {
		repo := newRepo(t, newStepClock().Now)

		created, err := repo.Create(ctx, models.Task{Title: "no priority"})
		if err != nil {
			t.Fatalf("Create() err=%v, want nil", err)
		}
		if created.Priority != models.PriorityMedium {
			t.Fatalf("Priority=%q, want Medium", created.Priority)
		}
	})

	t.Run("ListEmpty", func(t *testing.T) {
		repo := newRepo(t, newStepClock().Now)

		tasks, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() err=%v, want nil", err)
		}
		if tasks == nil || len(tasks) != 0 {
			t.Fatalf("List()=%v, want empty non-nil slice", tasks)
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		repo := newRepo(t, newStepClock().Now)

		first, err := repo.Create(ctx, models.NewTask("first", ""))
		if err != nil {
			t.Fatalf("Create(first) err=%v", err)
		}
		second, err := repo.Create(ctx, models.NewTask("second", ""))
		if err != nil {
			t.Fatalf("Create(second) err=%v", err)
		}

		tasks, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() err=%v, want nil", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("len=%d, want 2", len(tasks))
		}
		if tasks[0].ID != second.ID || tasks[1].ID != first.ID {
			t.Fatalf("order=[%d %d], want [%d %d]", tasks[0].ID, tasks[1].ID, second.ID, first.ID)
		}
	})

	t.Run("ListSameTimestampFallsBackToID", func(t *testing.T) {
		fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		repo := newRepo(t, func() time.Time { return fixed })

		a, _ := repo.Create(ctx, models.NewTask("a", ""))
		b, _ := repo.Create(ctx, models.NewTask("b", ""))

		tasks, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() err=%v", err)
		}
		if len(tasks) != 2 || tasks[0].ID != b.ID || tasks[1].ID != a.ID {
			t.Fatalf("List()=%+v, want b before a", tasks)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		repo := newRepo(t, newStepClock().Now)

		_, err := repo.Get(ctx, 424242)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("Get() err=%v, want %v", err, repository.ErrNotFound)
		}
	})

	t.Run("UpdateOnlySuppliedFields", func(t *testing.T) {
		repo := newRepo(t, newStepClock().Now)

		task := models.NewTask("Title", "Desc")
		task.Priority = models.PriorityLow
		task.Summary = "Desc"
		created, err := repo.Create(ctx, task)
		if err != nil {
			t.Fatalf("Create() err=%v", err)
		}

		updated, err := repo.Update(ctx, created.ID, models.TaskUpdate{Completed: ptr(true)})
		if err != nil {
			t.Fatalf("Update() err=%v, want nil", err)
		}

		want := created
		want.Completed = true
		if updated != want {
			t.Fatalf("Update()=%+v, want %+v", updated, want)
		}

		got, err := repo.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get() err=%v", err)
		}
		if got != want {
			t.Fatalf("Get() after update=%+v, want %+v", got, want)
		}
	})

	t.Run("UpdateSeveralFields", func(t *testing.T) {
		repo := newRepo(t, newStepClock().Now)

		created, _ := repo.Create(ctx, models.NewTask("old", "old desc"))
		updated, err := repo.Update(ctx, created.ID, models.TaskUpdate{
			Title:    ptr("new"),
			Priority: ptr(models.PriorityHigh),
			Summary:  ptr("sum"),
		})
		if err != nil {
			t.Fatalf("Update() err=%v", err)
		}
		if updated.Title != "new" || updated.Priority != models.PriorityHigh || updated.Summary != "sum" {
			t.Fatalf("Update()=%+v, want title/priority/summary replaced", updated)
		}
		if updated.Description != "old desc" || !updated.CreatedAt.Equal(created.CreatedAt) || updated.ID != created.ID {
			t.Fatalf("Update()=%+v, want description, id and created_at untouched", updated)
		}
	})

	t.Run("UpdateEmptyIsNoop", func(t *testing.T) {
		repo := newRepo(t, newStepClock().Now)

		created, _ := repo.Create(ctx, models.NewTask("same", ""))
		updated, err := repo.Update(ctx, created.ID, models.TaskUpdate{})
		if err != nil {
			t.Fatalf("Update() err=%v", err)
		}
		if updated != created {
			t.Fatalf("Update()=%+v, want %+v", updated, created)
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		repo := newRepo(t, newStepClock().Now)

		_, err := repo.Update(ctx, 99, models.TaskUpdate{Completed: ptr(true)})
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("Update() err=%v, want %v", err, repository.ErrNotFound)
		}
	})

	t.Run("DeleteTwice", func(t *testing.T) {
		repo := newRepo(t, newStepClock().Now)

		created, _ := repo.Create(ctx, models.NewTask("gone", ""))

		deleted, err := repo.Delete(ctx, created.ID)
		if err != nil {
			t.Fatalf("Delete() err=%v, want nil", err)
		}
		if deleted != created {
			t.Fatalf("Delete()=%+v, want %+v", deleted, created)
		}

		if _, err := repo.Get(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("Get() after delete err=%v, want %v", err, repository.ErrNotFound)
		}
		if _, err := repo.Delete(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("second Delete() err=%v, want %v", err, repository.ErrNotFound)
		}
	})

	t.Run("ConcurrentCreates", func(t *testing.T) {
		repo := newRepo(t, newStepClock().Now)

		const n = 16
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.Create(ctx, models.NewTask("parallel", "")); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("Create() err=%v", err)
		}

		tasks, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() err=%v", err)
		}
		seen := make(map[int64]bool, n)
		for _, task := range tasks {
			if seen[task.ID] {
				t.Fatalf("duplicate id %d", task.ID)
			}
			seen[task.ID] = true
		}
		if len(seen) != n {
			t.Fatalf("len=%d, want %d", len(seen), n)
		}
	})
}
