package services

import (
	"context"
	"fmt"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/ai_services"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/models"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/repository"
)

type Analyzer interface {
	Analyze(ctx context.Context, title, description string) ai_services.Analysis
}

type Publisher interface {
	Publish(ev models.Event)
}

// TaskService runs every task operation: analysis on create, persistence,
// then exactly one event per successful mutation.
type TaskService struct {
	repo      repository.TaskRepository
	analyzer  Analyzer
	publisher Publisher
}

func New(repo repository.TaskRepository, analyzer Analyzer, publisher Publisher) (*TaskService, error) {
	if repo == nil {
		return nil, ErrRepoNil
	}
	if analyzer == nil {
		return nil, ErrAnalyzerNil
	}
	if publisher == nil {
		return nil, ErrPublisherNil
	}
	return &TaskService{repo: repo, analyzer: analyzer, publisher: publisher}, nil
}

func (s *TaskService) CreateTask(ctx context.Context, title, description string) (models.Task, error) {
	analysis := s.analyzer.Analyze(ctx, title, description)

	task := models.NewTask(title, description)
	task.Summary = analysis.Summary
	task.Priority = analysis.Priority

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return models.Task{}, err
	}
	s.publisher.Publish(models.Event{Action: models.ActionCreated, TaskID: created.ID})
	return created, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.repo.List(ctx)
}

func (s *TaskService) GetTask(ctx context.Context, id int64) (models.Task, error) {
	return s.repo.Get(ctx, id)
}

// UpdateTask applies the supplied fields only. An empty update still
// reports the task as updated.
func (s *TaskService) UpdateTask(ctx context.Context, id int64, update models.TaskUpdate) (models.Task, error) {
	if update.Priority != nil && !update.Priority.Valid() {
		return models.Task{}, fmt.Errorf("%w: %w", ErrInvalidInput, models.ErrInvalidPriority)
	}

	task, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return models.Task{}, err
	}
	s.publisher.Publish(models.Event{Action: models.ActionUpdated, TaskID: task.ID})
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	task, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.publisher.Publish(models.Event{Action: models.ActionDeleted, TaskID: task.ID})
	return nil
}

// Snapshot is the task list handed to a streaming connection when it opens.
func (s *TaskService) Snapshot(ctx context.Context) (models.InitMessage, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return models.InitMessage{}, err
	}
	return models.NewInitMessage(tasks), nil
}
