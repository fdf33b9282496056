package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/letterboxhq/letterbox-api/internal/adapters/config"
	"github.com/letterboxhq/letterbox-api/internal/domain"
	"github.com/letterboxhq/letterbox-api/pkg/cachekeys"
)

const defaultListCacheTTL = 60 * time.Second

// UpdateTaskInput carries the mutable task fields; nil means "leave unchanged".
type UpdateTaskInput struct {
	Description *string
	Completed   *bool
}

// TaskService orchestrates task reads through the list cache and task
// mutations through the persistent store followed by cache invalidation.
type TaskService struct {
	repo      domain.TaskRepository
	listCache *ListCache
	logger    domain.Logger
	config    config.Provider
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo domain.TaskRepository, listCache *ListCache, logger domain.Logger, cfgProvider config.Provider) *TaskService {
	if repo == nil {
		panic("task repository is nil in NewTaskService")
	}
	if listCache == nil {
		panic("list cache is nil in NewTaskService")
	}
	return &TaskService{repo: repo, listCache: listCache, logger: logger, config: cfgProvider}
}

func listCacheTTL(cfgProvider config.Provider) time.Duration {
	if secs := cfgProvider.Get().App.ListCacheTTLSeconds; secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultListCacheTTL
}

// List returns the task collection snapshot and whether it came from cache.
func (s *TaskService) List(ctx context.Context) (json.RawMessage, CacheOrigin, error) {
	return s.listCache.ReadThrough(ctx, cachekeys.ListKey(domain.CollectionTasks), listCacheTTL(s.config), func(ctx context.Context) (any, error) {
		return s.repo.List(ctx)
	})
}

// Get returns a single task by id.
func (s *TaskService) Get(ctx context.Context, id uint) (*domain.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// Create persists a new task and invalidates the list snapshot.
func (s *TaskService) Create(ctx context.Context, description string) (*domain.Task, error) {
	task := &domain.Task{Description: description, Completed: false}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	s.invalidateList(ctx)
	return task, nil
}

// Update mutates an existing task and invalidates the list snapshot.
func (s *TaskService) Update(ctx context.Context, id uint, input UpdateTaskInput) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	s.invalidateList(ctx)
	return task, nil
}

// Delete removes a task and invalidates the list snapshot.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

// invalidateList runs after the mutation is durable. A failed delete leaves a
// snapshot that is stale at most for its remaining TTL, so it does not fail
// the mutation.
func (s *TaskService) invalidateList(ctx context.Context) {
	if err := s.listCache.Invalidate(ctx, cachekeys.ListKey(domain.CollectionTasks)); err != nil {
		s.logger.Warn(ctx, "Task list invalidation failed, relying on TTL expiry", "error", err.Error())
	}
}
