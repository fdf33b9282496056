package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/letterboxhq/letterbox-api/internal/domain"
)

// TaskRepository implements domain.TaskRepository on gorm.
type TaskRepository struct {
	db *gorm.DB
}

var _ domain.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns all tasks ordered by id. The result is what list snapshots
// are built from, so the ordering must be stable.
func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks failed: %w", err)
	}
	return tasks, nil
}

// GetByID returns the task with the given id, or domain.ErrNotFound.
func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).Take(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query task by id failed: %w", err)
	}
	return &task, nil
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task failed: %w", err)
	}
	return nil
}

// Update saves a full task record.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("update task failed: %w", err)
	}
	return nil
}

// Delete removes the task with the given id, or reports domain.ErrNotFound
// when no row was affected.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Task{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete task failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
