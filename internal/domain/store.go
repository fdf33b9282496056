package domain

import (
	"context"
	"errors"
)

// Sentinel errors returned by repository implementations. Services compare
// with errors.Is and the HTTP layer maps them onto the error taxonomy.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository provides access to user records in the persistent store.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// TaskRepository provides access to task records in the persistent store.
type TaskRepository interface {
	List(ctx context.Context) ([]Task, error)
	GetByID(ctx context.Context, id uint) (*Task, error)
	Create(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id uint) error
}

// NewsletterRepository provides access to newsletter records in the persistent store.
type NewsletterRepository interface {
	List(ctx context.Context) ([]Newsletter, error)
	GetByID(ctx context.Context, id uint) (*Newsletter, error)
	Create(ctx context.Context, newsletter *Newsletter) error
	Update(ctx context.Context, newsletter *Newsletter) error
	Delete(ctx context.Context, id uint) error
}
