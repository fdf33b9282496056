package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/letterboxhq/letterbox-api/internal/domain"
)

// NewsletterRepository implements domain.NewsletterRepository on gorm.
type NewsletterRepository struct {
	db *gorm.DB
}

var _ domain.NewsletterRepository = (*NewsletterRepository)(nil)

// NewNewsletterRepository creates a new NewsletterRepository.
func NewNewsletterRepository(db *gorm.DB) *NewsletterRepository {
	return &NewsletterRepository{db: db}
}

// List returns all newsletters ordered by id.
func (r *NewsletterRepository) List(ctx context.Context) ([]domain.Newsletter, error) {
	newsletters := make([]domain.Newsletter, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&newsletters).Error; err != nil {
		return nil, fmt.Errorf("list newsletters failed: %w", err)
	}
	return newsletters, nil
}

// GetByID returns the newsletter with the given id, or domain.ErrNotFound.
func (r *NewsletterRepository) GetByID(ctx context.Context, id uint) (*domain.Newsletter, error) {
	var newsletter domain.Newsletter
	if err := r.db.WithContext(ctx).Take(&newsletter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query newsletter by id failed: %w", err)
	}
	return &newsletter, nil
}

// Create inserts a new newsletter.
func (r *NewsletterRepository) Create(ctx context.Context, newsletter *domain.Newsletter) error {
	if err := r.db.WithContext(ctx).Create(newsletter).Error; err != nil {
		return fmt.Errorf("create newsletter failed: %w", err)
	}
	return nil
}

// Update saves a full newsletter record.
func (r *NewsletterRepository) Update(ctx context.Context, newsletter *domain.Newsletter) error {
	if err := r.db.WithContext(ctx).Save(newsletter).Error; err != nil {
		return fmt.Errorf("update newsletter failed: %w", err)
	}
	return nil
}

// Delete removes the newsletter with the given id, or reports
// domain.ErrNotFound when no row was affected.
func (r *NewsletterRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Newsletter{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete newsletter failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
