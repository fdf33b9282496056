package application

import (
	"context"
	"encoding/json"

	"github.com/letterboxhq/letterbox-api/internal/adapters/config"
	"github.com/letterboxhq/letterbox-api/internal/domain"
	"github.com/letterboxhq/letterbox-api/pkg/cachekeys"
)

// CreateNewsletterInput carries the caller-supplied newsletter fields.
type CreateNewsletterInput struct {
	Title       string
	Description string
	ImageURL    string
}

// UpdateNewsletterInput carries the mutable newsletter fields; nil means
// "leave unchanged".
type UpdateNewsletterInput struct {
	Title       *string
	Description *string
	ImageURL    *string
}

// NewsletterService orchestrates newsletter reads through the list cache and
// ownership-checked mutations through the persistent store. Ownership is
// always re-verified against the authoritative store, never against a cached
// snapshot.
type NewsletterService struct {
	repo      domain.NewsletterRepository
	listCache *ListCache
	logger    domain.Logger
	config    config.Provider
}

// NewNewsletterService creates a new NewsletterService.
func NewNewsletterService(repo domain.NewsletterRepository, listCache *ListCache, logger domain.Logger, cfgProvider config.Provider) *NewsletterService {
	if repo == nil {
		panic("newsletter repository is nil in NewNewsletterService")
	}
	if listCache == nil {
		panic("list cache is nil in NewNewsletterService")
	}
	return &NewsletterService{repo: repo, listCache: listCache, logger: logger, config: cfgProvider}
}

// List returns the newsletter collection snapshot and whether it came from cache.
func (s *NewsletterService) List(ctx context.Context) (json.RawMessage, CacheOrigin, error) {
	return s.listCache.ReadThrough(ctx, cachekeys.ListKey(domain.CollectionNewsletters), listCacheTTL(s.config), func(ctx context.Context) (any, error) {
		return s.repo.List(ctx)
	})
}

// Create persists a newsletter authored by the verified subject and
// invalidates the list snapshot.
func (s *NewsletterService) Create(ctx context.Context, authorID uint, input CreateNewsletterInput) (*domain.Newsletter, error) {
	newsletter := &domain.Newsletter{
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		AuthorID:    authorID,
	}
	if err := s.repo.Create(ctx, newsletter); err != nil {
		return nil, err
	}
	s.invalidateList(ctx)
	return newsletter, nil
}

// Update mutates a newsletter owned by subjectID. A subject that does not own
// the record gets domain.ErrForbidden; the record and the cache are untouched.
func (s *NewsletterService) Update(ctx context.Context, id, subjectID uint, input UpdateNewsletterInput) (*domain.Newsletter, error) {
	newsletter, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if newsletter.AuthorID != subjectID {
		s.logger.Warn(ctx, "Newsletter mutation denied: subject is not the author",
			"newsletter_id", id, "author_id", newsletter.AuthorID, "subject_id", subjectID)
		return nil, domain.ErrForbidden
	}
	if input.Title != nil {
		newsletter.Title = *input.Title
	}
	if input.Description != nil {
		newsletter.Description = *input.Description
	}
	if input.ImageURL != nil {
		newsletter.ImageURL = *input.ImageURL
	}
	if err := s.repo.Update(ctx, newsletter); err != nil {
		return nil, err
	}
	s.invalidateList(ctx)
	return newsletter, nil
}

// Delete removes a newsletter owned by subjectID.
func (s *NewsletterService) Delete(ctx context.Context, id, subjectID uint) error {
	newsletter, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if newsletter.AuthorID != subjectID {
		s.logger.Warn(ctx, "Newsletter delete denied: subject is not the author",
			"newsletter_id", id, "author_id", newsletter.AuthorID, "subject_id", subjectID)
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

func (s *NewsletterService) invalidateList(ctx context.Context) {
	if err := s.listCache.Invalidate(ctx, cachekeys.ListKey(domain.CollectionNewsletters)); err != nil {
		s.logger.Warn(ctx, "Newsletter list invalidation failed, relying on TTL expiry", "error", err.Error())
	}
}
