package application

import (
	"context"
	"sync"
	"time"

	"github.com/letterboxhq/letterbox-api/internal/domain"
)

// fakeClock lets cooldown tests move time forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// fakeCacheStore is an in-memory domain.CacheStore honouring TTLs against a
// fakeClock. Error fields inject failures per operation; refuseSetNX forces
// that many SetNX refusals without writing, to exercise arming races.
type fakeCacheStore struct {
	mu          sync.Mutex
	clock       *fakeClock
	entries     map[string]cacheEntry
	getErr      error
	setErr      error
	deleteErr   error
	setNXErr    error
	refuseSetNX int

	setCalls    int
	deleteCalls int
}

func newFakeCacheStore(clock *fakeClock) *fakeCacheStore {
	return &fakeCacheStore{clock: clock, entries: make(map[string]cacheEntry)}
}

func (f *fakeCacheStore) prune(key string) {
	entry, ok := f.entries[key]
	if ok && !entry.expiresAt.IsZero() && !f.clock.Now().Before(entry.expiresAt) {
		delete(f.entries, key)
	}
}

func (f *fakeCacheStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.prune(key)
	entry, ok := f.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

func (f *fakeCacheStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	entry := cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = f.clock.Now().Add(ttl)
	}
	f.entries[key] = entry
	return nil
}

func (f *fakeCacheStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.entries, key)
	return nil
}

func (f *fakeCacheStore) SetNX(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setNXErr != nil {
		return false, f.setNXErr
	}
	if f.refuseSetNX > 0 {
		f.refuseSetNX--
		return false, nil
	}
	f.prune(key)
	if _, ok := f.entries[key]; ok {
		return false, nil
	}
	entry := cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = f.clock.Now().Add(ttl)
	}
	f.entries[key] = entry
	return true, nil
}

func (f *fakeCacheStore) TTL(_ context.Context, key string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prune(key)
	entry, ok := f.entries[key]
	if !ok || entry.expiresAt.IsZero() {
		return 0, nil
	}
	return entry.expiresAt.Sub(f.clock.Now()), nil
}

func (f *fakeCacheStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prune(key)
	_, ok := f.entries[key]
	return ok
}

func (f *fakeCacheStore) keyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

var _ domain.CacheStore = (*fakeCacheStore)(nil)

// nopLogger discards everything; services under test only need the interface.
type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) Fatal(context.Context, string, ...any) {}
func (l nopLogger) With(...any) domain.Logger           { return l }

// fakeUserRepo is an in-memory domain.UserRepository.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, byID: make(map[uint]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.byID[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.byID {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

var _ domain.UserRepository = (*fakeUserRepo)(nil)

// fakeTaskRepo is an in-memory domain.TaskRepository.
type fakeTaskRepo struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{nextID: 1, byID: make(map[uint]domain.Task)}
}

func (r *fakeTaskRepo) List(_ context.Context) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks := make([]domain.Task, 0, len(r.byID))
	for id := uint(1); id < r.nextID; id++ {
		if task, ok := r.byID[id]; ok {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id uint) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &task, nil
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.ID = r.nextID
	r.nextID++
	r.byID[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[task.ID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

var _ domain.TaskRepository = (*fakeTaskRepo)(nil)

// fakeNewsletterRepo is an in-memory domain.NewsletterRepository.
type fakeNewsletterRepo struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]domain.Newsletter
}

func newFakeNewsletterRepo() *fakeNewsletterRepo {
	return &fakeNewsletterRepo{nextID: 1, byID: make(map[uint]domain.Newsletter)}
}

func (r *fakeNewsletterRepo) List(_ context.Context) ([]domain.Newsletter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	newsletters := make([]domain.Newsletter, 0, len(r.byID))
	for id := uint(1); id < r.nextID; id++ {
		if n, ok := r.byID[id]; ok {
			newsletters = append(newsletters, n)
		}
	}
	return newsletters, nil
}

func (r *fakeNewsletterRepo) GetByID(_ context.Context, id uint) (*domain.Newsletter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &n, nil
}

func (r *fakeNewsletterRepo) Create(_ context.Context, newsletter *domain.Newsletter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	newsletter.ID = r.nextID
	r.nextID++
	r.byID[newsletter.ID] = *newsletter
	return nil
}

func (r *fakeNewsletterRepo) Update(_ context.Context, newsletter *domain.Newsletter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[newsletter.ID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[newsletter.ID] = *newsletter
	return nil
}

func (r *fakeNewsletterRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

var _ domain.NewsletterRepository = (*fakeNewsletterRepo)(nil)

// fakeEmailPublisher records published confirmation events.
type fakeEmailPublisher struct {
	mu     sync.Mutex
	events []domain.ConfirmationEmailEvent
	err    error
}

func (p *fakeEmailPublisher) PublishConfirmationRequested(_ context.Context, event domain.ConfirmationEmailEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakeEmailPublisher) published() []domain.ConfirmationEmailEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.ConfirmationEmailEvent, len(p.events))
	copy(out, p.events)
	return out
}

var _ domain.EmailEventPublisher = (*fakeEmailPublisher)(nil)
