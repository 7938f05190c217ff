package repo

import (
	"context"
	"strings"
	"sync"
	"time"

	dom "Tracker/internal/domain"

	"github.com/google/uuid"
)

// TodoRepo is the authoritative collection of todos.
type TodoRepo interface {
	Create(ctx context.Context, title string, description *string) (dom.Todo, error)
	GetByID(ctx context.Context, id string) (dom.Todo, bool)
	List(ctx context.Context) []dom.Todo
	Update(ctx context.Context, id string, patch dom.TodoPatch) (dom.Todo, error)
	UpdateIf(ctx context.Context, id string, guard func(dom.Todo) error, patch dom.TodoPatch) (dom.Todo, error)
	Delete(ctx context.Context, id string) error
}

// Option configures a MemoryTodoRepo.
type Option func(*MemoryTodoRepo)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *MemoryTodoRepo) { r.now = now }
}

// WithStrictUpdatedAt makes every accepted update move UpdatedAt strictly forward.
func WithStrictUpdatedAt(strict bool) Option {
	return func(r *MemoryTodoRepo) { r.strict = strict }
}

// MemoryTodoRepo implements TodoRepo with a mutex-guarded map.
// Records are copied in and out, so callers never alias stored values.
type MemoryTodoRepo struct {
	mu     sync.RWMutex
	todos  map[string]dom.Todo
	order  []string
	now    func() time.Time
	strict bool
}

var _ TodoRepo = (*MemoryTodoRepo)(nil)

func NewMemoryTodoRepo(opts ...Option) *MemoryTodoRepo {
	r := &MemoryTodoRepo{
		todos: make(map[string]dom.Todo),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *MemoryTodoRepo) Create(_ context.Context, title string, description *string) (dom.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Todo{}, dom.NewValidationError(dom.MsgTitleEmpty)
	}
	var desc *string
	if description != nil {
		d := strings.TrimSpace(*description)
		desc = &d
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	for _, exists := r.todos[id]; exists; _, exists = r.todos[id] {
		id = uuid.NewString()
	}
	now := r.now().UTC()
	t := dom.Todo{
		ID:          id,
		Title:       title,
		Description: desc,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.todos[id] = t
	r.order = append(r.order, id)
	return t.Clone(), nil
}

func (r *MemoryTodoRepo) GetByID(_ context.Context, id string) (dom.Todo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, false
	}
	return t.Clone(), true
}

// List returns a snapshot of every todo in insertion order.
func (r *MemoryTodoRepo) List(_ context.Context) []dom.Todo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dom.Todo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.todos[id].Clone())
	}
	return out
}

func (r *MemoryTodoRepo) Update(ctx context.Context, id string, patch dom.TodoPatch) (dom.Todo, error) {
	return r.UpdateIf(ctx, id, nil, patch)
}

// UpdateIf applies patch only if guard accepts the current record. The guard
// runs under the write lock, so check and write are one step.
func (r *MemoryTodoRepo) UpdateIf(_ context.Context, id string, guard func(dom.Todo) error, patch dom.TodoPatch) (dom.Todo, error) {
	var title, desc *string
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return dom.Todo{}, dom.NewValidationError(dom.MsgTitleEmpty)
		}
		title = &t
	}
	if patch.Description != nil {
		d := strings.TrimSpace(*patch.Description)
		desc = &d
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, dom.NewNotFoundError(dom.MsgTodoNotFound)
	}
	if guard != nil {
		if err := guard(existing.Clone()); err != nil {
			return dom.Todo{}, err
		}
	}

	updated := existing
	if title != nil {
		updated.Title = *title
	}
	if desc != nil {
		updated.Description = desc
	}
	if patch.Completed != nil {
		updated.Completed = *patch.Completed
	}
	updated.UpdatedAt = r.nextUpdatedAt(existing.UpdatedAt)

	r.todos[id] = updated
	return updated.Clone(), nil
}

func (r *MemoryTodoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return dom.NewNotFoundError(dom.MsgTodoNotFound)
	}
	delete(r.todos, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// nextUpdatedAt never goes backwards, even if the wall clock does.
func (r *MemoryTodoRepo) nextUpdatedAt(prev time.Time) time.Time {
	now := r.now().UTC()
	if now.After(prev) {
		return now
	}
	if r.strict {
		return prev.Add(time.Nanosecond)
	}
	return prev
}
