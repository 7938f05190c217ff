package service

import (
	"context"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"Tracker/internal/cache"
	dom "Tracker/internal/domain"
	"Tracker/internal/repo"
	"Tracker/internal/sanitize"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// SearchCache is the subset of cache.TodoCache the service needs.
type SearchCache interface {
	GetSearch(ctx context.Context, key string) ([]dom.Todo, bool, error)
	SetSearch(ctx context.Context, key string, list []dom.Todo) error
	InvalidateAll(ctx context.Context) error
}

var _ SearchCache = (*cache.TodoCache)(nil)

// TodoService owns sanitization, length limits, the completed-lock rule and
// search. Handlers must go through it; it never keeps its own copy of a todo.
type TodoService struct {
	repo  repo.TodoRepo
	cache SearchCache
	log   logrus.FieldLogger
	sf    singleflight.Group

	// gen is bumped after every write so searches started later never join
	// a flight (or read a cache entry) that predates the write.
	gen atomic.Uint64
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c SearchCache, log logrus.FieldLogger) *TodoService {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &TodoService{repo: r, cache: c, log: log}
}

func (s *TodoService) Create(ctx context.Context, title string, desc *string) (dom.Todo, error) {
	title = sanitize.Text(title)
	if desc != nil {
		d := sanitize.Text(*desc)
		desc = &d
	}
	if err := checkLengths(&title, desc); err != nil {
		return dom.Todo{}, err
	}

	t, err := s.repo.Create(ctx, title, desc)
	if err != nil {
		return dom.Todo{}, err
	}
	s.log.WithField("todo_id", t.ID).Debug("todo created")
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	t, ok := s.repo.GetByID(ctx, id)
	if !ok {
		return dom.Todo{}, dom.NewNotFoundError(dom.MsgTodoNotFound)
	}
	return t, nil
}

// Update applies patch to the todo with the given id. A completed todo is
// frozen: any update, even an empty one, fails without touching the record.
func (s *TodoService) Update(ctx context.Context, id string, patch dom.TodoPatch) (dom.Todo, error) {
	existing, ok := s.repo.GetByID(ctx, id)
	if !ok {
		return dom.Todo{}, dom.NewNotFoundError(dom.MsgTodoNotFound)
	}
	if err := ensureMutable(existing); err != nil {
		return dom.Todo{}, err
	}

	clean := dom.TodoPatch{Completed: patch.Completed}
	if patch.Title != nil {
		clean.Title = dom.StringPtr(sanitize.Text(*patch.Title))
	}
	if patch.Description != nil {
		clean.Description = dom.StringPtr(sanitize.Text(*patch.Description))
	}
	if err := checkLengths(clean.Title, clean.Description); err != nil {
		return dom.Todo{}, err
	}

	// The record may have been completed since the read above; the guard
	// repeats the check under the store lock.
	t, err := s.repo.UpdateIf(ctx, id, ensureMutable, clean)
	if err != nil {
		return dom.Todo{}, err
	}
	s.log.WithField("todo_id", t.ID).WithField("completed", t.Completed).Debug("todo updated")
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("todo_id", id).Debug("todo deleted")
	s.invalidateCache(ctx)
	return nil
}

// Find returns the todos matching every predicate in f. Title and description
// match case-insensitively by substring; completed matches exactly.
func (s *TodoService) Find(ctx context.Context, f dom.TodoFilter) ([]dom.Todo, error) {
	f = normalizeFilter(f)
	gen := s.gen.Load()
	key := strconv.FormatUint(gen, 10) + ":" + cache.FilterKey(f)

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if s.cache != nil {
			list, ok, err := s.cache.GetSearch(ctx, key)
			if err != nil {
				s.log.WithError(err).Warn("todo cache read failed")
			} else if ok {
				return list, nil
			}
		}
		list := filterTodos(s.repo.List(ctx), f)
		if s.cache != nil && s.gen.Load() == gen {
			if err := s.cache.SetSearch(ctx, key, list); err != nil {
				s.log.WithError(err).Warn("todo cache write failed")
			}
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}

	shared := v.([]dom.Todo)
	out := make([]dom.Todo, len(shared))
	for i := range shared {
		out[i] = shared[i].Clone()
	}
	return out, nil
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	s.gen.Add(1)
	if s.cache != nil {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			s.log.WithError(err).Warn("todo cache invalidation failed")
		}
	}
}

func ensureMutable(t dom.Todo) error {
	if t.Completed {
		return dom.NewImmutableError(dom.MsgTodoCompleted)
	}
	return nil
}

// checkLengths validates the sanitized values; nil means "not supplied".
// Title is checked first.
func checkLengths(title, desc *string) error {
	if title != nil && utf8.RuneCountInString(*title) > dom.MaxTitleLength {
		return dom.NewValidationError(dom.MsgTitleTooLong)
	}
	if desc != nil && utf8.RuneCountInString(*desc) > dom.MaxDescriptionLength {
		return dom.NewValidationError(dom.MsgDescriptionTooLong)
	}
	return nil
}

// normalizeFilter trims text predicates and drops empty ones.
func normalizeFilter(f dom.TodoFilter) dom.TodoFilter {
	out := dom.TodoFilter{Completed: f.Completed}
	if f.Title != nil {
		if q := strings.TrimSpace(*f.Title); q != "" {
			out.Title = &q
		}
	}
	if f.Description != nil {
		if q := strings.TrimSpace(*f.Description); q != "" {
			out.Description = &q
		}
	}
	return out
}

func filterTodos(list []dom.Todo, f dom.TodoFilter) []dom.Todo {
	out := make([]dom.Todo, 0, len(list))
	for _, t := range list {
		if matches(t, f) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t dom.Todo, f dom.TodoFilter) bool {
	if f.Title != nil && !containsFold(t.Title, *f.Title) {
		return false
	}
	if f.Description != nil {
		if t.Description == nil || !containsFold(*t.Description, *f.Description) {
			return false
		}
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
