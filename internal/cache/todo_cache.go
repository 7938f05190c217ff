package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	dom "Tracker/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keySearch = "todo:search:"

// TodoCache caches search results in Redis. The in-memory store stays the
// source of truth; entries are dropped on every write.
//
// Keys live under a per-process namespace: the store does not survive a
// restart, so entries written by an earlier process must never be read.
type TodoCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl, prefix: keySearch + uuid.NewString() + ":"}
}

// cachedTodo is the wire form; Todo itself carries no json tags.
type cachedTodo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetSearch returns the cached result stored under key. ok is false on a miss.
func (c *TodoCache) GetSearch(ctx context.Context, key string) (list []dom.Todo, ok bool, err error) {
	b, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var raw []cachedTodo
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, false, err
	}
	list = make([]dom.Todo, len(raw))
	for i, t := range raw {
		list[i] = dom.Todo(t)
	}
	return list, true, nil
}

// SetSearch stores a search result under key.
func (c *TodoCache) SetSearch(ctx context.Context, key string, list []dom.Todo) error {
	raw := make([]cachedTodo, len(list))
	for i, t := range list {
		raw[i] = cachedTodo(t)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+key, b, c.ttl).Err()
}

// InvalidateAll removes all search keys of this process (cache invalidation on write).
func (c *TodoCache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// FilterKey builds a stable key for f. Text predicates are case-insensitive,
// so they are lowercased before going into the key.
func FilterKey(f dom.TodoFilter) string {
	var b strings.Builder
	b.WriteString("t=")
	if f.Title != nil {
		b.WriteString(strconv.Quote(normalizeQuery(*f.Title)))
	}
	b.WriteString("|d=")
	if f.Description != nil {
		b.WriteString(strconv.Quote(normalizeQuery(*f.Description)))
	}
	b.WriteString("|c=")
	if f.Completed != nil {
		b.WriteString(strconv.FormatBool(*f.Completed))
	}
	return b.String()
}

func normalizeQuery(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
