package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	dom "todoweb/internal/domain"

	"github.com/jackc/pgx/v5"
)

// ErrNoRows is returned for a missing or deleted id. Aliased to pgx.ErrNoRows
// so callers handle both backends with one errors.Is check.
var ErrNoRows = pgx.ErrNoRows

// MemTodoRepo is a mutex-guarded in-memory TodoRepo with the same semantics
// as the Postgres one (soft delete, newest-first ordering, atomic toggle).
// Used by the test suite; no durability.
type MemTodoRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]dom.Todo
}

func NewMemTodoRepo() *MemTodoRepo {
	return &MemTodoRepo{nextID: 1, items: make(map[int64]dom.Todo)}
}

func (r *MemTodoRepo) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	t.ID = r.nextID
	r.nextID++
	t.Resolved = false
	t.CreatedAt = now
	t.UpdatedAt = now
	t.DeletedAt = nil
	r.items[t.ID] = t
	return t, nil
}

func (r *MemTodoRepo) GetByID(_ context.Context, id int64) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *MemTodoRepo) List(_ context.Context) ([]dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(dom.Todo) bool { return true }), nil
}

func (r *MemTodoRepo) Update(_ context.Context, id int64, patch dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.get(id)
	if err != nil {
		return dom.Todo{}, err
	}
	t.Title = patch.Title
	t.Description = patch.Description
	t.DueDate = patch.DueDate
	t.UpdatedAt = time.Now().UTC()
	r.items[id] = t
	return t, nil
}

func (r *MemTodoRepo) SoftDelete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.get(id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	t.DeletedAt = &now
	t.UpdatedAt = now
	r.items[id] = t
	return nil
}

func (r *MemTodoRepo) ToggleResolved(_ context.Context, id int64) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.get(id)
	if err != nil {
		return dom.Todo{}, err
	}
	t.Resolved = !t.Resolved
	t.UpdatedAt = time.Now().UTC()
	r.items[id] = t
	return t, nil
}

func (r *MemTodoRepo) Search(_ context.Context, q string) ([]dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q = strings.ToLower(q)
	return r.collect(func(t dom.Todo) bool {
		return strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q)
	}), nil
}

func (r *MemTodoRepo) Overdue(_ context.Context) ([]dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	list := r.collect(func(t dom.Todo) bool { return t.Overdue(now) })
	sort.Slice(list, func(i, j int) bool {
		if list[i].DueDate.Equal(*list[j].DueDate) {
			return list[i].ID < list[j].ID
		}
		return list[i].DueDate.Before(*list[j].DueDate)
	})
	return list, nil
}

// get returns a live (non-deleted) item. Callers hold the lock.
func (r *MemTodoRepo) get(id int64) (dom.Todo, error) {
	t, ok := r.items[id]
	if !ok || t.DeletedAt != nil {
		return dom.Todo{}, ErrNoRows
	}
	return t, nil
}

// collect returns live items matching the filter, newest first.
func (r *MemTodoRepo) collect(match func(dom.Todo) bool) []dom.Todo {
	var list []dom.Todo
	for _, t := range r.items {
		if t.DeletedAt == nil && match(t) {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}
