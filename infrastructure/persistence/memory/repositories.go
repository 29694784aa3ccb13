// Package memory keeps lists and tasks in process memory. It backs local
// development with STORE_DRIVER=memory and the handler tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"lists-ms/application/ports"
	"lists-ms/domain/lists"
)

// ListRepository is an in-memory ports.ListRepository. Pages are ordered by
// list id, and the continuation token is the last id of the previous page.
type ListRepository struct {
	mu    sync.RWMutex
	items map[string]lists.List
}

// NewListRepository creates an empty list repository
func NewListRepository() *ListRepository {
	return &ListRepository{items: make(map[string]lists.List)}
}

func (r *ListRepository) Save(_ context.Context, list *lists.List) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[list.ID] = cloneList(*list)
	return nil
}

func (r *ListRepository) GetByID(_ context.Context, id string) (*lists.List, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, lists.ErrListNotFound
	}
	out := cloneList(item)
	return &out, nil
}

func (r *ListRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *ListRepository) QueryByUser(_ context.Context, userID string, limit int, startToken string) (ports.ListPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]lists.List, 0)
	for _, item := range r.items {
		if item.UserID == userID && (startToken == "" || item.ID > startToken) {
			owned = append(owned, item)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	page := ports.ListPage{Lists: make([]*lists.List, 0, len(owned))}
	for i, item := range owned {
		if limit > 0 && i == limit {
			page.NextToken = owned[i-1].ID
			break
		}
		clone := cloneList(item)
		page.Lists = append(page.Lists, &clone)
	}
	return page, nil
}

// Ping always succeeds
func (r *ListRepository) Ping(context.Context) error { return nil }

func cloneList(l lists.List) lists.List {
	tasks := make([]interface{}, len(l.Tasks))
	copy(tasks, l.Tasks)
	l.Tasks = tasks
	return l
}

// TaskRepository is an in-memory ports.TaskRepository
type TaskRepository struct {
	mu    sync.RWMutex
	items map[string]lists.Task
	// seq preserves insertion order for QueryByList
	seq   map[string]int
	next  int
}

// NewTaskRepository creates an empty task repository
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		items: make(map[string]lists.Task),
		seq:   make(map[string]int),
	}
}

func (r *TaskRepository) Save(_ context.Context, task *lists.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seq[task.ID]; !ok {
		r.seq[task.ID] = r.next
		r.next++
	}
	r.items[task.ID] = *task
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	delete(r.seq, id)
	return nil
}

func (r *TaskRepository) QueryByList(_ context.Context, listID string) ([]*lists.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*lists.Task, 0)
	for _, item := range r.items {
		if item.ListID == listID {
			task := item
			out = append(out, &task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.seq[out[i].ID] < r.seq[out[j].ID] })
	return out, nil
}

// Count returns the number of stored tasks
func (r *TaskRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
