package lists

import pkgerrors "lists-ms/pkg/errors"

// List is the top-level container owned by a single user.
// UserID is the only ownership anchor in the system; tasks are authorized
// by dereferencing the list they point at.
type List struct {
	ID     string
	UserID string
	Name   string
	Order  int
	// Tasks is the embedded array written with the list record. Its
	// elements are opaque: stored and returned as-is, never indexed.
	Tasks []interface{}
}

// NewList builds a list stamped with its owner.
func NewList(id, userID, name string, order int, tasks []interface{}) (*List, error) {
	if err := checkID(id, "uuid"); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, pkgerrors.NewValidationError("Missing uuid")
	}
	if userID == "" {
		return nil, pkgerrors.NewValidationError("Missing user")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("Missing name")
	}
	if tasks == nil {
		tasks = []interface{}{}
	}

	return &List{
		ID:     id,
		UserID: userID,
		Name:   name,
		Order:  order,
		Tasks:  tasks,
	}, nil
}

// OwnedBy reports whether userID owns the list.
func (l *List) OwnedBy(userID string) bool {
	return l != nil && userID != "" && l.UserID == userID
}

// Authorize checks that userID may mutate the list or its tasks.
func (l *List) Authorize(userID string) error {
	if l == nil {
		return ErrListNotFound
	}
	if !l.OwnedBy(userID) {
		return ErrForbidden
	}
	return nil
}

// View strips storage-only fields and exposes the caller-facing shape.
func (l *List) View() ListView {
	tasks := make([]interface{}, len(l.Tasks))
	copy(tasks, l.Tasks)

	return ListView{
		UUID:  l.ID,
		Name:  l.Name,
		Order: l.Order,
		Tasks: tasks,
	}
}

// ListView is the JSON representation returned by read-all. Tasks holds the
// embedded elements followed by hydrated TaskSummary values.
type ListView struct {
	UUID  string        `json:"uuid"`
	Name  string        `json:"name"`
	Order int           `json:"order"`
	Tasks []interface{} `json:"tasks"`
}
