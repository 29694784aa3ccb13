package lists

import (
	"fmt"
	"strings"

	pkgerrors "lists-ms/pkg/errors"
)

// Task is a child record of a List. It carries no owner of its own.
type Task struct {
	ID       string
	ListID   string
	Name     string
	Order    int
	Complete bool
}

// TaskSummary is the caller-facing shape of a task read from the Tasks table.
type TaskSummary struct {
	UUID     string `json:"uuid,omitempty" dynamodbav:"uuid,omitempty"`
	Name     string `json:"name" dynamodbav:"name"`
	Order    int    `json:"order" dynamodbav:"order"`
	Complete bool   `json:"complete" dynamodbav:"complete"`
}

// NewTask builds a task bound to its parent list.
func NewTask(id, listID, name string, order int, complete bool) (*Task, error) {
	if err := checkID(id, "uuid"); err != nil {
		return nil, err
	}
	if listID == "" {
		return nil, pkgerrors.NewValidationError("Missing list uuid")
	}
	if id == "" {
		return nil, pkgerrors.NewValidationError("Missing uuid")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("Missing name")
	}

	return &Task{
		ID:       id,
		ListID:   listID,
		Name:     name,
		Order:    order,
		Complete: complete,
	}, nil
}

// checkID rejects keys with leading or trailing whitespace.
func checkID(id, field string) error {
	if id != strings.TrimSpace(id) {
		return pkgerrors.NewValidationError(fmt.Sprintf("%s must not have leading or trailing whitespace", field))
	}
	return nil
}

// Summary drops the parent reference.
func (t *Task) Summary() TaskSummary {
	return TaskSummary{
		UUID:     t.ID,
		Name:     t.Name,
		Order:    t.Order,
		Complete: t.Complete,
	}
}

func summariesOf(tasks []TaskSummary) []interface{} {
	out := make([]interface{}, len(tasks))
	for i, t := range tasks {
		out[i] = t
	}
	return out
}
