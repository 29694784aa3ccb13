package events

import (
	"time"

	"github.com/google/uuid"
)

// SourceListsService is the EventBridge source for every event raised here.
const SourceListsService = "lists-ms"

// Event types
const (
	TypeListSaved   = "list.saved"
	TypeListDeleted = "list.deleted"
	TypeTaskSaved   = "task.saved"
	TypeTaskDeleted = "task.deleted"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(aggregateID, eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     1,
	}
}

// List Events

// ListSaved is raised after a list record was upserted
type ListSaved struct {
	BaseEvent
	ListID string `json:"list_id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Order  int    `json:"order"`
}

// NewListSaved creates a ListSaved event
func NewListSaved(listID, userID, name string, order int, timestamp time.Time) ListSaved {
	return ListSaved{
		BaseEvent: newBase(listID, TypeListSaved, timestamp),
		ListID:    listID,
		UserID:    userID,
		Name:      name,
		Order:     order,
	}
}

// ListDeleted is raised after a list delete was issued
type ListDeleted struct {
	BaseEvent
	ListID string `json:"list_id"`
	UserID string `json:"user_id"`
}

// NewListDeleted creates a ListDeleted event
func NewListDeleted(listID, userID string, timestamp time.Time) ListDeleted {
	return ListDeleted{
		BaseEvent: newBase(listID, TypeListDeleted, timestamp),
		ListID:    listID,
		UserID:    userID,
	}
}

// Task Events

// TaskSaved is raised after a task record was upserted
type TaskSaved struct {
	BaseEvent
	TaskID   string `json:"task_id"`
	ListID   string `json:"list_id"`
	UserID   string `json:"user_id"`
	Complete bool   `json:"complete"`
}

// NewTaskSaved creates a TaskSaved event
func NewTaskSaved(taskID, listID, userID string, complete bool, timestamp time.Time) TaskSaved {
	return TaskSaved{
		BaseEvent: newBase(taskID, TypeTaskSaved, timestamp),
		TaskID:    taskID,
		ListID:    listID,
		UserID:    userID,
		Complete:  complete,
	}
}

// TaskDeleted is raised after a task delete was issued
type TaskDeleted struct {
	BaseEvent
	TaskID string `json:"task_id"`
	ListID string `json:"list_id"`
	UserID string `json:"user_id"`
}

// NewTaskDeleted creates a TaskDeleted event
func NewTaskDeleted(taskID, listID, userID string, timestamp time.Time) TaskDeleted {
	return TaskDeleted{
		BaseEvent: newBase(taskID, TypeTaskDeleted, timestamp),
		TaskID:    taskID,
		ListID:    listID,
		UserID:    userID,
	}
}
