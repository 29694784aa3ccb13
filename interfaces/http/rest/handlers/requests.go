package handlers

// Request schemas. Pointer fields with `required` reject both an absent
// key and an explicit null while accepting zero values such as
// "order": 0, "complete": false and "tasks": []. Embedded task elements
// may be any JSON value.

// CreateListRequest is the body of POST /
type CreateListRequest struct {
	UUID  *string        `json:"uuid" validate:"required,min=1"`
	Name  *string        `json:"name" validate:"required,min=1"`
	Order *int           `json:"order" validate:"required"`
	Tasks *[]interface{} `json:"tasks" validate:"required"`
}

// UpdateListRequest is the body of PUT /{uuid}
type UpdateListRequest struct {
	Name  *string        `json:"name" validate:"required,min=1"`
	Order *int           `json:"order" validate:"required"`
	Tasks *[]interface{} `json:"tasks" validate:"required"`
}

// CreateTaskRequest is the body of POST /{uuid}/tasks. The uuid is
// generated when absent.
type CreateTaskRequest struct {
	UUID     *string `json:"uuid" validate:"omitempty,min=1"`
	Name     *string `json:"name" validate:"required,min=1"`
	Order    *int    `json:"order" validate:"required"`
	Complete *bool   `json:"complete" validate:"required"`
}

// UpdateTaskRequest is the body of PUT /{uuid}/tasks/{taskUuid}
type UpdateTaskRequest struct {
	Name     *string `json:"name" validate:"required,min=1"`
	Order    *int    `json:"order" validate:"required"`
	Complete *bool   `json:"complete" validate:"required"`
}
