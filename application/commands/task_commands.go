package commands

import "lists-ms/pkg/utils"

// SaveTaskCommand upserts a task under a list owned by UserID
type SaveTaskCommand struct {
	ListID   string `json:"listUuid" validate:"required"`
	TaskID   string `json:"uuid" validate:"required"`
	UserID   string `json:"user" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Order    int    `json:"order"`
	Complete bool   `json:"complete"`
}

// Validate validates the command
func (c SaveTaskCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// DeleteTaskCommand removes a task under a list owned by UserID
type DeleteTaskCommand struct {
	ListID string `json:"listUuid" validate:"required"`
	TaskID string `json:"uuid" validate:"required"`
	UserID string `json:"user" validate:"required"`
}

// Validate validates the command
func (c DeleteTaskCommand) Validate() error {
	return utils.ValidateStruct(c)
}
