package commands

import "lists-ms/pkg/utils"

// SaveListCommand upserts a list. Create and update both dispatch it.
type SaveListCommand struct {
	ListID string        `json:"uuid" validate:"required"`
	UserID string        `json:"user" validate:"required"`
	Name   string        `json:"name" validate:"required"`
	Order  int           `json:"order"`
	Tasks  []interface{} `json:"tasks"`
}

// Validate validates the command
func (c SaveListCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// DeleteListCommand removes a list owned by UserID
type DeleteListCommand struct {
	ListID string `json:"uuid" validate:"required"`
	UserID string `json:"user" validate:"required"`
}

// Validate validates the command
func (c DeleteListCommand) Validate() error {
	return utils.ValidateStruct(c)
}
