package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "lists-ms/pkg/errors"
)

type presence struct {
	Name     *string `json:"name" validate:"required,min=1"`
	Order    *int    `json:"order" validate:"required"`
	Complete *bool   `json:"complete" validate:"required"`
	Tasks    *[]int  `json:"tasks" validate:"required"`
}

func ptr[T any](v T) *T { return &v }

func TestValidateStruct_PointerPresence(t *testing.T) {
	t.Run("zero values count as present", func(t *testing.T) {
		err := ValidateStruct(presence{
			Name:     ptr("n"),
			Order:    ptr(0),
			Complete: ptr(false),
			Tasks:    ptr([]int{}),
		})
		assert.NoError(t, err)
	})

	t.Run("absent fields are reported by json name", func(t *testing.T) {
		err := ValidateStruct(presence{Name: ptr("n")})

		assert.True(t, pkgerrors.IsValidation(err))
		appErr := pkgerrors.GetAppError(err)
		fields := appErr.Details["fields"].(map[string]interface{})
		assert.Equal(t, "Missing order", fields["order"])
		assert.Equal(t, "Missing complete", fields["complete"])
		assert.Equal(t, "Missing tasks", fields["tasks"])
	})

	t.Run("empty string fails min", func(t *testing.T) {
		err := ValidateStruct(presence{Name: ptr(""), Order: ptr(0), Complete: ptr(true), Tasks: ptr([]int{})})

		appErr := pkgerrors.GetAppError(err)
		assert.Equal(t, "name must be at least 1", appErr.Message)
	})
}
