package lists

import (
	"errors"

	pkgerrors "lists-ms/pkg/errors"
)

var (
	ErrListNotFound    = errors.New("list not found")
	ErrForbidden       = errors.New("list does not belong to user")
	ErrOrderOutOfRange = errors.New("list order does not address a list in the page")
)

// Sentinels is how the errors above are reported to API callers.
func Sentinels() []pkgerrors.Sentinel {
	return []pkgerrors.Sentinel{
		{Err: ErrListNotFound, Type: pkgerrors.ErrorTypeNotFound, Code: "LIST_NOT_FOUND", Message: "list not found"},
		{Err: ErrForbidden, Type: pkgerrors.ErrorTypeForbidden, Code: "NOT_OWNER", Message: "list does not belong to caller"},
		{Err: ErrOrderOutOfRange, Type: pkgerrors.ErrorTypeInternal, Code: "ORDER_OUT_OF_RANGE", Message: "failed to attach tasks"},
	}
}
