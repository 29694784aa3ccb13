package queries

import (
	"lists-ms/domain/lists"
	pkgerrors "lists-ms/pkg/errors"
)

// DefaultPageSize is the number of lists returned per read-all page
const DefaultPageSize = 5

// ReadAllListsQuery returns one page of the caller's lists with their tasks
type ReadAllListsQuery struct {
	UserID string
	// StartToken continues a previous page. The owner half of the start
	// key always comes from UserID.
	StartToken string
	Limit      int
}

// Validate validates the query
func (q ReadAllListsQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("Missing user")
	}
	if q.Limit < 0 {
		return pkgerrors.NewValidationError("limit cannot be negative")
	}
	return nil
}

// ReadAllListsResult is the read-all response body
type ReadAllListsResult struct {
	Data          []lists.ListView `json:"data"`
	LastEvaluated string           `json:"lastEvaluated,omitempty"`
}
