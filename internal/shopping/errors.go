package shopping

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated means there is no signed-in user.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrRemoteUnavailable means a call to the remote store failed.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	// ErrListNotFound means the list is unknown to the coordinator or store.
	ErrListNotFound = errors.New("shopping list not found")
	// ErrItemNotFound means the item is not in the list's cached items.
	ErrItemNotFound = errors.New("shopping list item not found")
)

// ValidationError reports input the caller should have rejected before
// calling the coordinator.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// OperationError wraps a failure at a coordinator operation boundary.
type OperationError struct {
	Op     string
	ListID string
	Err    error
}

func (e *OperationError) Error() string {
	if e.ListID != "" {
		return fmt.Sprintf("%s (list %s): %v", e.Op, e.ListID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func remoteErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRemoteUnavailable) || errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrListNotFound) || errors.Is(err, ErrItemNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
}

// UserMessage turns an operation failure into the transient message shown to
// the user.
func UserMessage(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotAuthenticated):
		return "You must sign in to manage your shopping lists."
	case errors.As(err, &verr):
		return fmt.Sprintf("Please check the %s: %s.", verr.Field, verr.Reason)
	case errors.Is(err, ErrListNotFound):
		return "This shopping list no longer exists."
	case errors.Is(err, ErrItemNotFound):
		return "This item is no longer on the list."
	default:
		return "Could not update your shopping list. Please try again."
	}
}
