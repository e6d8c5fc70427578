package media

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for a malformed URL or format token.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedCategory is returned when the URL matches no known category.
	ErrUnsupportedCategory = errors.New("unsupported media category")
	// ErrNotImplemented is returned for channel downloads.
	ErrNotImplemented = errors.New("not implemented")
	// ErrNoHandler is returned when dispatch finds no routine for a category.
	ErrNoHandler = errors.New("no download handler")
	// ErrNoStreamAvailable is returned when the item lacks the requested stream kind.
	ErrNoStreamAvailable = errors.New("no stream available")
	// ErrTranscodeFailed is returned when audio conversion cannot be performed.
	ErrTranscodeFailed = errors.New("transcode failed")
	// ErrItemsFailed is returned at the end of a run where at least one item failed.
	ErrItemsFailed = errors.New("some items failed")
)

// ItemError attaches the failing item and operation to an error.
type ItemError struct {
	ItemID string
	Op     string
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.ItemID, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }
