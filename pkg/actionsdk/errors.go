package actionsdk

import (
	"errors"
	"fmt"
)

var (
	// ErrMessageNotFound is returned when message resolution yields nothing.
	ErrMessageNotFound = errors.New("no message found")
	// ErrNotEmbedMessage is returned when the resolved message has no embed.
	ErrNotEmbedMessage = errors.New("message is not an embed message")
)

// ErrorCode classifies an action failure for logging and metrics.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeStorage      ErrorCode = "STORAGE_ERROR"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// Error is a failure raised by an action to the chain runner.
type Error struct {
	Code   ErrorCode
	Action string
	Index  int
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] action %q (#%d): %v", e.Code, e.Action, e.Index, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error for the action currently selected in cache.
func NewError(code ErrorCode, cache *Cache, err error) *Error {
	e := &Error{Code: code, Err: err}
	if cache != nil {
		e.Index = cache.Index
		e.Action = cache.Current().Name()
	}
	return e
}

// CodeOf returns the code of err, or ErrCodeInternal if err carries none.
func CodeOf(err error) ErrorCode {
	var actionErr *Error
	if errors.As(err, &actionErr) {
		return actionErr.Code
	}
	return ErrCodeInternal
}
