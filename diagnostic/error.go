package diagnostic

import (
	"errors"
	"fmt"
)

// StateError is an error carrying the SQLSTATE it is reported with.
type StateError struct {
	State   SqlState
	Message string
	Err     error
}

// NewError creates a StateError with a formatted message.
func NewError(state SqlState, format string, v ...interface{}) *StateError {
	return &StateError{State: state, Message: fmt.Sprintf(format, v...)}
}

// Wrap creates a StateError around a cause, the cause's text is appended.
func Wrap(state SqlState, err error, format string, v ...interface{}) *StateError {
	return &StateError{State: state, Message: fmt.Sprintf(format, v...), Err: err}
}

func (e *StateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.State, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.State, e.Message)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// StateOf returns the SQLSTATE of err, HY000 for errors of other types.
func StateOf(err error) SqlState {
	var e *StateError
	if errors.As(err, &e) {
		return e.State
	}
	return SHY000GeneralError
}
