package tasks

import "errors"

var (
	// ErrEmptyText is returned when text is empty after trimming.
	ErrEmptyText = &ValidationError{msg: "task text cannot be empty"}
	// ErrDuplicateText is returned when a task with the same trimmed text exists.
	ErrDuplicateText = &ValidationError{msg: "a task with this text already exists"}

	// ErrTaskNotFound is returned when an id does not match any task.
	ErrTaskNotFound = errors.New("task not found")
	// ErrNotEditing is returned by CommitEdit when no edit is in progress.
	ErrNotEditing = errors.New("no task is being edited")
	// ErrNotHydrated is returned by mutations issued before hydration completed.
	ErrNotHydrated = errors.New("task list is not loaded yet")
	// ErrAlreadyHydrated is returned by a second Hydrate call.
	ErrAlreadyHydrated = errors.New("task list already loaded")
	// ErrCorruptData is returned by Hydrate under CorruptError when stored data
	// cannot be decoded.
	ErrCorruptData = errors.New("stored task list is corrupt")
)

// ValidationError is a rejected user input. It never changes state and the
// caller is expected to show it and let the user retry.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
