package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTask is returned by Decode when well-formed JSON holds a task that
// could never have been created: missing id, repeated id, or blank text.
var ErrInvalidTask = errors.New("invalid task")

// Task is the domain model for a task list entry.
// The JSON shape is the stored format; changing it breaks existing data.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Encode serializes the list as a compact JSON array. A nil list encodes as [].
func Encode(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(b), nil
}

// Decode parses a stored list. The literal null decodes as an empty list.
// Elements must be objects with a unique non-empty id and non-blank text.
func Decode(s string) ([]Task, error) {
	var raw []*Task
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	tasks := make([]Task, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, t := range raw {
		switch {
		case t == nil:
			return nil, fmt.Errorf("%w: element %d is null", ErrInvalidTask, i)
		case t.ID == "":
			return nil, fmt.Errorf("%w: element %d has no id", ErrInvalidTask, i)
		case strings.TrimSpace(t.Text) == "":
			return nil, fmt.Errorf("%w: element %d (id %q) has empty text", ErrInvalidTask, i, t.ID)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w: id %q appears more than once", ErrInvalidTask, t.ID)
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

// Stats counts completed and pending tasks.
func Stats(tasks []Task) (done, pending int) {
	for _, t := range tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
