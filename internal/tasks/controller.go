// Package tasks owns the in-memory task list and keeps it synchronized with a
// store.Store: hydrated once at startup, written after every mutation.
package tasks

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// DefaultKey is the store key holding the serialized task list.
const DefaultKey = "tasks"

// Insert decides where Add places new tasks.
type Insert string

const (
	InsertTop    Insert = "top"
	InsertBottom Insert = "bottom"
)

// CorruptPolicy decides what Hydrate does with undecodable stored data.
type CorruptPolicy string

const (
	// CorruptEmpty starts from an empty list. The next write overwrites the
	// stored data.
	CorruptEmpty CorruptPolicy = "empty"
	// CorruptError fails hydration with ErrCorruptData.
	CorruptError CorruptPolicy = "error"
)

// maxIDAttempts bounds re-draws when a generated id is already taken.
const maxIDAttempts = 16

// Controller is the single owner of the task list. All mutation goes through
// its methods; readers get copies.
type Controller struct {
	key       string
	log       zerolog.Logger
	insert    Insert
	onCorrupt CorruptPolicy
	newID     func() string
	w         *writer

	mu       sync.RWMutex
	tasks    []model.Task
	hydrated bool

	// transient UI state, never persisted
	input   string
	editID  string
	editBuf string
	editing bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithKey overrides the store key.
func WithKey(key string) Option {
	return func(c *Controller) { c.key = key }
}

// WithLogger sets the logger used for hydration and persistence events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithInsert sets where new tasks go.
func WithInsert(i Insert) Option {
	return func(c *Controller) { c.insert = i }
}

// WithCorruptPolicy sets the hydration policy for undecodable data.
func WithCorruptPolicy(p CorruptPolicy) Option {
	return func(c *Controller) { c.onCorrupt = p }
}

// WithIDFunc replaces the id generator.
func WithIDFunc(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

// New creates an empty, un-hydrated controller writing to s.
func New(s store.Store, opts ...Option) *Controller {
	c := &Controller{
		key:       DefaultKey,
		log:       zerolog.Nop(),
		insert:    InsertTop,
		onCorrupt: CorruptEmpty,
		newID:     newTaskID,
		tasks:     []model.Task{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.w = newWriter(s, c.key, c.log)
	return c
}

// newTaskID returns a UUIDv7, which is time-ordered and monotonic within
// the process.
func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Hydrate loads the persisted list once. A missing key, an empty value, or a
// read failure yields an empty list. Undecodable data is handled per the
// corrupt policy.
func (c *Controller) Hydrate(ctx context.Context) error {
	c.mu.RLock()
	done := c.hydrated
	c.mu.RUnlock()
	if done {
		return ErrAlreadyHydrated
	}

	loaded := []model.Task{}

	raw, ok, err := c.w.store.Get(ctx, c.key)
	switch {
	case err != nil:
		c.log.Warn().Err(err).Str("key", c.key).Msg("failed to read task list, starting empty")
	case !ok || raw == "":
		c.log.Debug().Str("key", c.key).Msg("no stored task list")
	default:
		decoded, err := model.Decode(raw)
		if err != nil {
			if c.onCorrupt == CorruptError {
				c.log.Error().Err(err).Str("key", c.key).Msg("stored task list is corrupt")
				return fmt.Errorf("%w: %w", ErrCorruptData, err)
			}
			c.log.Error().Err(err).Str("key", c.key).Msg("stored task list is corrupt, starting empty")
		} else {
			loaded = decoded
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hydrated {
		return ErrAlreadyHydrated
	}
	c.tasks = loaded
	c.hydrated = true
	c.log.Info().Int("count", len(loaded)).Msg("task list loaded")
	return nil
}

// Hydrated reports whether Hydrate has completed.
func (c *Controller) Hydrated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hydrated
}

// Add creates a task from rawText.
func (c *Controller) Add(rawText string) (model.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addLocked(rawText)
}

func (c *Controller) addLocked(rawText string) (model.Task, error) {
	if !c.hydrated {
		return model.Task{}, ErrNotHydrated
	}
	text := strings.TrimSpace(rawText)
	if text == "" {
		return model.Task{}, ErrEmptyText
	}
	if slices.ContainsFunc(c.tasks, func(t model.Task) bool { return t.Text == text }) {
		return model.Task{}, ErrDuplicateText
	}

	id, err := c.uniqueIDLocked()
	if err != nil {
		return model.Task{}, err
	}
	task := model.Task{ID: id, Text: text}

	next := make([]model.Task, 0, len(c.tasks)+1)
	if c.insert == InsertBottom {
		next = append(append(next, c.tasks...), task)
	} else {
		next = append(append(next, task), c.tasks...)
	}
	c.tasks = next
	c.persistLocked("add")
	return task, nil
}

func (c *Controller) uniqueIDLocked() (string, error) {
	for range maxIDAttempts {
		id := c.newID()
		if id != "" && c.indexLocked(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate task id: %d attempts collided", maxIDAttempts)
}

// Delete removes the task with id. Unknown ids are ignored.
func (c *Controller) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hydrated {
		return ErrNotHydrated
	}
	i := c.indexLocked(id)
	if i < 0 {
		return nil
	}
	c.tasks = slices.Delete(slices.Clone(c.tasks), i, i+1)
	c.persistLocked("delete")
	return nil
}

// ToggleCompletion flips the completed flag of id. Unknown ids are ignored.
func (c *Controller) ToggleCompletion(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hydrated {
		return ErrNotHydrated
	}
	i := c.indexLocked(id)
	if i < 0 {
		return nil
	}
	next := slices.Clone(c.tasks)
	next[i].Completed = !next[i].Completed
	c.tasks = next
	c.persistLocked("toggle")
	return nil
}

// BeginEdit puts id under edit with its current text in the edit buffer.
func (c *Controller) BeginEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hydrated {
		return ErrNotHydrated
	}
	i := c.indexLocked(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	c.editing = true
	c.editID = id
	c.editBuf = c.tasks[i].Text
	return nil
}

// SetEditBuffer replaces the edit buffer. It has no effect when not editing.
func (c *Controller) SetEditBuffer(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing {
		c.editBuf = text
	}
}

// EditBuffer returns the current edit buffer.
func (c *Controller) EditBuffer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.editBuf
}

// Editing returns the id under edit.
func (c *Controller) Editing() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.editID, c.editing
}

// CommitEdit applies the edit buffer to the task under edit. An empty buffer
// is rejected and leaves both the task and the edit state as they were.
// Duplicate text is not checked here.
func (c *Controller) CommitEdit() (model.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hydrated {
		return model.Task{}, ErrNotHydrated
	}
	if !c.editing {
		return model.Task{}, ErrNotEditing
	}
	text := strings.TrimSpace(c.editBuf)
	if text == "" {
		return model.Task{}, ErrEmptyText
	}

	i := c.indexLocked(c.editID)
	if i < 0 {
		c.clearEditLocked()
		return model.Task{}, ErrTaskNotFound
	}

	next := slices.Clone(c.tasks)
	next[i].Text = text
	c.tasks = next
	c.clearEditLocked()
	c.persistLocked("edit")
	return next[i], nil
}

// CancelEdit abandons the edit in progress.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearEditLocked()
}

func (c *Controller) clearEditLocked() {
	c.editing = false
	c.editID = ""
	c.editBuf = ""
}

// SetInput stores the pending new-task text.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

// Input returns the pending new-task text.
func (c *Controller) Input() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.input
}

// Submit adds the pending input. The input is cleared on success and kept on
// failure so it can be corrected.
func (c *Controller) Submit() (model.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	task, err := c.addLocked(c.input)
	if err != nil {
		return model.Task{}, err
	}
	c.input = ""
	return task, nil
}

// Tasks returns a copy of the list in display order.
func (c *Controller) Tasks() []model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.tasks)
}

// Get returns the task with id.
func (c *Controller) Get(id string) (model.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexLocked(id)
	if i < 0 {
		return model.Task{}, false
	}
	return c.tasks[i], true
}

// Len returns the number of tasks.
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}

// Stats counts completed and pending tasks.
func (c *Controller) Stats() (done, pending int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return model.Stats(c.tasks)
}

// WriteFailures returns how many persistence writes have failed so far.
func (c *Controller) WriteFailures() int64 {
	return c.w.failures.Load()
}

// Flush waits until every write issued so far has been attempted.
func (c *Controller) Flush(ctx context.Context) error {
	return c.w.flush(ctx)
}

// Close drains pending writes and stops the writer. Mutations after Close
// still update memory but are no longer persisted.
func (c *Controller) Close(ctx context.Context) error {
	return c.w.close(ctx)
}

func (c *Controller) indexLocked(id string) int {
	return slices.IndexFunc(c.tasks, func(t model.Task) bool { return t.ID == id })
}

// persistLocked snapshots the current list and hands it to the writer. It is
// called with mu held, so snapshots enter the queue in mutation order.
func (c *Controller) persistLocked(op string) {
	payload, err := model.Encode(c.tasks)
	if err != nil {
		c.log.Error().Err(err).Str("op", op).Msg("failed to encode task list")
		return
	}
	seq, err := c.w.enqueue(payload)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Msg("task list not persisted")
		return
	}
	c.log.Debug().Str("op", op).Uint64("seq", seq).Int("count", len(c.tasks)).Msg("task list queued for write")
}
