// Package memstore provides an in-process store.Store.
//
// It backs the "memory" storage backend and doubles as a test fake: calls can be
// delayed or made to fail, and every successful write is recorded in order.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/Makepad-fr/tada/internal/store"
)

// Op names the store call a hook is consulted for.
type Op string

const (
	OpGet Op = "get"
	OpSet Op = "set"
)

// Write is one recorded Set call.
type Write struct {
	Key   string
	Value string
}

// Store is a thread-safe in-memory store.Store.
type Store struct {
	mu     sync.RWMutex
	data   map[string]string
	writes []Write

	delay func(op Op, key string, n int) time.Duration
	fail  func(op Op, key string, n int) error
	calls map[Op]int
}

var _ store.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithDelay makes the n-th call (0-based, per op) sleep for the returned duration
// before taking effect.
func WithDelay(fn func(op Op, key string, n int) time.Duration) Option {
	return func(s *Store) { s.delay = fn }
}

// WithFailure makes the n-th call (0-based, per op) fail with the returned error
// when it is non-nil.
func WithFailure(fn func(op Op, key string, n int) error) Option {
	return func(s *Store) { s.fail = fn }
}

// WithData seeds the store.
func WithData(data map[string]string) Option {
	return func(s *Store) {
		for k, v := range data {
			s.data[k] = v
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		data:  make(map[string]string),
		calls: make(map[Op]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := s.before(ctx, OpGet, key); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.before(ctx, OpSet, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.writes = append(s.writes, Write{Key: key, Value: value})
	return nil
}

// Writes returns every successful Set in the order it was applied.
func (s *Store) Writes() []Write {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Write, len(s.writes))
	copy(out, s.writes)
	return out
}

// Value returns the current value of key without counting as a call.
func (s *Store) Value(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *Store) before(ctx context.Context, op Op, key string) error {
	s.mu.Lock()
	n := s.calls[op]
	s.calls[op] = n + 1
	delay, fail := s.delay, s.fail
	s.mu.Unlock()

	if delay != nil {
		if d := delay(op, key, n); d > 0 {
			t := time.NewTimer(d)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
	}
	if fail != nil {
		if err := fail(op, key, n); err != nil {
			return err
		}
	}
	return ctx.Err()
}
