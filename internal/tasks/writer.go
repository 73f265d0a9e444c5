package tasks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/store"
)

var errWriterClosed = errors.New("writer closed")

// job is either a snapshot to persist or a flush barrier.
type job struct {
	seq     uint64
	payload string
	barrier chan struct{}
}

// writer persists snapshots in the order they were enqueued. A single
// goroutine drains the queue, so write N+1 never starts before write N ends.
// Enqueue never blocks the caller.
type writer struct {
	store store.Store
	key   string
	log   zerolog.Logger

	mu     sync.Mutex
	queue  []job
	seq    uint64
	closed bool
	wake   chan struct{}
	done   chan struct{}

	failures atomic.Int64
}

func newWriter(s store.Store, key string, log zerolog.Logger) *writer {
	w := &writer{
		store: s,
		key:   key,
		log:   log,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

// enqueue schedules payload for writing and returns its sequence number.
func (w *writer) enqueue(payload string) (uint64, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return 0, errWriterClosed
	}
	w.seq++
	seq := w.seq
	w.queue = append(w.queue, job{seq: seq, payload: payload})
	w.mu.Unlock()

	w.signal()
	return seq, nil
}

// flush blocks until every job enqueued before the call has been attempted.
func (w *writer) flush(ctx context.Context) error {
	barrier := make(chan struct{})

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		select {
		case <-w.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	w.queue = append(w.queue, job{barrier: barrier})
	w.mu.Unlock()

	w.signal()
	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops accepting jobs and waits for the queue to drain.
func (w *writer) close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	w.signal()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *writer) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.done)

	for {
		w.mu.Lock()
		if len(w.queue) == 0 {
			closed := w.closed
			w.mu.Unlock()
			if closed {
				return
			}
			<-w.wake
			continue
		}
		j := w.queue[0]
		w.queue[0] = job{}
		w.queue = w.queue[1:]
		w.mu.Unlock()

		if j.barrier != nil {
			close(j.barrier)
			continue
		}
		w.write(j)
	}
}

func (w *writer) write(j job) {
	// Writes are detached from whichever call triggered them.
	if err := w.store.Set(context.Background(), w.key, j.payload); err != nil {
		w.failures.Add(1)
		w.log.Error().Err(err).
			Str("key", w.key).
			Uint64("seq", j.seq).
			Msg("failed to persist task list")
		return
	}
	w.log.Debug().Str("key", w.key).Uint64("seq", j.seq).Int("bytes", len(j.payload)).Msg("task list persisted")
}
