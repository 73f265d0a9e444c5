// Package store defines the persistence contract used by the task controller:
// an asynchronous, string-keyed, string-valued durable store.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidKey is returned for keys a backend cannot address.
var ErrInvalidKey = errors.New("invalid key")

// Store is a string-keyed key-value store.
//
// Get reports ok=false for a key that was never written. Implementations must be
// safe for use from multiple goroutines.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateKey checks that key is a simple name usable by every backend
// (it ends up as a file name for the JSON store).
func ValidateKey(key string) error {
	if len(key) > 128 || !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
