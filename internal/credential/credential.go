// Package credential selects one credential from a pool of equivalent ones so
// that load and quota are spread across several accounts.
package credential

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrEmptyPool is returned when a pool has no credentials to choose from.
var ErrEmptyPool = errors.New("credential pool is empty")

// Selector picks one index out of a pool of n equivalent credentials.
type Selector interface {
	Pick(n int) (int, error)
}

// RandomSelector picks uniformly at random.
type RandomSelector struct{}

// Pick returns a uniformly random index in [0, n).
func (RandomSelector) Pick(n int) (int, error) {
	if n <= 0 {
		return 0, ErrEmptyPool
	}
	return rand.IntN(n), nil
}

// FixedSelector always picks Index. Useful to pin a single account.
type FixedSelector struct {
	Index int
}

// Pick returns Index when it is inside the pool.
func (s FixedSelector) Pick(n int) (int, error) {
	if n <= 0 {
		return 0, ErrEmptyPool
	}
	if s.Index < 0 || s.Index >= n {
		return 0, fmt.Errorf("fixed credential index %d outside pool of %d", s.Index, n)
	}
	return s.Index, nil
}

// Select returns one element of pool chosen by sel.
func Select[T any](sel Selector, pool []T) (T, error) {
	var zero T
	i, err := sel.Pick(len(pool))
	if err != nil {
		return zero, err
	}
	return pool[i], nil
}

// Search is a keyed web-search credential: an API key bound to a search engine id.
type Search struct {
	Key string `yaml:"key" validate:"required"`
	CX  string `yaml:"cx" validate:"required"`
}
