// Package collection manages ordered, variable-length lists of homogeneous
// entities. Every entity gets an opaque ULID at creation so that derived
// state (input widgets, selections) can be keyed by identity instead of by
// list position.
package collection

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	// ErrIndexOutOfRange is returned when a positional operation targets a
	// position that does not exist in the collection.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotFound is returned when no entity carries the requested ID.
	ErrNotFound = errors.New("entity not found")
)

// Entry is a single entity together with its stable identifier. Value is
// mutable in place.
type Entry[T any] struct {
	ID    string
	Value *T
}

// Collection is an ordered list of entities built from a template.
type Collection[T any] struct {
	template func() T
	entries  []*Entry[T]
}

// New creates an empty collection whose new entities are produced by template.
func New[T any](template func() T) *Collection[T] {
	if template == nil {
		template = func() T {
			var zero T
			return zero
		}
	}
	return &Collection[T]{template: template}
}

// Add appends a new entity built from the template and returns it.
func (c *Collection[T]) Add() *Entry[T] {
	value := c.template()
	entry := &Entry[T]{ID: newID(), Value: &value}
	c.entries = append(c.entries, entry)
	return entry
}

// Append adds an existing value to the end of the collection.
func (c *Collection[T]) Append(value T) *Entry[T] {
	entry := &Entry[T]{ID: newID(), Value: &value}
	c.entries = append(c.entries, entry)
	return entry
}

// Remove deletes the entity at index. Entities after index shift down by one.
// The collection is left untouched when index is out of range.
func (c *Collection[T]) Remove(index int) error {
	if index < 0 || index >= len(c.entries) {
		return fmt.Errorf("remove at %d (len %d): %w", index, len(c.entries), ErrIndexOutOfRange)
	}

	copy(c.entries[index:], c.entries[index+1:])
	c.entries[len(c.entries)-1] = nil
	c.entries = c.entries[:len(c.entries)-1]
	return nil
}

// RemoveByID deletes the entity carrying id.
func (c *Collection[T]) RemoveByID(id string) error {
	index := c.IndexOf(id)
	if index < 0 {
		return fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}
	return c.Remove(index)
}

// IndexOf returns the current position of id, or -1.
func (c *Collection[T]) IndexOf(id string) int {
	for i, entry := range c.entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the entity carrying id.
func (c *Collection[T]) Get(id string) (*Entry[T], bool) {
	index := c.IndexOf(id)
	if index < 0 {
		return nil, false
	}
	return c.entries[index], true
}

func (c *Collection[T]) Len() int {
	return len(c.entries)
}

// Entries returns the entries in current order. The slice is a copy, the
// entries themselves are shared.
func (c *Collection[T]) Entries() []*Entry[T] {
	out := make([]*Entry[T], len(c.entries))
	copy(out, c.entries)
	return out
}

// Values returns copies of the entity values in current order.
func (c *Collection[T]) Values() []T {
	out := make([]T, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, *entry.Value)
	}
	return out
}

var (
	entropyMu sync.Mutex
	entropy   io.Reader = ulid.Monotonic(rand.Reader, 0)
)

func newID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
