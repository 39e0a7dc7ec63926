// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package signal

import (
	"runtime"
	"runtime/debug"
)

// Emit calls every connected slot with value, synchronously, on the calling
// goroutine.
//
// A slot that returns an error, or panics, does not prevent the remaining
// slots from being called. If any slot failed, Emit returns an [EmitError],
// chaining each failure in the order they occurred.
//
// The order in which slots are called is unspecified, and may change after
// any disconnect. Slots connected or disconnected during an emission (e.g. by
// one of the slots) may or may not be called by that emission.
//
// Emit on a Signal without any slots does not allocate.
func (s *Signal[T]) Emit(value T) error {
	if s == nil || s.slots.empty() {
		return nil
	}

	var (
		errs  failures
		stale int
	)

	for n := s.slots.head.Load(); n != nil; n = n.next.Load() {
		if n.marker {
			continue
		}

		// the owner must be loaded (and held) before checking validity, the
		// value that is checked is the value that is passed to the slot
		var owner any
		if !n.owner.IsZero() {
			owner = n.owner.Value()
			if owner == nil {
				// collected, but the cleanup hasn't run (yet)
				if n.invalidate() {
					detachSlot(n)
					stale++
				}
				continue
			}
		}

		if !n.valid.Load() {
			continue
		}

		if err := s.invoke(n, owner, value); err != nil {
			errs.add(n.id, err)
			s.logFailure(n.id, err)
		}

		runtime.KeepAlive(owner)
	}

	if stale != 0 {
		s.slots.sweep()
		s.logRemoved(`collected owners removed`, stale)
	}

	return errs.err()
}

func (s *Signal[T]) invoke(n *slot[T], owner any, value T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return n.call(owner, value)
}
