// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package signal

import (
	"sync/atomic"

	"github.com/joeycumines/go-signal/internal/weakref"
)

// slot is a single registered binding, and also the node type of the
// registry's linked list.
//
// Deleted slots are "marked" by replacing their next link with a marker node
// (marker=true) that points at the successor. A marked slot's next link never
// changes again, which prevents both appending to it and unlinking its
// successor through it.
type slot[T any] struct { //nolint:govet // betteralign:ignore
	// next is the link to the following node, possibly a marker
	next atomic.Pointer[slot[T]]

	// owner is the zero Ref for strong (free) bindings
	owner weakref.Ref

	// call invokes the binding, owner is the decoded owner, or nil
	call func(owner any, value T) error

	// detach deregisters the disposal hooks, see swapDetach
	detach atomic.Pointer[func()]

	id uint64

	// valid transitions true -> false exactly once
	valid atomic.Bool

	marker bool
}

func newSlot[T any](id uint64, owner weakref.Ref, call func(owner any, value T) error) *slot[T] {
	n := &slot[T]{
		owner: owner,
		call:  call,
		id:    id,
	}
	n.valid.Store(true)
	return n
}

// successor returns the node following n, skipping n's marker, and whether
// n has been marked as deleted.
func (n *slot[T]) successor() (next *slot[T], deleted bool) {
	next = n.next.Load()
	if next != nil && next.marker {
		return next.next.Load(), true
	}
	return next, false
}

// invalidate performs the logical deletion of n, returning true only for the
// caller that won the valid -> invalid transition. The winner also marks n.
func (n *slot[T]) invalidate() bool {
	if !n.valid.CompareAndSwap(true, false) {
		return false
	}
	m := &slot[T]{marker: true}
	for {
		// may race with an append to n, or the unlinking of n's successor
		next := n.next.Load()
		m.next.Store(next)
		if n.next.CompareAndSwap(next, m) {
			return true
		}
	}
}

// swapDetach takes ownership of the disposal deregistration func, if any.
// It returns nil if there isn't one, or it was already taken.
func (n *slot[T]) swapDetach() func() {
	if p := n.detach.Swap(nil); p != nil {
		return *p
	}
	return nil
}
