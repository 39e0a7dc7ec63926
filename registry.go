// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package signal

import (
	"sync/atomic"
)

// registry is a lock-free, singly linked list of slots.
//
// Removal is two-phase: a slot is first invalidated and marked (see
// slot.invalidate), then unlinked by CAS on its predecessor's link. Readers
// (emission) never help, and never block; they simply follow links, which
// always lead to every slot that was linked when the reader passed by.
//
// The zero value is an empty registry, which has no heap allocations.
type registry[T any] struct {
	head atomic.Pointer[slot[T]]

	// tail is a hint, it is the last node at some point in time, but it may
	// lag behind, or have since been deleted
	tail atomic.Pointer[slot[T]]
}

// empty is the emission fast path.
func (r *registry[T]) empty() bool {
	return r.head.Load() == nil
}

// link returns the link owned by prev, which is the head if prev is nil.
func (r *registry[T]) link(prev *slot[T]) *atomic.Pointer[slot[T]] {
	if prev == nil {
		return &r.head
	}
	return &prev.next
}

// append links n as the last node.
func (r *registry[T]) append(n *slot[T]) {
	for {
		t := r.tail.Load()
		start := t
		if start != nil {
			if _, deleted := start.successor(); deleted {
				start = nil
			}
		}

		last, ok := r.trim(start)
		if !ok {
			continue
		}

		// if last is nil this registers the first node, by way of the head
		if r.link(last).CompareAndSwap(nil, n) {
			// only advance from the exact value we started from, or the node
			// we linked to (the walk may have moved the hint back to it), a
			// failure means a concurrent append already moved it forward
			if !r.tail.CompareAndSwap(t, n) && last != t {
				r.tail.CompareAndSwap(last, n)
			}
			return
		}
	}
}

// trim walks the list starting after prev (nil meaning the head), unlinking
// every marked node it encounters, and returns the last node. It returns
// false if the walk was invalidated by a concurrent removal of the node that
// owned the current link, in which case the caller must retry.
func (r *registry[T]) trim(prev *slot[T]) (*slot[T], bool) {
	link := r.link(prev)
	for {
		cur := link.Load()
		if cur == nil {
			return prev, true
		}
		if cur.marker {
			// prev was deleted underneath us
			return nil, false
		}

		next, deleted := cur.successor()
		if !deleted {
			prev, link = cur, &cur.next
			continue
		}

		if !link.CompareAndSwap(cur, next) {
			return nil, false
		}

		r.retreatTail(cur, prev)
	}
}

// retreatTail moves the tail hint off cur, which was just unlinked, to prev
// (nil meaning the empty state). If prev was itself deleted in the meantime,
// the hint is cleared instead, so it never retains an unreachable node.
func (r *registry[T]) retreatTail(cur, prev *slot[T]) {
	if !r.tail.CompareAndSwap(cur, prev) || prev == nil {
		return
	}
	if _, deleted := prev.successor(); deleted {
		r.tail.CompareAndSwap(prev, nil)
	}
}

// sweep unlinks all marked nodes.
func (r *registry[T]) sweep() {
	for {
		if _, ok := r.trim(nil); ok {
			return
		}
	}
}

// remove invalidates each valid slot for which match returns true, calling
// removed (if non-nil) for each slot it invalidated, before unlinking all of
// them. It returns the number of slots removed by this call.
func (r *registry[T]) remove(match func(n *slot[T]) bool, removed func(n *slot[T])) int {
	var count int
	for n := r.head.Load(); n != nil; n = n.next.Load() {
		if n.marker || !n.valid.Load() || !match(n) {
			continue
		}
		if !n.invalidate() {
			// lost the race to another remover
			continue
		}
		count++
		if removed != nil {
			removed(n)
		}
	}
	if count != 0 {
		r.sweep()
	}
	return count
}

// len counts the valid slots.
func (r *registry[T]) len() (count int) {
	for n := r.head.Load(); n != nil; n = n.next.Load() {
		if !n.marker && n.valid.Load() {
			count++
		}
	}
	return
}
