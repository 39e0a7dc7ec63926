// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package weakref encodes owner pointers as comparable, type-erased weak
// references, which do not keep the owner reachable.
package weakref

import (
	"weak"
)

// Ref is a weak reference to an owner of an arbitrary type.
//
// The zero value is the "no owner" sentinel, and is never produced by [Make]
// for a non-nil pointer. Two Ref values compare equal if and only if they
// were made from the same pointer, and that remains true after the owner has
// been collected.
type Ref struct {
	p pointer
}

type pointer interface {
	value() any
}

// typed must remain comparable, see Ref.
type typed[O any] struct {
	wp weak.Pointer[O]
}

// Make encodes owner. A nil owner yields the zero Ref.
func Make[O any](owner *O) Ref {
	if owner == nil {
		return Ref{}
	}
	return Ref{p: typed[O]{wp: weak.Make(owner)}}
}

// Load decodes r, returning nil if r is the zero Ref, was made from a
// different type, or if the owner has been collected.
func Load[O any](r Ref) *O {
	if t, ok := r.p.(typed[O]); ok {
		return t.wp.Value()
	}
	return nil
}

// IsZero reports whether r is the "no owner" sentinel.
func (r Ref) IsZero() bool {
	return r.p == nil
}

// Value decodes r without knowledge of the owner's type. The result is
// either nil, or the original *O.
//
// The caller must hold on to the result for as long as it needs the owner
// to stay alive, the Ref itself won't.
func (r Ref) Value() any {
	if r.p == nil {
		return nil
	}
	return r.p.value()
}

func (t typed[O]) value() any {
	if v := t.wp.Value(); v != nil {
		return v
	}
	// avoid returning a typed nil
	return nil
}
