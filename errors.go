// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package signal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBinding is returned (wrapped) when connecting a nil callback, a
// nil owner, or to a nil signal.
var ErrInvalidBinding = errors.New(`signal: invalid binding`)

// SlotError is a failure raised by a single slot, during [Signal.Emit].
//
// Failures from one emission form a chain, in invocation order, via Next.
// Unwrap exposes both Err and Next, in that order, meaning [errors.Is] and
// [errors.As] will visit each failure in the order they were raised.
type SlotError struct {
	// Err is the error returned by the slot, or a [PanicError].
	Err error

	// Next is the failure of a later slot, in the same emission, if any.
	Next *SlotError

	// ID identifies the slot's [Connection], see [Connection.ID].
	ID uint64
}

// EmitError aggregates all slot failures from one call to [Signal.Emit].
type EmitError struct {
	// Cause is the first failure, the remainder are chained via
	// [SlotError.Next].
	Cause *SlotError

	// Count is the length of the chain.
	Count int
}

// PanicError wraps a value recovered from a panicking slot.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *SlotError) Error() string {
	return fmt.Sprintf(`signal: slot %d: %v`, e.ID, e.Err)
}

// Unwrap returns Err, followed by Next (if non-nil).
func (e *SlotError) Unwrap() []error {
	if e.Next == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Next}
}

// Error implements the error interface.
func (e *EmitError) Error() string {
	var b strings.Builder
	if e.Count == 1 {
		b.WriteString(`signal: 1 slot failed`)
	} else {
		_, _ = fmt.Fprintf(&b, `signal: %d slots failed`, e.Count)
	}
	for c := e.Cause; c != nil; c = c.Next {
		b.WriteString(`; `)
		b.WriteString(c.Error())
	}
	return b.String()
}

// Unwrap returns the first [SlotError], which chains the rest.
func (e *EmitError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// Errors returns the underlying slot failures (not the SlotError wrappers),
// in the order they were raised.
func (e *EmitError) Errors() []error {
	errs := make([]error, 0, e.Count)
	for c := e.Cause; c != nil; c = c.Next {
		errs = append(errs, c.Err)
	}
	return errs
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf(`signal: slot panicked: %v`, e.Value)
}

// Unwrap returns the panic value, if it is an error, otherwise nil.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// failures accumulates slot failures in invocation order.
type failures struct {
	head, tail *SlotError
	count      int
}

func (x *failures) add(id uint64, err error) {
	e := &SlotError{ID: id, Err: err}
	if x.tail == nil {
		x.head = e
	} else {
		x.tail.Next = e
	}
	x.tail = e
	x.count++
}

func (x *failures) err() error {
	if x.head == nil {
		return nil
	}
	return &EmitError{Cause: x.head, Count: x.count}
}
