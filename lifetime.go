// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package signal

import (
	"runtime"
	"sync"
)

// Lifetime may be implemented by owners (see [Connect]) which are disposed
// explicitly, rather than by the garbage collector. Owners that do not
// implement Lifetime have their slots removed once they become unreachable.
//
// OnDispose must arrange for fn to be called, at most once, when the
// receiver is disposed. The returned cancel func deregisters fn, and must be
// safe to call at any time, including after (or during) disposal.
//
// See also [Scope], which may be embedded to implement Lifetime.
type Lifetime interface {
	OnDispose(fn func()) (cancel func())
}

// Scope is an embeddable implementation of [Lifetime]. The zero value is
// ready to use.
type Scope struct {
	hooks    map[uint64]func()
	nextHook uint64
	mu       sync.Mutex
	disposed bool
}

var _ Lifetime = (*Scope)(nil)

// OnDispose implements [Lifetime]. If the scope has already been disposed,
// fn is called immediately.
func (x *Scope) OnDispose(fn func()) (cancel func()) {
	x.mu.Lock()
	if x.disposed {
		x.mu.Unlock()
		fn()
		return func() {}
	}
	if x.hooks == nil {
		x.hooks = make(map[uint64]func())
	}
	x.nextHook++
	id := x.nextHook
	x.hooks[id] = fn
	x.mu.Unlock()
	return func() {
		x.mu.Lock()
		delete(x.hooks, id)
		x.mu.Unlock()
	}
}

// Dispose calls every registered hook, once. Subsequent calls are no-ops.
// Hooks are called without holding any lock, and may therefore use the
// scope, or disconnect other slots.
func (x *Scope) Dispose() {
	x.mu.Lock()
	if x.disposed {
		x.mu.Unlock()
		return
	}
	x.disposed = true
	hooks := x.hooks
	x.hooks = nil
	x.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// Disposed reports whether Dispose has been called.
func (x *Scope) Disposed() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.disposed
}

// attachDispose registers onDispose to be called once owner is disposed,
// returning the deregistration func.
//
// WARNING: onDispose must not reference owner, or it will never be collected.
func attachDispose[O any](owner *O, onDispose func()) (detach func()) {
	if l, ok := any(owner).(Lifetime); ok {
		return l.OnDispose(onDispose)
	}
	c := runtime.AddCleanup(owner, func(fn func()) { fn() }, onDispose)
	return c.Stop
}
