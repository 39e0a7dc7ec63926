// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package signal

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"weak"

	"github.com/joeycumines/go-signal/internal/weakref"
)

// Signal is a set of slots, invoked synchronously by [Signal.Emit].
//
// The zero value is ready to use, and a Signal without any connections
// makes no heap allocations. A Signal must not be copied after first use.
//
// Thread Safety:
// All methods are safe for concurrent use, and may be called from within a
// slot, including Emit itself. No locks are held at any point, see the
// package documentation for the consistency guarantees.
//
// Typically, the emitting type keeps the Signal unexported, and exposes
// [Signal.Hook], so only it may emit.
type Signal[T any] struct {
	slots  registry[T]
	opts   *signalOptions
	nextID atomic.Uint64
}

// Hook exposes the connect and disconnect operations of a [Signal], without
// the ability to emit. The zero value is not usable.
type Hook[T any] struct {
	s *Signal[T]
}

// Connector is implemented by *[Signal] and [Hook].
type Connector[T any] interface {
	signal() *Signal[T]
}

// Connection is a handle to a single connected slot. Connection values are
// comparable. The zero value is not connected.
type Connection struct {
	target connectionTarget
	id     uint64
}

type connectionTarget interface {
	disconnect(id uint64) bool
	connected(id uint64) bool
}

var (
	_ Connector[any] = (*Signal[any])(nil)
	_ Connector[any] = Hook[any]{}
)

// New returns a new Signal configured using opts. Options are optional, a
// zero Signal uses the defaults.
func New[T any](opts ...Option) (*Signal[T], error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Signal[T]{opts: cfg}, nil
}

// Connect binds method to owner, such that each emission calls
// method(owner, value). The owner is referenced weakly: once it has been
// disposed (see [Lifetime]) or collected, the slot is removed.
//
// WARNING: method must not retain owner, e.g. use a method expression such
// as (*Type).Method, not a method value such as owner.Method, or a closure
// capturing owner. Retaining the owner prevents its collection, and its slots
// will therefore never be removed automatically.
//
// The same owner may be connected any number of times, each returning a
// distinct [Connection]. The owner does not keep the signal reachable, and a
// signal that is collected deregisters from its owners.
func Connect[O, T any](c Connector[T], owner *O, method func(owner *O, value T) error) (Connection, error) {
	s := connectorSignal(c)
	switch {
	case s == nil:
		return Connection{}, fmt.Errorf(`%w: nil signal`, ErrInvalidBinding)
	case owner == nil:
		return Connection{}, fmt.Errorf(`%w: nil owner`, ErrInvalidBinding)
	case method == nil:
		return Connection{}, fmt.Errorf(`%w: nil callback`, ErrInvalidBinding)
	}

	ref := weakref.Make(owner)
	n := newSlot(s.nextID.Add(1), ref, func(owner any, value T) error {
		return method(owner.(*O), value)
	})
	s.slots.append(n)

	// the owner must not keep s reachable, and a collected s must not leave
	// hooks registered on its owners
	ws := weak.Make(s)
	unwatchOwner := attachDispose(owner, func() {
		if s := ws.Value(); s != nil {
			s.dispose(ref)
		}
	})
	unwatchSignal := runtime.AddCleanup(s, detachSlot[T], n)
	detach := func() {
		unwatchSignal.Stop()
		unwatchOwner()
	}
	n.detach.Store(&detach)
	if !n.valid.Load() {
		// removed concurrently, possibly before the hook was stored
		if detach := n.swapDetach(); detach != nil {
			detach()
		}
	}

	s.logSlot(`slot connected`, n.id, true)

	runtime.KeepAlive(owner)

	return Connection{target: s, id: n.id}, nil
}

// DisconnectOwner removes every slot connected via [Connect] for owner,
// returning the number removed.
func DisconnectOwner[O, T any](c Connector[T], owner *O) int {
	s := connectorSignal(c)
	if s == nil || owner == nil {
		return 0
	}
	ref := weakref.Make(owner)
	count := s.slots.remove(
		func(n *slot[T]) bool { return n.owner == ref },
		detachSlot[T],
	)
	if count != 0 {
		s.logRemoved(`owner disconnected`, count)
	}
	runtime.KeepAlive(owner)
	return count
}

// ConnectFunc connects fn as a strong (free) slot, which is retained until
// it is disconnected, along with anything fn references.
func (s *Signal[T]) ConnectFunc(fn func(value T) error) (Connection, error) {
	if s == nil {
		return Connection{}, fmt.Errorf(`%w: nil signal`, ErrInvalidBinding)
	}
	if fn == nil {
		return Connection{}, fmt.Errorf(`%w: nil callback`, ErrInvalidBinding)
	}
	n := newSlot(s.nextID.Add(1), weakref.Ref{}, func(_ any, value T) error {
		return fn(value)
	})
	s.slots.append(n)
	s.logSlot(`slot connected`, n.id, false)
	return Connection{target: s, id: n.id}, nil
}

// Disconnect removes the slot identified by c, returning false if c does not
// belong to s, or was not connected.
func (s *Signal[T]) Disconnect(c Connection) bool {
	if s == nil || c.target != connectionTarget(s) {
		return false
	}
	return s.disconnect(c.id)
}

// DisconnectAll removes every slot, returning the number removed.
func (s *Signal[T]) DisconnectAll() int {
	if s == nil {
		return 0
	}
	count := s.slots.remove(func(*slot[T]) bool { return true }, detachSlot[T])
	if count != 0 {
		s.logRemoved(`all disconnected`, count)
	}
	return count
}

// Len returns the number of connected slots. Slots of owners that have been
// collected, but not yet removed, may be included.
func (s *Signal[T]) Len() int {
	if s == nil {
		return 0
	}
	return s.slots.len()
}

// Hook returns a [Hook] for s.
func (s *Signal[T]) Hook() Hook[T] {
	return Hook[T]{s: s}
}

func (s *Signal[T]) signal() *Signal[T] {
	return s
}

func (s *Signal[T]) disconnect(id uint64) bool {
	if s.slots.remove(func(n *slot[T]) bool { return n.id == id }, detachSlot[T]) == 0 {
		return false
	}
	s.logSlot(`slot disconnected`, id, false)
	return true
}

func (s *Signal[T]) connected(id uint64) bool {
	for n := s.slots.head.Load(); n != nil; n = n.next.Load() {
		if !n.marker && n.id == id {
			return n.valid.Load()
		}
	}
	return false
}

// dispose is the disposal hook. Deregistering the hook that fired is a no-op,
// but the signal's own cleanup must still be stopped.
func (s *Signal[T]) dispose(owner weakref.Ref) {
	count := s.slots.remove(
		func(n *slot[T]) bool { return n.owner == owner },
		detachSlot[T],
	)
	if count != 0 {
		s.logRemoved(`owner disposed`, count)
	}
}

// detachSlot deregisters the disposal hooks of a removed slot, or of a slot
// whose signal was collected.
func detachSlot[T any](n *slot[T]) {
	if detach := n.swapDetach(); detach != nil {
		detach()
	}
}

// ConnectFunc is equivalent to [Signal.ConnectFunc].
func (x Hook[T]) ConnectFunc(fn func(value T) error) (Connection, error) {
	return x.s.ConnectFunc(fn)
}

// Disconnect is equivalent to [Signal.Disconnect].
func (x Hook[T]) Disconnect(c Connection) bool {
	return x.s.Disconnect(c)
}

// Len is equivalent to [Signal.Len].
func (x Hook[T]) Len() int {
	return x.s.Len()
}

func (x Hook[T]) signal() *Signal[T] {
	return x.s
}

func connectorSignal[T any](c Connector[T]) *Signal[T] {
	if c == nil {
		return nil
	}
	return c.signal()
}

// ID returns the identifier of the slot, which is unique per [Signal], and
// is reported by [SlotError.ID]. It is zero for the zero Connection.
func (c Connection) ID() uint64 {
	return c.id
}

// Disconnect removes the slot, returning false if it was not connected.
func (c Connection) Disconnect() bool {
	if c.target == nil {
		return false
	}
	return c.target.disconnect(c.id)
}

// Connected reports whether the slot is still connected.
func (c Connection) Connected() bool {
	if c.target == nil {
		return false
	}
	return c.target.connected(c.id)
}
