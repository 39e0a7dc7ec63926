// Package signal implements signals and slots: a [Signal] holds a set of
// callbacks ("slots"), each of which is called, synchronously, whenever the
// signal is emitted.
//
// # Bindings
//
// Slots are either weak or strong:
//
//   - [Connect] binds a function to an owner object, which is referenced
//     weakly. The slot is removed automatically when the owner is disposed,
//     either explicitly (see [Lifetime] and [Scope]) or by the garbage
//     collector. The owner is passed to the function on each emission.
//   - [Signal.ConnectFunc] binds a free function, which is retained, with
//     everything it references, until it is disconnected.
//
// Both return a [Connection], which may be used to disconnect that specific
// slot. Go function values are not comparable, so the handle, rather than
// the function, identifies the slot. [DisconnectOwner] removes every slot of
// an owner.
//
// # Usage
//
//	type Button struct {
//	    clicked signal.Signal[int]
//	}
//
//	// Clicked exposes connect/disconnect, but not emit.
//	func (b *Button) Clicked() signal.Hook[int] { return b.clicked.Hook() }
//
//	type Counter struct {
//	    signal.Scope // optional, enables explicit disposal
//	    total int
//	}
//
//	func (c *Counter) Add(n int) error {
//	    c.total += n
//	    return nil
//	}
//
//	button, counter := new(Button), new(Counter)
//	conn, err := signal.Connect(button.Clicked(), counter, (*Counter).Add)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = button.clicked.Emit(3) // counter.total == 3
//	conn.Disconnect()
//
// # Failures
//
// Every connected slot is called, even if earlier slots return an error or
// panic. [Signal.Emit] returns an [EmitError], which chains a [SlotError] per
// failure, in the order they occurred. Recovered panics are wrapped in a
// [PanicError].
//
// # Thread Safety
//
// The registry of slots is a lock-free linked list. Connecting, disconnecting
// and emitting may all happen concurrently, including from within a slot.
// An emission calls each slot that was connected when the emission reached
// it, and that remained connected until it was called. Removal first marks a
// slot as invalid, then unlinks it, so an emission never calls a slot after
// its removal completed, and never skips slots because of an unrelated
// removal.
//
// The order in which slots are called is unspecified.
//
// # Logging
//
// Diagnostics are logged via [github.com/joeycumines/logiface], see
// [WithLogger].
package signal
