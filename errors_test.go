package signal

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailures(t *testing.T) {
	var x failures
	assert.NoError(t, x.err())

	x.add(1, io.EOF)
	x.add(3, io.ErrUnexpectedEOF)
	x.add(2, io.ErrClosedPipe)

	err := x.err()
	var emitErr *EmitError
	if !assert.ErrorAs(t, err, &emitErr) {
		return
	}
	assert.Equal(t, 3, emitErr.Count)
	assert.Equal(t, []error{io.EOF, io.ErrUnexpectedEOF, io.ErrClosedPipe}, emitErr.Errors())

	var ids []uint64
	for c := emitErr.Cause; c != nil; c = c.Next {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []uint64{1, 3, 2}, ids)

	assert.Equal(t, `signal: 3 slots failed; signal: slot 1: EOF; signal: slot 3: unexpected EOF; signal: slot 2: io: read/write on closed pipe`, err.Error())
	assert.ErrorIs(t, err, io.EOF)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.NotErrorIs(t, err, io.ErrShortWrite)
}

func TestSlotError_Unwrap(t *testing.T) {
	last := &SlotError{ID: 2, Err: io.ErrUnexpectedEOF}
	first := &SlotError{ID: 1, Err: io.EOF, Next: last}
	assert.Equal(t, []error{io.EOF, last}, first.Unwrap())
	assert.Equal(t, []error{io.ErrUnexpectedEOF}, last.Unwrap())

	// As finds the first in the chain
	var target *SlotError
	assert.True(t, errors.As(&EmitError{Cause: first, Count: 2}, &target))
	assert.Same(t, first, target)
}

func TestEmitError_zero(t *testing.T) {
	var e EmitError
	assert.NoError(t, e.Unwrap())
	assert.Empty(t, e.Errors())
	assert.Equal(t, `signal: 0 slots failed`, e.Error())
}

func TestPanicError(t *testing.T) {
	e := &PanicError{Value: io.EOF}
	assert.Equal(t, `signal: slot panicked: EOF`, e.Error())
	assert.ErrorIs(t, e, io.EOF)

	e = &PanicError{Value: 42}
	assert.Equal(t, `signal: slot panicked: 42`, e.Error())
	assert.NoError(t, e.Unwrap())
}
