// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package signal

import (
	"github.com/joeycumines/logiface"
)

// logger may return nil, which is safe to use, and disables logging.
func (s *Signal[T]) logger() *logiface.Logger[logiface.Event] {
	if s.opts == nil {
		return nil
	}
	return s.opts.logger
}

func (s *Signal[T]) withName(b *logiface.Builder[logiface.Event]) *logiface.Builder[logiface.Event] {
	if b.Enabled() && s.opts.name != `` {
		b = b.Str(`signal`, s.opts.name)
	}
	return b
}

func (s *Signal[T]) logSlot(msg string, id uint64, weak bool) {
	if b := s.logger().Debug(); b.Enabled() {
		s.withName(b).
			Uint64(`slot`, id).
			Bool(`weak`, weak).
			Log(msg)
	}
}

func (s *Signal[T]) logRemoved(msg string, count int) {
	if b := s.logger().Debug(); b.Enabled() {
		s.withName(b).
			Int(`count`, count).
			Log(msg)
	}
}

// logFailure logs a slot failure, subject to WithFailureLogRates.
func (s *Signal[T]) logFailure(id uint64, err error) {
	b := s.logger().Warning()
	if !b.Enabled() {
		return
	}
	if l := s.opts.failureLimiter; l != nil {
		if _, ok := l.Allow(id); !ok {
			b.Release()
			return
		}
	}
	s.withName(b).
		Uint64(`slot`, id).
		Err(err).
		Log(`slot failed`)
}
