// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package signal

import (
	"fmt"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
)

// signalOptions holds configuration options for Signal creation.
type signalOptions struct {
	logger         *logiface.Logger[logiface.Event]
	failureLimiter *catrate.Limiter
	name           string
}

// --- Signal Options ---

// Option configures a Signal instance, see [New].
type Option interface {
	applySignal(*signalOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applySignalFunc func(*signalOptions) error
}

func (o *optionImpl) applySignal(opts *signalOptions) error {
	return o.applySignalFunc(opts)
}

// WithLogger configures structured logging of connections, disconnections,
// owner disposal, and slot failures. A nil logger disables logging, which is
// the default.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *signalOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithName sets a label that is included in all log events.
func WithName(name string) Option {
	return &optionImpl{func(opts *signalOptions) error {
		opts.name = name
		return nil
	}}
}

// WithFailureLogRates rate limits the logging of slot failures, per
// connection, using sliding windows. For example, the following allows at
// most one log per second, and 10 per minute, for each connection:
//
//	signal.WithFailureLogRates(map[time.Duration]int{
//	    time.Second: 1,
//	    time.Minute: 10,
//	})
//
// Failures are always returned by [Signal.Emit], regardless of this option.
// See [catrate.NewLimiter] for the requirements on rates.
func WithFailureLogRates(rates map[time.Duration]int) Option {
	return &optionImpl{func(opts *signalOptions) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(error); ok {
					err = fmt.Errorf(`signal: invalid failure log rates: %w`, e)
				} else {
					err = fmt.Errorf(`signal: invalid failure log rates: %v`, r)
				}
			}
		}()
		opts.failureLimiter = catrate.NewLimiter(rates)
		return nil
	}}
}

// resolveOptions applies Option instances to signalOptions.
func resolveOptions(opts []Option) (*signalOptions, error) {
	cfg := &signalOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applySignal(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
