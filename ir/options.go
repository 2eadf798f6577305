/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ir

import "go.uber.org/zap"

// Options controls the lifter's policy knobs.
type Options struct {
	Logger *zap.Logger

	// StrictStackMap promotes a stack-map/fixpoint divergence from a
	// non-fatal ir.Divergence to a hard lift error.
	// Off by default: a declared StackMapTable disagreeing with this
	// package's own abstract interpretation is common enough on
	// real-world bytecode (split-verifier quirks, merged exception
	// handlers) that failing the whole lift over it would make the
	// lifter unusable on otherwise-fine input.
	StrictStackMap bool
}

// Option configures an Options value.
type Option func(*Options)

// WithLogger makes Lift install l through SetLogger before it starts; l
// stays installed package-wide after Lift returns. A nil l is a no-op.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithStrictStackMap makes a stack-map/fixpoint divergence a LiftError
// instead of a recorded Divergence.
func WithStrictStackMap(strict bool) Option {
	return func(o *Options) { o.StrictStackMap = strict }
}

func resolveOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
