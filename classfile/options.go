/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "go.uber.org/zap"

// defaultMaxCodeSize is JVMS 4.7.3's own limit on a Code attribute's code
// array (it is declared as a u4 but a method's code is capped at 65535
// bytes by the verifier). A caller parsing untrusted class files can lower
// this further with WithMaxCodeSize; it is never raised past what the JVMS
// allows.
const defaultMaxCodeSize = 65535

// Options controls the few knobs ParseClass leaves open: how large a
// declared Code array is trusted before it's even allocated, and where
// diagnostic output goes.
type Options struct {
	MaxCodeSize int
	Logger      *zap.Logger
}

// Option configures an Options value.
type Option func(*Options)

func defaultOptions() Options {
	return Options{MaxCodeSize: defaultMaxCodeSize}
}

// WithMaxCodeSize caps the declared code_length ParseClass will allocate
// for any one method's Code attribute. A declared length over n is
// reported as AttrTruncated rather than trusted outright, the way a
// decoder fed attacker-controlled class files must: code_length is read
// off the wire before anything validates it against the bytes actually
// present.
func WithMaxCodeSize(n int) Option {
	return func(o *Options) { o.MaxCodeSize = n }
}

// WithLogger makes ParseClass install l through classfile.SetLogger before
// it starts; the logger stays installed package-wide after the call
// returns. Passing nil is a no-op.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func resolveOptions(opts []Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
