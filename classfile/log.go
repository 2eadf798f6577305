/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "go.uber.org/zap"

// logger is the package-wide sink for diagnostic trace output. It defaults
// to a no-op logger so that importing this package never prints to stdout;
// a host application that wants visibility into parsing decisions calls
// SetLogger with its own *zap.Logger.
var logger = zap.NewNop().Sugar()

// SetLogger installs l as the logger used by the classfile package. Passing
// nil restores the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop().Sugar()
		return
	}
	logger = l.Sugar()
}

func traceClass(msg string, args ...interface{}) {
	logger.Debugf(msg, args...)
}

func warnClass(msg string, args ...interface{}) {
	logger.Warnf(msg, args...)
}
