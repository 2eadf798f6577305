/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ir

import "go.uber.org/zap"

// logger mirrors classfile/log.go's package-wide sink: a no-op default so
// importing this package is silent, with SetLogger (and Lift's
// WithLogger option) installing a host application's own *zap.Logger.
var logger = zap.NewNop().Sugar()

// SetLogger installs l as the logger used by the ir package. Passing nil
// restores the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop().Sugar()
		return
	}
	logger = l.Sugar()
}

func traceLift(msg string, args ...interface{}) {
	logger.Debugf(msg, args...)
}
