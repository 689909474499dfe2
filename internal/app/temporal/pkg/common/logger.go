package common

import (
	"go.uber.org/zap"
)

// ZapAdapter bridges a zap logger onto the Temporal SDK's log interface,
// which passes alternating key/value pairs.
type ZapAdapter struct {
	log *zap.SugaredLogger
}

// NewZapAdapter wraps an existing zap logger for the SDK.
func NewZapAdapter(log *zap.Logger) *ZapAdapter {
	// Skip one frame so call sites point at SDK callers, not this adapter.
	return &ZapAdapter{log: log.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (a *ZapAdapter) Debug(msg string, keyvals ...interface{}) {
	a.log.Debugw(msg, keyvals...)
}

func (a *ZapAdapter) Info(msg string, keyvals ...interface{}) {
	a.log.Infow(msg, keyvals...)
}

func (a *ZapAdapter) Warn(msg string, keyvals ...interface{}) {
	a.log.Warnw(msg, keyvals...)
}

func (a *ZapAdapter) Error(msg string, keyvals ...interface{}) {
	a.log.Errorw(msg, keyvals...)
}
