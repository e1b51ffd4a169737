package logger

import "go.uber.org/zap"

// Log is a nop until Init runs, so library code can log unconditionally.
var Log = zap.NewNop()

// Init sets up the global production logger. Call once from main before
// any other subsystem.
func Init() {
	Log = zap.Must(zap.NewProduction())
}

func Sugar() *zap.SugaredLogger {
	return Log.Sugar()
}
