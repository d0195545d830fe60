package config

import (
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the application-wide logger. The TUI owns stdout, so everything
// goes to a file under the data directory. Defaults to a no-op logger so
// call sites never need a nil check.
var Log = zap.NewNop().Sugar()

// InitLog switches the package logger to a file-backed zap logger.
// Logging is convenience-only; if the log file cannot be opened the
// no-op logger stays in place.
func InitLog(dataDir string) {
	logPath := filepath.Join(dataDir, "p2pchat.log")

	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{logPath}
	zcfg.ErrorOutputPaths = []string{logPath}
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)

	logger, err := zcfg.Build()
	if err != nil {
		return
	}
	Log = logger.Sugar()
}

// SyncLog flushes buffered log entries. Called on shutdown.
func SyncLog() {
	_ = Log.Sync()
}
