package logging

import (
	"os"
	"path/filepath"
	"sync"

	"expense-approval/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// Init builds the application logger. With a log file configured it tees
// JSON output to the file and stdout; otherwise plain production config.
func Init(cfg config.LogConfig) *zap.Logger {
	once.Do(func() {
		lvl := zapcore.InfoLevel
		if cfg.Level != "" {
			if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
				lvl = parsed
			}
		}

		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(lvl)

		if cfg.File == "" {
			l, _ := zcfg.Build()
			logger = l
			return
		}

		_ = os.MkdirAll(filepath.Dir(cfg.File), 0o755)
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			l, _ := zcfg.Build()
			logger = l
			return
		}

		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		fileCore := zapcore.NewCore(enc, zapcore.AddSync(f), lvl)
		consoleCore := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), lvl)
		logger = zap.New(zapcore.NewTee(fileCore, consoleCore))
	})
	return logger
}

// L returns the initialized logger, or a no-op logger before Init.
func L() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
