package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log  = zap.NewNop()
	once sync.Once
)

// Init builds the production logger at the given level. Only the first call
// has an effect.
func Init(level string) error {
	var err error
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		lvl, parseErr := zapcore.ParseLevel(level)
		if parseErr != nil {
			lvl = zapcore.InfoLevel
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)

		var l *zap.Logger
		l, err = cfg.Build()
		if err == nil {
			log = l
		}
	})
	return err
}

// L returns the process logger. It is a no-op logger until Init is called.
func L() *zap.Logger {
	return log
}

func Sync() {
	_ = log.Sync()
}
