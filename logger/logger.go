package logger

import (
	"log"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ProgressLogger logs the main steps of the grid layout.
var ProgressLogger *log.Logger

// WarningLogger emits a warning for each non fatal error, like invalid
// CSS declarations or clamped grid lines.
var WarningLogger *log.Logger

var current atomic.Pointer[zap.Logger]

func init() {
	Replace(defaultCore())
}

func defaultCore() zapcore.Core {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	return zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stdout), zap.WarnLevel)
}

// Config selects the level, the format and the optional log file.
type Config struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // "console" or "json"
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Configure installs a new logger built from cfg.
// An invalid level is reported as an error and the previous logger is kept.
func Configure(cfg Config) error {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)}

	if cfg.File != "" {
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, level))
	}
	Replace(zapcore.NewTee(cores...))
	return nil
}

// Replace installs a logger writing to core and returns a function
// restoring the previous one.
func Replace(core zapcore.Core) (restore func()) {
	l := zap.New(core).Named("gridlayout")
	previous := current.Swap(l)
	progress := zap.NewStdLog(l.Named("progress"))
	warning, err := zap.NewStdLogAt(l.Named("warning"), zapcore.WarnLevel)
	if err != nil { // only fails for invalid levels
		panic(err)
	}
	oldProgress, oldWarning := ProgressLogger, WarningLogger
	ProgressLogger, WarningLogger = progress, warning
	return func() {
		current.Store(previous)
		ProgressLogger, WarningLogger = oldProgress, oldWarning
	}
}

// L returns the structured logger.
func L() *zap.Logger { return current.Load() }

// Sync flushes buffered log entries.
func Sync() { _ = L().Sync() }
