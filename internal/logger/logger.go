// Package logger builds the zap logger shared by the server and middleware.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls encoder, level and the optional rotating file sink.
type Options struct {
	Level string // debug / info / warn / error
	JSON  bool
	File  string // empty disables the file sink

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New returns a SugaredLogger and a flush func to defer in main.
func New(opt Options) (*zap.SugaredLogger, func()) {
	var lvl zapcore.Level
	if err := lvl.Set(opt.Level); err != nil {
		lvl = zapcore.InfoLevel
	}

	var enc zapcore.Encoder
	if opt.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.TimeKey = "ts"
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), lvl)}
	if opt.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opt.File,
			MaxSize:    atLeast(opt.MaxSizeMB, 100),
			MaxBackups: atLeast(opt.MaxBackups, 3),
			MaxAge:     atLeast(opt.MaxAgeDays, 28),
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(rotator), lvl))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return l.Sugar(), func() { _ = l.Sync() }
}

func atLeast(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
