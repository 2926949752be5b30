package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/moontasirabtahee/image-resizer-tool/internal/config"
)

// New builds the application logger. Logs go to the rotating file named in
// c.File when set, otherwise to stderr. With quiet set and no file, logging
// is discarded so it does not fight the progress display.
func New(c config.Log, quiet bool) (*zap.Logger, io.Closer, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, nil, err
	}
	if c.Dev {
		level = zapcore.DebugLevel
	}

	var sink zapcore.WriteSyncer
	var closer io.Closer = nopCloser{}
	switch {
	case c.File != "":
		rotating := &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAgeDays,
			Compress:   c.Compress,
			LocalTime:  true,
		}
		sink, closer = zapcore.AddSync(rotating), rotating
	case quiet:
		return zap.NewNop(), closer, nil
	default:
		sink = zapcore.Lock(os.Stderr)
	}

	return zap.New(zapcore.NewCore(encoder(c.Dev, c.File == ""), sink, level)), closer, nil
}

func encoder(dev, terminal bool) zapcore.Encoder {
	if !dev {
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	cfg := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		CallerKey:      "C",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if terminal {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(cfg)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
