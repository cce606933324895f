package xlog

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xbst/lib/infra"
)

type logLevel string

const (
	LogLevelDebug logLevel = "DEBUG"
	LogLevelInfo  logLevel = "INFO"
	LogLevelWarn  logLevel = "WARN"
	LogLevelError logLevel = "ERROR"
)

func (lvl logLevel) zapLevel() zapcore.Level {
	switch lvl {
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelDebug:
		fallthrough
	default:
	}
	return zapcore.DebugLevel
}

func (lvl logLevel) String() string {
	return string(lvl)
}

// ParseLogLevel accepts the level names case-insensitively.
func ParseLogLevel(level string) (logLevel, error) {
	switch lvl := logLevel(strings.ToUpper(strings.TrimSpace(level))); lvl {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return lvl, nil
	default:
	}
	return LogLevelDebug, infra.NewErrorStack("[XLogger] unknown log level " + level)
}

type logEncoderType uint8

const (
	JSON logEncoderType = iota
	PlainText
	_encMax
)

func (enc logEncoderType) String() string {
	switch enc {
	case JSON:
		return "json"
	case PlainText:
		return "text"
	default:
	}
	return "unknown"
}

func ParseLogEncoder(enc string) (logEncoderType, error) {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "json":
		return JSON, nil
	case "text", "plain", "console":
		return PlainText, nil
	default:
	}
	return _encMax, infra.NewErrorStack("[XLogger] unknown log encoder " + enc)
}

const (
	// XLogLevelEnv is read when no level option is given.
	XLogLevelEnv   = "XBST_LOG_LVL"
	coreKeyIgnored = ""
)

var encoderMap = map[logEncoderType]func(cfg zapcore.EncoderConfig) zapcore.Encoder{
	JSON:      zapcore.NewJSONEncoder,
	PlainText: zapcore.NewConsoleEncoder,
}

func getEncoderByType(typ logEncoderType) func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	enc, ok := encoderMap[typ]
	if !ok {
		return zapcore.NewJSONEncoder
	}
	return enc
}

func defaultWriteSyncer() zapcore.WriteSyncer {
	return zapcore.Lock(os.Stdout)
}

type xLogCore interface {
	timeEncoder() zapcore.TimeEncoder
	levelEncoder() zapcore.LevelEncoder
	writeSyncer() zapcore.WriteSyncer
	outEncoder() func(cfg zapcore.EncoderConfig) zapcore.Encoder

	zapcore.Core
}

// XLogger mainly implemented by Uber zap logger.
//
// ErrorStack is used to print the frames of an infra.ErrorStack
// in JSON format, instead of the zap default error stack.
//
// Log format is not recommended, because it is low performance.
type XLogger interface {
	zap() *zap.Logger

	IncreaseLogLevel(level zapcore.Level)
	Level() string
	Enabled(level zapcore.Level) bool
	Sync() error
	Named(name string) XLogger

	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(err error, msg string, fields ...zap.Field)
	ErrorStack(err error, msg string, fields ...zap.Field)

	Logf(lvl zapcore.Level, format string, args ...any)
}
