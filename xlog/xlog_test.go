package xlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xbst/lib/infra"
)

func newBufferLogger(buf *bytes.Buffer, opts ...XLoggerOption) XLogger {
	opts = append([]XLoggerOption{
		WithXLoggerWriter(zapcore.AddSync(buf)),
		WithXLoggerEncoder(JSON),
	}, opts...)
	return NewXLogger(opts...)
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	res := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		res = append(res, m)
	}
	return res
}

func TestParseLogLevel(t *testing.T) {
	testcases := []struct {
		in      string
		want    logLevel
		wantErr bool
	}{
		{in: "debug", want: LogLevelDebug},
		{in: " INFO ", want: LogLevelInfo},
		{in: "Warn", want: LogLevelWarn},
		{in: "error", want: LogLevelError},
		{in: "trace", want: LogLevelDebug, wantErr: true},
	}
	for _, tc := range testcases {
		t.Run(tc.in, func(tt *testing.T) {
			lvl, err := ParseLogLevel(tc.in)
			if tc.wantErr {
				require.Error(tt, err)
			} else {
				require.NoError(tt, err)
			}
			require.Equal(tt, tc.want, lvl)
		})
	}
	require.Equal(t, zapcore.DebugLevel, getLogLevelOrDefault(""))
	require.Equal(t, zapcore.WarnLevel, getLogLevelOrDefault("warn"))
}

func TestParseLogEncoder(t *testing.T) {
	enc, err := ParseLogEncoder("JSON")
	require.NoError(t, err)
	require.Equal(t, JSON, enc)
	enc, err = ParseLogEncoder("text")
	require.NoError(t, err)
	require.Equal(t, PlainText, enc)
	require.Equal(t, "text", enc.String())
	_, err = ParseLogEncoder("xml")
	require.Error(t, err)
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
}

func TestXLogger_LevelAndFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newBufferLogger(buf, WithXLoggerLevel(LogLevelInfo))
	require.Equal(t, "info", logger.Level())
	require.False(t, logger.Enabled(zapcore.DebugLevel))

	logger.Debug("dropped")
	logger.Info("inserted", zap.Uint32("key", 5))
	logger.Warn("duplicated", zap.Uint32("key", 5))
	logger.Error(errors.New("key not found"), "remove failed")
	require.NoError(t, logger.Sync())

	lines := decodeLines(t, buf)
	require.Len(t, lines, 3)
	require.Equal(t, "INFO", lines[0]["lvl"])
	require.Equal(t, "inserted", lines[0]["msg"])
	require.Equal(t, float64(5), lines[0]["key"])
	require.Equal(t, "WARN", lines[1]["lvl"])
	require.Equal(t, "key not found", lines[2]["error"])

	buf.Reset()
	logger.IncreaseLogLevel(zapcore.DebugLevel)
	require.True(t, logger.Enabled(zapcore.DebugLevel))
	logger.Logf(zapcore.DebugLevel, "height %d", 3)
	lines = decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, "height 3", lines[0]["msg"])
}

func TestXLogger_Named(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newBufferLogger(buf, WithXLoggerLevel(LogLevelDebug), WithXLoggerName("xbst"))
	child := logger.Named("avl")
	child.Debug("rotate")
	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, "xbst.avl", lines[0]["component"])

	// The child shares the level enabler.
	buf.Reset()
	logger.IncreaseLogLevel(zapcore.ErrorLevel)
	child.Info("dropped")
	require.Equal(t, 0, buf.Len())
}

func TestXLogger_ErrorStack(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newBufferLogger(buf, WithXLoggerLevel(LogLevelDebug))
	logger.ErrorStack(infra.NewErrorStack("[bstree] broken"), "contract violation")
	logger.ErrorStack(errors.New("plain"), "plain error")
	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	require.Equal(t, "[bstree] broken", lines[0]["error"])
	frames, ok := lines[0]["errorStack"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, frames)
	require.Equal(t, "plain", lines[1]["error"])
}

func TestNopXLogger(t *testing.T) {
	logger := NewNopXLogger()
	require.False(t, logger.Enabled(zapcore.ErrorLevel))
	logger.Info("nothing")
	logger.Error(errors.New("nothing"), "nothing")
	require.NotNil(t, logger.Named("child"))
}

func TestFxXLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newBufferLogger(buf, WithXLoggerLevel(LogLevelDebug))
	fxLogger := NewFxXLogger(logger)

	fxLogger.LogEvent(&fxevent.Invoking{FunctionName: "main.run"})
	fxLogger.LogEvent(&fxevent.Invoked{FunctionName: "main.run", Err: errors.New("boom")})
	fxLogger.LogEvent(&fxevent.Started{})
	fxLogger.LogEvent(&fxevent.Provided{ConstructorName: "newShell", OutputTypeNames: []string{"*shell.Shell"}})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)
	require.Equal(t, "Fx", lines[0]["component"])
	require.Equal(t, "INVOKING", lines[0]["msg"])
	require.Equal(t, "main.run", lines[0]["function"])
	require.Equal(t, "ERROR", lines[1]["lvl"])
	require.Equal(t, "boom", lines[1]["error"])
	require.Equal(t, "RUNNING", lines[2]["msg"])
	require.Equal(t, "*shell.Shell", lines[3]["rtype"])
	// Component cores never print the caller.
	_, ok := lines[0]["callAt"]
	require.False(t, ok)

	var nilLogger *FxXLogger
	nilLogger.LogEvent(&fxevent.Started{})
}
