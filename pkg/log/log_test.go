package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{input: "error", want: LogLevelError},
		{input: "warn", want: LogLevelWarn},
		{input: "info", want: LogLevelInfo},
		{input: "debug", want: LogLevelDebug},
		{input: "trace", want: LogLevelTrace},
		{input: "verbose", want: LogLevelError, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.input, got.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func entries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LogLevelInfo)

	l.Debug("hidden %d", 1)
	l.Info("shown %d", 2)
	l.Error("failed to %s", "connect")

	got := entries(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "info", got[0]["level"])
	assert.Equal(t, "shown 2", got[0]["msg"])
	assert.Contains(t, got[0], "ts")
	assert.Equal(t, "error", got[1]["level"])

	buf.Reset()
	l.SetLevel(LogLevelTrace)
	l.Trace("deep")
	got = entries(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "trace", got[0]["level"])
}

func TestSetDefaultLogger(t *testing.T) {
	previous := getDefaultLogger()
	defer SetDefaultLogger(previous)

	var buf bytes.Buffer
	SetDefaultLogger(New(&buf, LogLevelWarn))
	Info("ignored")
	Warn("kept")

	got := entries(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0]["msg"])
}
