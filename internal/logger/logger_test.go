// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeLines decodes every JSON line of buf.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		out = append(out, entry)
	}
	return out
}

// Attributes become typed zerolog fields.
func TestSLogAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := SLog{Logger: zerolog.New(&buf).Level(zerolog.DebugLevel)}

	l.Info(
		"attemptDone",
		slog.String("dialect", "json"),
		slog.Any("err", errors.New("mocked")),
		slog.Int("ioBytesCount", 7),
		slog.Bool("online", false),
		slog.Duration("latency", 3*time.Millisecond),
		slog.Time("deadline", time.Time{}),
		slog.Any("nothing", nil),
		slog.Group("peer", slog.String("addr", "127.0.0.1:25565")),
		"key", "value",
	)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "attemptDone", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "json", entry["dialect"])
	assert.Equal(t, "mocked", entry["err"])
	assert.Equal(t, float64(7), entry["ioBytesCount"])
	assert.Equal(t, false, entry["online"])
	assert.Equal(t, float64(3), entry["latency"])
	assert.Equal(t, "127.0.0.1:25565", entry["peer.addr"])
	assert.Equal(t, "value", entry["key"])
	assert.NotContains(t, entry, "deadline")
	assert.NotContains(t, entry, "nothing")
}

// Events below the logger level are dropped.
func TestSLogLevel(t *testing.T) {
	var buf bytes.Buffer
	l := SLog{Logger: zerolog.New(&buf).Level(zerolog.InfoLevel)}

	l.Debug("readStart", slog.Int("ioBufferSize", 4096))
	l.Info("connectStart")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "connectStart", entries[0]["message"])
}

// The JSON format writes one object per line.
func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer

	l := New(&buf, "json")
	l.Warn().Str("k", "v").Msg("hello")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0]["message"])
	assert.Contains(t, entries[0], "time")
}

// The console format is plain text without colors on a buffer.
func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer

	l := New(&buf, "console")
	l.Warn().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), "\x1b[")
}
