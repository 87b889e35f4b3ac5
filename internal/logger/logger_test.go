package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlogJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newSlog(SlogConfig{Level: "warn", Format: "json"}, &buf)

	log.Info("skipped")
	log.Warn("kept", "duration_ms", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, float64(3), entry["duration_ms"])
	assert.NotEmpty(t, entry["time"])
}

func TestNewSlogText(t *testing.T) {
	var buf bytes.Buffer
	newSlog(SlogConfig{Level: "debug", Format: "text"}, &buf).Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
