package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewHandler_JSON(t *testing.T) {
	var jsonOut, textOut bytes.Buffer
	logger := slog.New(NewHandler(&jsonOut, &textOut, "json", slog.LevelInfo))

	logger.Debug("hidden")
	logger.Info("Settlement recorded", "group_id", "g1")

	assert.Zero(t, textOut.Len())
	var line map[string]any
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &line))
	assert.Equal(t, "Settlement recorded", line["msg"])
	assert.Equal(t, "g1", line["group_id"])
}

func TestNewHandler_Text(t *testing.T) {
	var jsonOut, textOut bytes.Buffer
	h := NewHandler(&jsonOut, &textOut, "text", slog.LevelWarn)

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	slog.New(h).Warn("careful", "n", 1)

	assert.Zero(t, jsonOut.Len())
	assert.Contains(t, textOut.String(), "careful")
}
