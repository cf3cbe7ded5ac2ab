package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/turing/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := logging.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = logging.ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = logging.ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewWithFile_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithFile(slog.LevelInfo, &buf)

	logger.Debug("hidden")
	logger.Info("machine halted", "error", errors.New("boom"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "machine halted", line["msg"])
	assert.Equal(t, "boom", line["err"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewNop(t *testing.T) {
	assert.False(t, logging.NewNop().Enabled(context.Background(), slog.LevelError))
}
