package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(Config{Level: "loud", Format: "json", Output: "stdout"})
	require.Error(t, err)
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, closer, err := New(Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Info().Str("symbol", "BTCUSDT").Msg("cycle done")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "BTCUSDT", entry["symbol"])
	assert.Equal(t, "cycle done", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	l := Component(build(&buf, "json", zerolog.InfoLevel), "scheduler")
	l.Warn().Msg("slow")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scheduler", entry["component"])
	assert.Equal(t, "warn", entry["level"])
}
