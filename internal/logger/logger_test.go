package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := build("prod", &buf)
	require.NoError(t, err)

	log.Info().Str("board_id", "b1").Msg("hello")
	log.Debug().Msg("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "b1", entry["board_id"])
	assert.Contains(t, entry, "timestamp")
}

func TestBuild_DevLevel(t *testing.T) {
	log, err := build("dev", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())
}

func TestBuild_UnknownEnv(t *testing.T) {
	_, err := build("staging", &bytes.Buffer{})
	assert.Error(t, err)
}
