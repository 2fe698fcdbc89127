package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestInitializeSetsGlobalLevel(t *testing.T) {
	Initialize("debug")
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	Initialize("error")
	require.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())

	// Unknown levels fall back to info.
	Initialize("verbose")
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestGetForComponentTagsEntries(t *testing.T) {
	var buf bytes.Buffer
	orig := Logger
	Logger = zerolog.New(&buf).With().Str("service", serviceName).Logger()
	defer func() { Logger = orig }()

	componentLogger := GetForComponent("pricing")
	componentLogger.Info().Msg("ready")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "fxvault", entry["service"])
	require.Equal(t, "pricing", entry["component"])
	require.Equal(t, "ready", entry["message"])
}
