package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriter_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	Info("listening on %s", ":8080")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "listening on :8080", entry["message"])
	assert.Equal(t, "whisperbox-backend", entry["service"])
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	l := WithRequestID("abc123")
	l.Warn().Msg("slow")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc123", entry["request_id"])
	assert.Equal(t, "warn", entry["level"])
}

func TestInitWithWriter_ConsoleInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("development", &buf)

	Info("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}
