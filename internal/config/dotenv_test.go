package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestLoadDotEnv_Priority(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, ".env", "WB_DOTENV_A=base\nWB_DOTENV_B=base\nWB_DOTENV_C=base\n")
	writeEnvFile(t, dir, ".env.local", "WB_DOTENV_B=local\n")
	writeEnvFile(t, dir, ".env.production", "WB_DOTENV_C=production\n")
	t.Chdir(dir)

	for _, k := range []string{"WB_DOTENV_A", "WB_DOTENV_B", "WB_DOTENV_C"} {
		require.NoError(t, os.Unsetenv(k))
		key := k
		t.Cleanup(func() { _ = os.Unsetenv(key) })
	}

	loaded := LoadDotEnv("production")

	assert.Equal(t, []string{".env.production", ".env.local", ".env"}, loaded)
	assert.Equal(t, "base", os.Getenv("WB_DOTENV_A"))
	assert.Equal(t, "local", os.Getenv("WB_DOTENV_B"))
	assert.Equal(t, "production", os.Getenv("WB_DOTENV_C"))
}

func TestLoadDotEnv_ProcessEnvWins(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, ".env", "WB_DOTENV_KEEP=file\n")
	t.Chdir(dir)
	t.Setenv("WB_DOTENV_KEEP", "process")

	LoadDotEnv("")

	assert.Equal(t, "process", os.Getenv("WB_DOTENV_KEEP"))
}

func TestLoadDotEnv_NoFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.Empty(t, LoadDotEnv("local"))
}
