package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env files for appEnv in priority order:
// .env.<appEnv>.local, .env.<appEnv>, .env.local, .env.
// godotenv never overwrites a variable that is already set, so the process
// environment wins and earlier files win over later ones.
// It returns the files that were loaded.
func LoadDotEnv(appEnv string) []string {
	var candidates []string
	if appEnv != "" {
		candidates = append(candidates, ".env."+appEnv+".local", ".env."+appEnv)
	}
	candidates = append(candidates, ".env.local", ".env")

	var loaded []string
	for _, f := range candidates {
		if info, err := os.Stat(f); err == nil && !info.IsDir() {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
