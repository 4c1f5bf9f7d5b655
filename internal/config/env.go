package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order; variables already set are never overwritten,
// so the process environment wins over .env, which wins over .env.local.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads whichever of the env files exist next to dir.
func loadEnvFiles(dir string) []string {
	var loaded []string
	for _, name := range envFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("Failed to load env file", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		loaded = append(loaded, p)
	}
	return loaded
}
