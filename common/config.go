package common

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is the immutable application configuration. It is built once in
// main and passed by reference into every handler that needs it; nothing
// reads the environment after startup.
type Config struct {
	Port       string
	DBPath     string
	ScratchDir string

	// MaxUploadBytes caps the request body before any processing starts.
	MaxUploadBytes int64

	// AllowedExts are the upload extensions accepted for both the template
	// and the CSV slot, lowercase with leading dot.
	AllowedExts map[string]bool

	SofficePath    string
	SofficeTimeout time.Duration
}

// LoadConfig reads settings from the environment, with an optional .env
// file for local development.
func LoadConfig() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded settings from .env")
	}

	cfg := &Config{
		Port:           envOr("PORT", "8080"),
		DBPath:         envOr("DB_PATH", "mail_generator.db"),
		ScratchDir:     envOr("SCRATCH_DIR", os.TempDir()),
		MaxUploadBytes: 50 << 20,
		AllowedExts:    map[string]bool{".docx": true, ".csv": true},
		SofficePath:    envOr("SOFFICE_PATH", "soffice"),
		SofficeTimeout: 30 * time.Second,
	}

	if raw := os.Getenv("SOFFICE_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.SofficeTimeout = d
		} else {
			log.Printf("Ignoring invalid SOFFICE_TIMEOUT %q", raw)
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
