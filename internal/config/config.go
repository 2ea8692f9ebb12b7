package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
// Note: generation itself is stateless - the database is optional and only
// backs the track history endpoint
type Config struct {
	// Environment
	Environment string
	Port        string

	// Observability
	SentryDSN string // Sentry DSN for error tracking

	// Persistence (optional)
	DatabaseURL string // Postgres DSN; empty disables track history

	// Rendering
	OutputDir            string // directory for MIDI/WAV/MP3 artifacts
	SoundFontPath        string // SF2 soundfont used for synthesis
	FFmpegPath           string // ffmpeg binary; empty means look up PATH
	RenderTimeoutSeconds int    // ceiling for synthesis plus transcode

	// Rate limiting
	RateLimitRPS   float64 // sustained generate requests per second per client
	RateLimitBurst int     // short burst allowance per client
}

func Load() *Config {
	return &Config{
		Environment:          getEnv("ENVIRONMENT", "development"),
		Port:                 getEnv("PORT", "8080"),
		SentryDSN:            getEnv("SENTRY_DSN", ""),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		OutputDir:            getEnv("OUTPUT_DIR", "output"),
		SoundFontPath:        getEnv("SOUNDFONT_PATH", "soundfont.sf2"),
		FFmpegPath:           getEnv("FFMPEG_PATH", ""),
		RenderTimeoutSeconds: getEnvInt("RENDER_TIMEOUT_SECONDS", 120),
		RateLimitRPS:         getEnvFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst:       getEnvInt("RATE_LIMIT_BURST", 3),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// IsProduction returns true when running with production hardening enabled
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
