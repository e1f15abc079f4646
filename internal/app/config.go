package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every runtime setting, loaded from the environment with
// development defaults.
type Config struct {
	Env       string
	HTTPAddr  string
	CORSAllow []string

	// SweepInterval is the heartbeat sweep period; an unresponsive
	// connection is dropped after at most one interval.
	SweepInterval time.Duration

	// ReadLimitBytes caps a single inbound frame.
	ReadLimitBytes int64

	// FramesPerSec / FrameBurst bound how fast one connection may send.
	FramesPerSec float64
	FrameBurst   int

	// CodeMin / CodeMax delimit the room code range, inclusive.
	CodeMin int
	CodeMax int
}

// LoadConfig reads the environment. Missing or unparseable values fall
// back to defaults.
func LoadConfig() Config {
	return Config{
		Env:            getEnv("APP_ENV", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		CORSAllow:      splitCSV(getEnv("CORS_ALLOW", "*")),
		SweepInterval:  getEnvDuration("SWEEP_INTERVAL", 30*time.Second),
		ReadLimitBytes: int64(getEnvInt("READ_LIMIT_BYTES", 4096)),
		FramesPerSec:   float64(getEnvInt("FRAMES_PER_SEC", 20)),
		FrameBurst:     getEnvInt("FRAME_BURST", 40),
		CodeMin:        getEnvInt("ROOM_CODE_MIN", 1000),
		CodeMax:        getEnvInt("ROOM_CODE_MAX", 9999),
	}
}

// getEnv returns the env var or a default.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getEnvInt parses an int env var with a fallback.
func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return def
}

// getEnvDuration parses a duration env var ("30s", "1m") with a fallback.
func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

// splitCSV trims and filters a comma-separated list.
func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
