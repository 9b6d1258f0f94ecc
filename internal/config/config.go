// Package config loads Mudra configuration from a .env file and
// environment variables.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all daemon configuration. Thresholds and timeouts are
// deliberately configuration rather than constants; the right values
// vary between cameras, models and signers.
type Config struct {
	Addr     string
	DBPath   string
	CameraID int

	// Recognition tuning
	SampleIntervalMs    int
	BufferSize          int
	PredictionThreshold float64
	HoldTimeoutMs       int
	IdleTimeoutMs       int
	MotionThresh        float64

	// Collaborators
	ModelScript     string
	DemoMode        bool
	SpeechTimeoutMs int
	StaticDir       string
}

// Defaults.
const (
	DefaultAddr                = ":8080"
	DefaultSampleIntervalMs    = 500
	DefaultBufferSize          = 5
	DefaultPredictionThreshold = 0.6
	DefaultHoldTimeoutMs       = 5000
	DefaultIdleTimeoutMs       = 6000
	DefaultMotionThresh        = 1.0
	DefaultSpeechTimeoutMs     = 15000
)

// Load reads a .env file if present and builds the configuration from
// the environment, applying defaults for anything unset.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env file")
	}

	return Config{
		Addr:                envString("MUDRA_ADDR", DefaultAddr),
		DBPath:              envString("MUDRA_DB_PATH", ""),
		CameraID:            envInt("MUDRA_CAMERA_ID", 0),
		SampleIntervalMs:    envInt("MUDRA_SAMPLE_INTERVAL_MS", DefaultSampleIntervalMs),
		BufferSize:          envInt("MUDRA_BUFFER_SIZE", DefaultBufferSize),
		PredictionThreshold: envFloat("MUDRA_PREDICTION_THRESHOLD", DefaultPredictionThreshold),
		HoldTimeoutMs:       envInt("MUDRA_HOLD_TIMEOUT_MS", DefaultHoldTimeoutMs),
		IdleTimeoutMs:       envInt("MUDRA_IDLE_TIMEOUT_MS", DefaultIdleTimeoutMs),
		MotionThresh:        envFloat("MUDRA_MOTION_THRESHOLD", DefaultMotionThresh),
		ModelScript:         envString("MUDRA_MODEL_SCRIPT", ""),
		DemoMode:            envBool("MUDRA_DEMO_MODE", false),
		SpeechTimeoutMs:     envInt("MUDRA_SPEECH_TIMEOUT_MS", DefaultSpeechTimeoutMs),
		StaticDir:           envString("MUDRA_STATIC_DIR", ""),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using %v", key, v, fallback)
		return fallback
	}
	return b
}
