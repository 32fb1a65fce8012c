package config

import (
	"os"
	"sync"
	"time"
)

type GeminiConfig struct {
	APIKey string
	Model  string
	// MaxRetries is 0 by default: one model call per document.
	MaxRetries     int
	RequestTimeout time.Duration
	// BreakerCooldown is how long an open circuit breaker rejects calls
	// before letting one trial call through.
	BreakerCooldown time.Duration
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		geminiConfig = &GeminiConfig{
			APIKey:          os.Getenv("GEMINI_API_KEY"),
			Model:           getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			MaxRetries:      getEnvInt("GEMINI_MAX_RETRIES", 0),
			RequestTimeout:  getEnvDuration("GEMINI_TIMEOUT", 90*time.Second),
			BreakerCooldown: getEnvDuration("GEMINI_BREAKER_COOLDOWN", 30*time.Second),
		}
	})
	return geminiConfig
}
