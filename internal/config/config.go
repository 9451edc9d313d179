// ABOUTME: Centralized configuration for the Dalta chat server
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the chat system
type Config struct {
	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Retrieval settings
	ContextTopK     int
	SearchMinScore  float64
	EmbedWorkers    int
	VectorDimension int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ChatModel:       getEnv("DALTA_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:  getEnv("DALTA_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:         getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:      getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:      getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		ContextTopK:     getEnvInt("CONTEXT_TOP_K", 5),
		SearchMinScore:  getEnvFloat("SEARCH_MIN_SIMILARITY", 0.5),
		EmbedWorkers:    getEnvInt("EMBED_WORKERS", 4),
		VectorDimension: getEnvInt("EMBEDDING_DIMENSION", 1536),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.SearchMinScore < -1 || c.SearchMinScore > 1 {
		return fmt.Errorf("SEARCH_MIN_SIMILARITY must be -1 to 1, got %f", c.SearchMinScore)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.ContextTopK <= 0 {
		return fmt.Errorf("CONTEXT_TOP_K must be positive, got %d", c.ContextTopK)
	}
	if c.EmbedWorkers <= 0 {
		return fmt.Errorf("EMBED_WORKERS must be positive, got %d", c.EmbedWorkers)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
