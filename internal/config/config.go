package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Config struct {
	Env              string
	LogLevel         string
	HTTPAddr         string
	LLMBaseURL       string
	LLMAPIKey        string
	LLMModel         string
	LLMTimeout       time.Duration
	LLMMaxRetries    int
	NarrativeTimeout time.Duration
	KnowledgeFile    string
	KnowledgeDir     string
	BatchWorkers     int
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads the process configuration once. It panics on invalid values,
// which only happens at startup.
func Load() *Config {
	once.Do(func() {
		_ = loadDotEnv(".env")
		c, err := FromEnv()
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

// FromEnv builds a Config from the current environment without caching.
func FromEnv() (*Config, error) {
	c := &Config{
		Env:           getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8088"),
		LLMBaseURL:    getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
		LLMModel:      getEnv("LLM_MODEL", "google/gemma-2-27b-it"),
		KnowledgeFile: getEnv("KNOWLEDGE_FILE", ""),
		KnowledgeDir:  getEnv("KNOWLEDGE_DIR", ""),
	}
	// No fallback: without a key the narrative layer runs offline.
	c.LLMAPIKey = os.Getenv("LLM_API_KEY")
	var err error
	if c.LLMTimeout, err = getDuration("LLM_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if c.NarrativeTimeout, err = getDuration("NARRATIVE_TIMEOUT", 90*time.Second); err != nil {
		return nil, err
	}
	if c.LLMMaxRetries, err = getInt("LLM_MAX_RETRIES", 2); err != nil {
		return nil, err
	}
	if c.BatchWorkers, err = getInt("BATCH_WORKERS", 4); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.LLMModel == "" {
		return errors.New("LLM_MODEL must not be empty")
	}
	if c.LLMTimeout <= 0 || c.NarrativeTimeout <= 0 {
		return errors.New("LLM_TIMEOUT and NARRATIVE_TIMEOUT must be positive")
	}
	if c.LLMMaxRetries < 0 {
		return errors.New("LLM_MAX_RETRIES must be >= 0")
	}
	if c.BatchWorkers < 1 {
		return errors.New("BATCH_WORKERS must be >= 1")
	}
	return nil
}

// Online reports whether a remote text-generation key was supplied.
func (c *Config) Online() bool { return c.LLMAPIKey != "" }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// loadDotEnv copies KEY=VALUE lines from path into the environment without
// overriding variables that already hold a value.
func loadDotEnv(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, l := range strings.FieldsFunc(string(data), func(r rune) bool { return r == '\n' || r == '\r' }) {
		l = strings.TrimSpace(l)
		if l == "" || l[0] == '#' {
			continue
		}
		k, v, ok := strings.Cut(l, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if os.Getenv(k) != "" {
			continue
		}
		os.Setenv(k, strings.Trim(strings.TrimSpace(v), `"`))
	}
	return nil
}
