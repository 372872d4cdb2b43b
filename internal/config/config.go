package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds everything the console backend needs at startup. Values come
// from an optional YAML file (LUMEN_CONFIG_FILE) overridden by environment
// variables, env winning.
type Config struct {
	Port string `yaml:"port"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	ModelName    string `yaml:"model_name"`
	UseMockLLM   bool   `yaml:"use_mock_llm"`

	StorageBackend string `yaml:"storage_backend"` // "memory", "redis" or "firestore"

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	GCPProjectID string `yaml:"gcp_project_id"`

	AutoSpeak    bool `yaml:"auto_speak"`
	MinCaptureMS int  `yaml:"min_capture_ms"`
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load builds the config from the optional YAML file plus env vars.
func Load() (*Config, error) {
	// File values act as defaults for the env lookups below.
	cfg := &Config{
		Port:           "8080",
		ModelName:      "gemini-2.5-flash",
		StorageBackend: "memory",
		RedisAddr:      "localhost:6379",
		AutoSpeak:      true,
		MinCaptureMS:   600,
	}

	if path := os.Getenv("LUMEN_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("LUMEN_PORT", cfg.Port)
	cfg.GeminiAPIKey = getEnv("LUMEN_GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.ModelName = getEnv("LUMEN_MODEL_NAME", cfg.ModelName)
	cfg.UseMockLLM = getBoolEnv("LUMEN_USE_MOCK_LLM", cfg.UseMockLLM)
	cfg.StorageBackend = getEnv("LUMEN_STORAGE_BACKEND", cfg.StorageBackend)
	cfg.RedisAddr = getEnv("LUMEN_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("LUMEN_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getIntEnv("LUMEN_REDIS_DB", cfg.RedisDB)
	cfg.GCPProjectID = getEnv("LUMEN_GCP_PROJECT", cfg.GCPProjectID)
	cfg.AutoSpeak = getBoolEnv("LUMEN_AUTO_SPEAK", cfg.AutoSpeak)
	cfg.MinCaptureMS = getIntEnv("LUMEN_MIN_CAPTURE_MS", cfg.MinCaptureMS)

	switch cfg.StorageBackend {
	case "memory", "redis":
	case "firestore":
		if cfg.GCPProjectID == "" {
			return nil, fmt.Errorf("LUMEN_GCP_PROJECT is required for the firestore storage backend")
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	return cfg, nil
}
