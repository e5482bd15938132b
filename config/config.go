package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything read from the environment at startup. Missing
// provider credentials do not fail startup; the affected feature is reported
// as degraded instead.
type Config struct {
	Port        string
	CORSOrigins []string

	CacheMaxEntries int
	CacheTTL        time.Duration

	// Upper bound on every external collaborator call.
	CollaboratorTimeout time.Duration

	// LLM collaborator selection: "openai" (default) or "vertex".
	LLMProvider    string
	OpenAIAPIKey   string
	OpenAIModel    string
	VertexProject  string
	VertexLocation string
	VertexModel    string

	// Google Cloud credentials (Translation API, Forms API).
	GoogleCredentials string
	FormsCredentials  string
}

func Load() *Config {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		CacheMaxEntries:     getEnvInt("CACHE_MAX_ENTRIES", 200),
		CacheTTL:            getEnvDuration("CACHE_TTL", time.Hour),
		CollaboratorTimeout: getEnvDuration("COLLABORATOR_TIMEOUT", 30*time.Second),
		LLMProvider:         getEnv("LLM_PROVIDER", "openai"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		VertexProject:       os.Getenv("VERTEX_PROJECT_ID"),
		VertexLocation:      getEnv("VERTEX_LOCATION", "us-central1"),
		VertexModel:         getEnv("VERTEX_MODEL", "gemini-1.5-flash"),
		GoogleCredentials:   os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FormsCredentials:    os.Getenv("GOOGLE_FORMS_CREDENTIALS"),
	}
	if cfg.FormsCredentials == "" {
		cfg.FormsCredentials = cfg.GoogleCredentials
	}
	cfg.CORSOrigins = []string{
		getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
		"http://localhost:3000",
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
