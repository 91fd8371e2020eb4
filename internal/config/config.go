// Package config centralises all environment / flag configuration for the API
// and the scanner. Load should be called only by the cmd/ entrypoints;
// business-logic layers receive the already-built values via
// dependency-injection.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Mode selects which request shape POST /matches accepts. A deployment runs
// exactly one mode; the two are never active simultaneously.
const (
	ModeStore = "store" // rank issues previously ingested by the scanner
	ModeLive  = "live"  // scan the repositories named in the request
)

// defaultRepos is the MVP "healthy repo" list the scanner falls back to when
// REPOS_TO_SCAN is unset.
var defaultRepos = []string{
	"kubeflow/sdk",
	"pandas-dev/pandas",
	"scikit-learn/scikit-learn",
	"fastapi-users/fastapi-users",
	"tiangolo/fastapi",
}

// Config holds every runtime option the binaries need.
// Keep it flat and simple—prefer primitive types over embedding structs.
type Config struct {
	// Network
	Port           string
	FrontendOrigin string

	// Data stores
	MongoURI string
	DBName   string

	// External services. GitHubToken may be empty: the GitHub client then
	// runs unauthenticated under much tighter rate limits.
	GitHubToken string

	// Matching
	MatchMode   string
	ReposToScan []string

	// Vertex AI
	ProjectID       string
	Location        string
	CredentialsFile string

	// Server tuning
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load parses the environment (and an optional .env file) into Config.
// It terminates the process on missing critical variables so
// mis-configurations fail fast.
func Load() Config {
	// godotenv.Load() is a no-op if .env doesn't exist—safe in production.
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		FrontendOrigin:  getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
		MongoURI:        must("MONGODB_URI"),
		DBName:          getEnv("MONGODB_DB", "first_pr"),
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		MatchMode:       getEnv("MATCH_MODE", ModeStore),
		ReposToScan:     getList("REPOS_TO_SCAN", defaultRepos),
		ProjectID:       os.Getenv("GCP_PROJECT_ID"), // required by the API server, not the scanner
		Location:        getEnv("GCP_LOCATION", "us-central1"),
		CredentialsFile: os.Getenv("GCP_CREDENTIALS_FILE"),
		ReadTimeout:     getDuration("READ_TIMEOUT_SEC", 5),
		WriteTimeout:    getDuration("WRITE_TIMEOUT_SEC", 30),
	}

	if cfg.MatchMode != ModeStore && cfg.MatchMode != ModeLive {
		log.Fatalf("MATCH_MODE must be %q or %q, got %q", ModeStore, ModeLive, cfg.MatchMode)
	}
	if cfg.GitHubToken == "" {
		log.Printf("WARNING: GITHUB_TOKEN not set; GitHub calls will be unauthenticated and heavily rate-limited")
	}
	return cfg
}

// must fetches a required env var or terminates the program.
func must(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("env var %s is required", key)
	}
	return val
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getList reads a comma-separated list from env, falling back to defaultVal.
func getList(key string, defaultVal []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

// getDuration reads an integer (seconds) from env, falling back to defaultSec.
func getDuration(key string, defaultSec int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			return time.Duration(sec) * time.Second
		}
		log.Printf("invalid %s=%q; using default %ds", key, v, defaultSec)
	}
	return time.Duration(defaultSec) * time.Second
}
