package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendSurrealDB = "surrealdb"
)

type Config struct {
	GitHubToken    string
	GitHubUsername string
	PortfolioTopic string

	// Overridable so tests can point at httptest servers.
	GitHubAPIURL  string
	RawContentURL string

	StoreBackend string

	FirebaseServiceAccount []byte
	FirebaseProjectID      string
	FirestoreCollection    string

	SurrealURL  string
	SurrealNS   string
	SurrealDB   string
	SurrealUser string
	SurrealPass string

	RequestTimeout    time.Duration
	EnrichConcurrency int
	LogLevel          slog.Level
}

// Error reports a missing or malformed configuration value.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// Load reads .env (if present) and the process environment. It performs no
// network activity.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		GitHubToken:    getenv("PERSONAL_GITHUB_TOKEN"),
		GitHubUsername: getenv("GITHUB_USERNAME"),
		PortfolioTopic: getenv("PORTFOLIO_TOPIC"),

		GitHubAPIURL:  getenv("GITHUB_API_URL"),
		RawContentURL: getenv("RAW_CONTENT_URL"),

		StoreBackend: strings.ToLower(getenv("STORE_BACKEND")),

		FirebaseProjectID:   getenv("FIREBASE_PROJECT_ID"),
		FirestoreCollection: getenv("FIRESTORE_COLLECTION"),

		SurrealURL:  getenv("SURREAL_URL"),
		SurrealNS:   getenv("SURREAL_NS"),
		SurrealDB:   getenv("SURREAL_DB"),
		SurrealUser: getenv("SURREAL_USER"),
		SurrealPass: getenv("SURREAL_PASS"),
	}

	if cfg.GitHubToken == "" {
		cfg.GitHubToken = getenv("GITHUB_TOKEN")
	}
	if cfg.GitHubToken == "" {
		return nil, &Error{Key: "PERSONAL_GITHUB_TOKEN", Reason: "must be set"}
	}
	if cfg.GitHubUsername == "" {
		cfg.GitHubUsername = "slyty7"
	}
	if cfg.PortfolioTopic == "" {
		cfg.PortfolioTopic = "portfolio-project"
	}
	if cfg.RawContentURL == "" {
		cfg.RawContentURL = "https://raw.githubusercontent.com"
	}
	cfg.RawContentURL = strings.TrimSuffix(cfg.RawContentURL, "/")
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendFirestore
	}
	if cfg.FirestoreCollection == "" {
		cfg.FirestoreCollection = "projects"
	}

	switch cfg.StoreBackend {
	case BackendFirestore:
		if err := cfg.loadServiceAccount(getenv("FIREBASE_SERVICE_ACCOUNT")); err != nil {
			return nil, err
		}
	case BackendSurrealDB:
		if cfg.SurrealURL == "" || cfg.SurrealNS == "" || cfg.SurrealDB == "" {
			return nil, &Error{Key: "SURREAL_URL", Reason: "SURREAL_URL, SURREAL_NS and SURREAL_DB must be set"}
		}
		// The SDK appends /rpc automatically
		cfg.SurrealURL = strings.TrimSuffix(cfg.SurrealURL, "/rpc")
		cfg.SurrealURL = strings.TrimSuffix(cfg.SurrealURL, "/")
	default:
		return nil, &Error{Key: "STORE_BACKEND", Reason: fmt.Sprintf("unknown backend %q", cfg.StoreBackend)}
	}

	cfg.RequestTimeout = 15 * time.Second
	if v := getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, &Error{Key: "REQUEST_TIMEOUT", Reason: fmt.Sprintf("invalid duration %q", v)}
		}
		cfg.RequestTimeout = d
	}

	cfg.EnrichConcurrency = 5
	if v := getenv("ENRICH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, &Error{Key: "ENRICH_CONCURRENCY", Reason: fmt.Sprintf("must be a positive integer, got %q", v)}
		}
		cfg.EnrichConcurrency = n
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, &Error{Key: "LOG_LEVEL", Reason: fmt.Sprintf("unknown level %q", v)}
		}
	}

	return cfg, nil
}

func (c *Config) loadServiceAccount(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return &Error{Key: "FIREBASE_SERVICE_ACCOUNT", Reason: "must be set"}
	}

	var account struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal([]byte(raw), &account); err != nil {
		return &Error{Key: "FIREBASE_SERVICE_ACCOUNT", Reason: "not valid JSON: " + err.Error()}
	}
	if c.FirebaseProjectID == "" {
		c.FirebaseProjectID = account.ProjectID
	}
	if c.FirebaseProjectID == "" {
		return &Error{Key: "FIREBASE_PROJECT_ID", Reason: "not set and service account has no project_id"}
	}

	c.FirebaseServiceAccount = []byte(raw)
	return nil
}
