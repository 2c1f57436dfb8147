package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	id "linkgateway/pkg/domain"
	pstrings "linkgateway/pkg/platform/strings"
)

// Defaults applied when the environment leaves a value unset.
const (
	DefaultAddr              = ":8080"
	DefaultRealm             = "Protected"
	DefaultRegistryBaseURL   = "https://grp.gs1.org/grp"
	DefaultRegistryTimeout   = 15 * time.Second
	DefaultPreferredLanguage = "es"
)

// DefaultPublicPaths are the static-asset prefixes that bypass the auth gate.
var DefaultPublicPaths = []string{"/_next", "/favicon.ico", "/assets", "/static"}

// ErrMissingCredentials is returned when the Basic-Auth pair is not configured.
var ErrMissingCredentials = errors.New("BASIC_AUTH_USERNAME and BASIC_AUTH_PASSWORD must be set")

// BasicAuth is the single shared credential pair guarding the gateway.
type BasicAuth struct {
	Username string
	Password string
	Realm    string
}

// Registry captures how the gateway reaches the GS1 registry.
type Registry struct {
	BaseURL string
	// APIKey may be empty: requests then fail with a configuration error
	// instead of the process refusing to start.
	APIKey         string
	DefaultVersion id.APIVersion
	Timeout        time.Duration
}

// Server captures HTTP server level configuration. It is built once at
// startup and only read afterwards.
type Server struct {
	Addr              string
	Auth              BasicAuth
	PublicPaths       []string
	StaticDir         string
	PreferredLanguage string
	Registry          Registry
	LogLevel          string
	LogFormat         string
}

// Load reads an optional .env file and then builds the configuration from
// the process environment. Variables already set in the environment win.
func Load(envFiles ...string) (Server, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Server{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr: getEnv("GATEWAY_ADDR", DefaultAddr),
		Auth: BasicAuth{
			Username: os.Getenv("BASIC_AUTH_USERNAME"),
			Password: os.Getenv("BASIC_AUTH_PASSWORD"),
			Realm:    getEnv("BASIC_AUTH_REALM", DefaultRealm),
		},
		PublicPaths:       DefaultPublicPaths,
		StaticDir:         os.Getenv("GATEWAY_STATIC_DIR"),
		PreferredLanguage: strings.ToLower(getEnv("GATEWAY_PREFERRED_LANGUAGE", DefaultPreferredLanguage)),
		Registry: Registry{
			BaseURL: strings.TrimRight(getEnv("GRP_BASE_URL", DefaultRegistryBaseURL), "/"),
			APIKey:  getEnv("GRP_API_KEY", os.Getenv("API_KEY")),
			Timeout: DefaultRegistryTimeout,
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// No literal fallback: a deployed gateway must name its own credentials.
	if cfg.Auth.Username == "" || cfg.Auth.Password == "" {
		return Server{}, ErrMissingCredentials
	}

	if raw, ok := os.LookupEnv("GATEWAY_PUBLIC_PATHS"); ok {
		cfg.PublicPaths = pstrings.NormalizePathPrefixes(strings.Split(raw, ","))
	}

	version, err := id.ParseAPIVersion(getEnv("GRP_API_VERSION", id.DefaultVersion().String()))
	if err != nil {
		return Server{}, fmt.Errorf("GRP_API_VERSION: %w", err)
	}
	cfg.Registry.DefaultVersion = version

	if raw := os.Getenv("GRP_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return Server{}, fmt.Errorf("GRP_TIMEOUT: invalid duration %q", raw)
		}
		cfg.Registry.Timeout = timeout
	}

	return cfg, nil
}

// APIKeyConfigured reports whether registry calls can be authenticated.
func (s Server) APIKeyConfigured() bool {
	return s.Registry.APIKey != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
