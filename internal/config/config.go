package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Common contains upstream parameters shared by every entrypoint.
type Common struct {
	APODBaseURL      string
	APODPath         string
	BackendName      string
	APIKeyHeader     string
	CredentialHeader string
	UpstreamTimeout  time.Duration
	Version          string
	Environment      string
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr        string
	MetricsBindAddr string
	ShutdownTimeout time.Duration
}

// Lambda configures the Lambda entrypoint. It has no listeners of its own.
type Lambda struct {
	Common
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	c := &API{
		Common:          loadCommon(),
		BindAddr:        getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		MetricsBindAddr: getOptional("METRICS_BIND_ADDR", "0.0.0.0:9090"),
		ShutdownTimeout: getDuration("API_SHUTDOWN_TIMEOUT", "10s"),
	}

	if err := c.Common.validate(); err != nil {
		return nil, err
	}
	if c.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("API_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.MetricsBindAddr != "" && c.MetricsBindAddr == c.BindAddr {
		return nil, fmt.Errorf("METRICS_BIND_ADDR cannot equal API_BIND_ADDR")
	}

	return c, nil
}

// LoadLambda builds a Lambda config from environment variables.
func LoadLambda() (*Lambda, error) {
	c := &Lambda{Common: loadCommon()}
	if err := c.Common.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func loadCommon() Common {
	return Common{
		APODBaseURL:      getEnv("APOD_BASE_URL", "https://api.nasa.gov/"),
		APODPath:         getEnv("APOD_PATH", "planetary/apod"),
		BackendName:      getEnv("APOD_BACKEND_NAME", "apod_host"),
		APIKeyHeader:     getEnv("APOD_API_KEY_HEADER", "x-custom-apod-api-key"),
		CredentialHeader: getEnv("APOD_CREDENTIAL_HEADER", "Fastly-Key"),
		UpstreamTimeout:  getDuration("APOD_TIMEOUT", "10s"),
		Version:          getEnv("SERVICE_VERSION", os.Getenv("FASTLY_SERVICE_VERSION")),
		Environment:      getEnv("SERVICE_ENVIRONMENT", "production"),
	}
}

func (c Common) validate() error {
	u, err := url.Parse(c.APODBaseURL)
	if err != nil {
		return fmt.Errorf("APOD_BASE_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("APOD_BASE_URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("APOD_BASE_URL must include a host")
	}
	if strings.TrimSpace(c.APIKeyHeader) == "" {
		return fmt.Errorf("APOD_API_KEY_HEADER cannot be blank")
	}
	if strings.TrimSpace(c.CredentialHeader) == "" {
		return fmt.Errorf("APOD_CREDENTIAL_HEADER cannot be blank")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("APOD_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// getOptional is getEnv, except that a variable set to "off" yields an empty
// value so a listener can be disabled explicitly.
func getOptional(key, fallback string) string {
	v := getEnv(key, fallback)
	if strings.EqualFold(strings.TrimSpace(v), "off") {
		return ""
	}
	return v
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}
