// Package app assembles the HTTP handler shared by the server and Lambda
// entrypoints.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/DeafMist/apod-edge/internal/apod"
	"github.com/DeafMist/apod-edge/internal/config"
	"github.com/DeafMist/apod-edge/internal/httpapi"
	"github.com/DeafMist/apod-edge/internal/metrics"
)

// NewHandler builds the upstream client and the HTTP server around it.
func NewHandler(cfg config.Common, log *slog.Logger, m *metrics.Metrics) (http.Handler, error) {
	client, err := apod.New(apod.Config{
		BaseURL:          cfg.APODBaseURL,
		Path:             cfg.APODPath,
		Backend:          cfg.BackendName,
		CredentialHeader: cfg.CredentialHeader,
		UserAgent:        userAgent(cfg.Version),
		Timeout:          cfg.UpstreamTimeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create upstream client: %w", err)
	}

	return httpapi.NewServer(client, httpapi.Options{
		APIKeyHeader:     cfg.APIKeyHeader,
		CredentialHeader: cfg.CredentialHeader,
		Logger:           log,
		Metrics:          m,
	}), nil
}

func userAgent(version string) string {
	if version == "" {
		return "apod-edge"
	}
	return "apod-edge/" + version
}
