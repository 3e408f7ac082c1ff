package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/DeafMist/apod-edge/internal/apod"
	"github.com/DeafMist/apod-edge/internal/metrics"
	"github.com/DeafMist/apod-edge/internal/processing"
)

// ErrMissingCredential matches every MissingCredentialError.
var ErrMissingCredential = errors.New("missing credential")

// MissingCredentialError names the required inbound header that was absent.
type MissingCredentialError struct {
	Header string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing required header: %s", e.Header)
}

func (e *MissingCredentialError) Is(target error) bool {
	return target == ErrMissingCredential
}

// latestImage runs the aggregation pipeline for one request. Every error is
// turned into a response here; nothing escapes to the transport.
func (s *Server) latestImage(r *http.Request) response {
	apiKey, err := requiredHeader(r, s.apiKeyHeader)
	if err != nil {
		return s.failure(r, err)
	}
	credential, err := requiredHeader(r, s.credentialHeader)
	if err != nil {
		return s.failure(r, err)
	}

	window := processing.NewDateWindow(s.now())
	s.log.Debug("date window",
		slog.String("start_date", window.StartDate()),
		slog.String("end_date", window.EndDate()),
	)

	res, err := s.upstream.Fetch(r.Context(), apod.Query{
		APIKey:     apiKey,
		Credential: credential,
		Window:     window,
		RequestID:  middleware.GetReqID(r.Context()),
	})
	if err != nil {
		return s.failure(r, err)
	}
	s.metrics.ObserveUpstream(s.upstream.Backend(), res.Elapsed())

	items, err := processing.DecodeFeed(res.Body)
	if err != nil {
		return s.failure(r, err)
	}

	item, err := processing.SelectLatestImage(items)
	if err != nil {
		return s.failure(r, err)
	}

	s.log.Debug("selected item",
		slog.String("date", item.Date),
		slog.String("title", item.Title),
		slog.Int("candidates", len(items)),
	)
	s.metrics.CountOutcome(metrics.OutcomeOK)

	return itemResponse(item, res.Elapsed())
}

func requiredHeader(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.Header.Get(name))
	if v == "" {
		return "", &MissingCredentialError{Header: name}
	}
	return v, nil
}

// failure maps a pipeline error onto its response and records the outcome.
func (s *Server) failure(r *http.Request, err error) response {
	var (
		resp    response
		outcome string
	)

	var missing *MissingCredentialError
	switch {
	case errors.As(err, &missing):
		outcome = metrics.OutcomeMissingCredential
		resp = textResponse(http.StatusBadRequest, missing.Error()+"\n")
	case errors.Is(err, apod.ErrUpstreamUnavailable):
		outcome = metrics.OutcomeUpstreamUnavailable
		status := http.StatusBadGateway
		if apod.IsTimeout(err) {
			status = http.StatusGatewayTimeout
		}
		resp = textResponse(status, "upstream unavailable\n")
	case errors.Is(err, processing.ErrDecode):
		outcome = metrics.OutcomeDecodeError
		resp = textResponse(http.StatusBadGateway, "upstream returned an unexpected payload\n")
	case errors.Is(err, processing.ErrSelectionEmpty):
		outcome = metrics.OutcomeSelectionEmpty
		resp = textResponse(http.StatusNotFound,
			fmt.Sprintf("no image found in the last %d days\n", processing.WindowDays))
	default:
		s.log.Error("unexpected pipeline error", slog.Any("err", err))
		return textResponse(http.StatusInternalServerError, "internal error\n")
	}

	s.metrics.CountOutcome(outcome)
	s.log.Warn("aggregation failed",
		slog.String("outcome", outcome),
		slog.Int("status", resp.status),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Any("err", err),
	)
	return resp
}
