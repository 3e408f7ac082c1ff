package httpapi

import (
	"io"
	"net/http"
	"time"

	"github.com/DeafMist/apod-edge/internal/models"
	"github.com/DeafMist/apod-edge/internal/processing"
)

// Response header names published for the selected item.
const (
	HeaderDate        = "apod-date"
	HeaderTitle       = "apod-title"
	HeaderHDURL       = "apod-hdurl"
	HeaderURL         = "apod-url"
	HeaderRequestTime = "total-apod-request-time"
)

const (
	contentTypeHTML  = "text/html; charset=utf-8"
	contentTypePlain = "text/plain; charset=utf-8"
	allowedMethods   = "GET, HEAD, PURGE"
)

// response is the fully built outbound response. It is written exactly once.
type response struct {
	status int
	header http.Header
	body   string
}

func (resp response) write(w http.ResponseWriter) {
	h := w.Header()
	for k, v := range resp.header {
		h[k] = v
	}
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}

func textResponse(status int, body string) response {
	h := http.Header{}
	h.Set("Content-Type", contentTypePlain)
	return response{status: status, header: h, body: body}
}

func methodNotAllowed() response {
	resp := textResponse(http.StatusMethodNotAllowed, "This method is not allowed\n")
	resp.header.Set("Allow", allowedMethods)
	return resp
}

func itemResponse(item *models.FeedItem, elapsed time.Duration) response {
	h := http.Header{}
	h.Set("Content-Type", contentTypeHTML)
	h.Set(HeaderDate, processing.HeaderValue(item.Date))
	h.Set(HeaderTitle, processing.HeaderValue(item.Title))
	h.Set(HeaderHDURL, processing.OptionalHeaderValue(item.HDURL))
	h.Set(HeaderURL, processing.OptionalHeaderValue(item.URL))
	h.Set(HeaderRequestTime, processing.ElapsedHeaderValue(elapsed))
	return response{status: http.StatusOK, header: h, body: item.Explanation}
}
