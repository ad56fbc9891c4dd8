package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-Id"

// loggingTransport tags every outbound call with a request id and logs
// method, path, status and latency.
type loggingTransport struct {
	next http.RoundTripper
	log  zerolog.Logger
}

func newLoggingTransport(next http.RoundTripper, log zerolog.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, log: log}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	requestID := req.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set(requestIDHeader, requestID)
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	latency := time.Since(start)

	event := t.log.Debug()
	if err != nil {
		event = t.log.Warn().Err(err)
	} else if resp.StatusCode >= 500 {
		event = t.log.Error()
	} else if resp.StatusCode >= 400 {
		event = t.log.Warn()
	}

	if resp != nil {
		event = event.Int("status", resp.StatusCode)
	}
	event.
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Dur("latency", latency).
		Str("request_id", requestID).
		Msg("api request")

	return resp, err
}
