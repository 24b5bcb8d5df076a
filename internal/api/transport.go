package api

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the subset of logrus the transport needs. Keeping it an interface
// lets tests inject a recording logger.
type Logger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
}

// loggingTransport logs one line per request at the transport boundary:
// endpoint, outcome, duration. Call sites never log.
type loggingTransport struct {
	next http.RoundTripper
	log  Logger
}

func withLogging(client *http.Client, log Logger) *http.Client {
	next := client.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	wrapped := *client
	wrapped.Transport = &loggingTransport{next: next, log: log}
	return &wrapped
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	entry := t.log.WithFields(logrus.Fields{
		"endpoint": req.URL.Path,
		"duration": time.Since(start).Round(time.Millisecond).String(),
	})
	if err != nil {
		entry.WithField("outcome", "network").Warn(err)
		return nil, err
	}
	entry = entry.WithField("status", resp.StatusCode)
	if resp.StatusCode >= 400 {
		entry.WithField("outcome", "error").Warn("backend rejected request")
	} else {
		entry.WithField("outcome", "ok").Debug("request completed")
	}
	return resp, nil
}
