package scraper

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// loggingTransport logs every outgoing request and its response under a
// fresh request ID.
type loggingTransport struct {
	next http.RoundTripper
	log  logrus.FieldLogger
}

func newLoggingTransport(next http.RoundTripper, log logrus.FieldLogger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &loggingTransport{next: next, log: log}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	entry := t.log.WithFields(logrus.Fields{
		"request_id": uuid.New().String(),
		"method":     req.Method,
		"url":        req.URL.String(),
	})
	entry.Debug("outgoing request")

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		entry.WithError(err).WithField("duration", time.Since(start)).Debug("request failed")
		return nil, err
	}

	entry.WithFields(logrus.Fields{
		"status":         resp.StatusCode,
		"duration":       time.Since(start),
		"content_length": resp.ContentLength,
	}).Debug("response received")
	return resp, nil
}
