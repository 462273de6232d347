// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil builds the retrying HTTP clients used by provider calls.
package httputil

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/trip-engine/pkg/types"
)

// Retry pacing. Tests override these to avoid real sleeps.
var (
	RetryWaitMin = 500 * time.Millisecond
	RetryWaitMax = 8 * time.Second
)

const defaultRetryMax = 3

// NewClient returns an *http.Client that retries transient upstream failures
// (HTTP 429 and 5xx) with backoff and enforces the configured per-request
// timeout. A zero timeout falls back to 30s.
func NewClient(cfg types.HTTPConfig, log *logrus.Logger) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = defaultRetryMax
	rc.RetryWaitMin = RetryWaitMin
	rc.RetryWaitMax = RetryWaitMax
	rc.HTTPClient.Timeout = timeout
	if log != nil {
		rc.Logger = log
	} else {
		rc.Logger = nil
	}

	return rc.StandardClient()
}
