// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

// Package shared holds helpers shared by tests across packages.
package shared

import (
	"context"
	"net/http"
	"testing"
	"time"
)

var _ http.RoundTripper = (*RoundTripFunc)(nil)

// RoundTripFunc is an adapter to allow the use of ordinary functions as
// RoundTrippers, similar to [http.HandlerFunc].
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements the RoundTripper interface by calling f(r).
func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// TestingCtx returns a context which is cancelled when the test completes
// or when test deadline (or timeout if there is no deadline) is reached.
//
// Ideally we would set per test timeouts, but they are not available yet.
// See https://github.com/golang/go/issues/48157 for more info.
func TestingCtx(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	var ctx context.Context
	var cancel context.CancelFunc
	if ts, ok := t.Deadline(); ok {
		ctx, cancel = context.WithDeadline(context.Background(), ts)
	} else {
		if timeout <= 0 {
			t.Logf("Ignoring invalid timeout value: %s", timeout)
			timeout = 30 * time.Second
		}
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	}
	t.Cleanup(cancel)
	return ctx
}
