// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package ghappauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tprasadtp/ghappauth/internal/api"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

var (
	_ http.RoundTripper  = (*transport)(nil)
	_ oauth2.TokenSource = (*tokenSource)(nil)
	_ slog.LogValuer     = (*cachedToken)(nil)
)

// SkewMargin is subtracted from expiry reported by the API before caching
// installation access tokens. It absorbs clock skew between client and server
// and latency of requests made with the token.
const SkewMargin = 5 * time.Minute

// cachedToken is an installation access token with expiry already
// adjusted by [SkewMargin]. It is never modified once created.
type cachedToken struct {
	accessToken string
	expiresAt   time.Time
}

func newCachedToken(token InstallationToken) *cachedToken {
	return &cachedToken{
		accessToken: token.Token,
		expiresAt:   token.Exp.Add(-SkewMargin),
	}
}

// LogValue implements [log/slog.LogValuer].
func (t *cachedToken) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("token", "REDACTED"),
		slog.Time("exp", t.expiresAt),
	)
}

// RefreshingInstallation re-uses an installation access token for a fixed
// [TokenRequest] until it is about to expire and requests a new one afterwards.
// Use [Installation.Refreshing] to create one.
//
// RefreshingInstallation is safe for concurrent use. Concurrent callers which
// observe an expired token share a single token request.
type RefreshingInstallation struct {
	installation *Installation
	request      TokenRequest
	mu           sync.RWMutex
	token        *cachedToken
	group        singleflight.Group
}

func newRefreshingInstallation(installation *Installation, req TokenRequest) *RefreshingInstallation {
	return &RefreshingInstallation{
		installation: installation,
		request:      req,
	}
}

// InstallationID returns the installation id.
func (r *RefreshingInstallation) InstallationID() uint32 {
	return r.installation.id
}

// AccessToken returns the cached installation access token if it is still valid,
// otherwise requests a new token and caches it.
//
// Errors from token requests are returned as is and cached token (if any)
// is not modified.
func (r *RefreshingInstallation) AccessToken(ctx context.Context) (string, error) {
	token, err := r.cachedOrRefresh(ctx)
	if err != nil {
		return "", err
	}
	return token.accessToken, nil
}

// current returns cached token and whether it is still valid.
func (r *RefreshingInstallation) current() (*cachedToken, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.token == nil {
		return nil, false
	}
	return r.token, r.installation.app.now().Before(r.token.expiresAt)
}

func (r *RefreshingInstallation) cachedOrRefresh(ctx context.Context) (*cachedToken, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := r.installation.app.logger
	for {
		if token, ok := r.current(); ok {
			logger.DebugContext(ctx, "Using cached installation access token",
				slog.Uint64("installation_id", uint64(r.installation.id)),
				slog.Any("token", token))
			return token, nil
		}

		// Refresh runs with context of the caller which started it. If that caller
		// gives up, request is cancelled and callers waiting on it try again.
		ch := r.group.DoChan("token", func() (any, error) {
			token, err := r.refresh(ctx)
			if err != nil && ctx.Err() != nil {
				return nil, &abandonedError{err: err}
			}
			return token, err
		})

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrClient, context.Cause(ctx))
		case res := <-ch:
			if res.Err == nil {
				return res.Val.(*cachedToken), nil //nolint:forcetypeassert // always *cachedToken
			}

			var abandoned *abandonedError
			if errors.As(res.Err, &abandoned) {
				if ctx.Err() == nil {
					continue
				}
				return nil, abandoned.err
			}
			return nil, res.Err
		}
	}
}

// abandonedError is returned by a refresh whose context ended before it completed.
// Other errors, including HTTP client timeouts, are never retried.
type abandonedError struct {
	err error
}

func (e *abandonedError) Error() string {
	return e.err.Error()
}

func (e *abandonedError) Unwrap() error {
	return e.err
}

// refresh requests a new token and caches it.
func (r *RefreshingInstallation) refresh(ctx context.Context) (*cachedToken, error) {
	// Another caller might have refreshed the token already.
	if token, ok := r.current(); ok {
		return token, nil
	}

	resp, err := r.installation.InstallationToken(ctx, r.request)
	if err != nil {
		return nil, err
	}

	token := newCachedToken(resp)
	r.mu.Lock()
	r.token = token
	r.mu.Unlock()

	r.installation.app.logger.DebugContext(ctx, "Refreshed installation access token",
		slog.Uint64("installation_id", uint64(r.installation.id)),
		slog.Any("token", token))
	return token, nil
}

// oauth2Token returns cached token as [oauth2.Token].
func (r *RefreshingInstallation) oauth2Token(ctx context.Context) (*oauth2.Token, error) {
	token, err := r.cachedOrRefresh(ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: token.accessToken,
		TokenType:   "Bearer",
		Expiry:      token.expiresAt,
	}, nil
}

// tokenSource is an [oauth2.TokenSource] bound to a context.
type tokenSource struct {
	ctx context.Context
	r   *RefreshingInstallation
}

func (s *tokenSource) Token() (*oauth2.Token, error) {
	return s.r.oauth2Token(s.ctx)
}

// TokenSource returns an [oauth2.TokenSource] which returns installation access
// tokens. Token requests use ctx. Expiry of returned tokens is already
// adjusted by [SkewMargin].
func (r *RefreshingInstallation) TokenSource(ctx context.Context) oauth2.TokenSource {
	if ctx == nil {
		ctx = context.Background()
	}
	return &tokenSource{ctx: ctx, r: r}
}

// transport is a [http.RoundTripper] which adds 'Authorization' header with
// installation access token to all requests. Requests to hosts other than the
// API endpoint are rejected, so that token is not leaked.
type transport struct {
	r    *RefreshingInstallation
	next http.RoundTripper
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("ghappauth(RoundTrip): request is nil")
	}

	host := t.r.installation.app.baseURL.Host
	if !strings.EqualFold(host, req.URL.Host) {
		return nil,
			fmt.Errorf("ghappauth(RoundTrip): host for round tripper(%s) does not match host for request(%s)",
				host, req.URL.Host)
	}

	token, err := t.r.oauth2Token(req.Context())
	if err != nil {
		return nil, err
	}

	clone := cloneRequest(req) // RoundTripper should not modify request
	token.SetAuthHeader(clone)

	// Use fallback User Agent header if it is missing.
	if clone.Header.Get(api.UAHeader) == "" {
		clone.Header.Set(api.UAHeader, t.r.installation.app.ua)
	}

	//nolint:wrapcheck // don't wrap errors returned by underlying round-tripper.
	return t.next.RoundTrip(clone)
}

// Client returns a [http.Client] which authenticates all requests to the API
// endpoint with installation access token. It uses the same transport as token
// requests. Requests to other hosts fail without being sent.
func (r *RefreshingInstallation) Client() *http.Client {
	next := r.installation.app.client.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	return &http.Client{
		Transport: &transport{r: r, next: next},
		Timeout:   r.installation.app.client.Timeout,
	}
}

// cloneRequest returns a clone of the provided *http.Request.
// The clone is a shallow copy of the struct and its shallow copy of
// Header map.
func cloneRequest(r *http.Request) *http.Request {
	// shallow copy of the struct
	clone := new(http.Request)
	*clone = *r

	// shallow copy of the Headers.
	clone.Header = maps.Clone(r.Header)
	if clone.Header == nil {
		clone.Header = make(http.Header)
	}
	return clone
}
