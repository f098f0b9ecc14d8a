// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package ghappauth

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tprasadtp/ghappauth/internal/api"
)

var (
	_ jwt.Claims     = (*appClaims)(nil)
	_ slog.LogValuer = (*App)(nil)
)

// App authenticates as a GitHub app and creates [Installation]
// authenticators for its installations.
//
// App is immutable once created and is safe for concurrent use.
type App struct {
	id      uint32            // app ID
	key     []byte            // PEM encoded private key
	ua      string            // user agent
	baseURL *url.URL          // REST API v3 base URL
	client  *http.Client      // client for token requests
	next    http.RoundTripper // overrides client transport if not nil
	logger  *slog.Logger      // logger
	now     func() time.Time  // clock
}

// NewApp returns a new [App] for GitHub app id and its PEM encoded
// RSA private key (PKCS#1 or PKCS#8).
//
// Private key is not validated here. It is parsed whenever a JWT is minted
// and [ErrParseKey] is returned by [App.MintJWT] if it is invalid.
// If user agent is empty, a default user agent is used.
//
// NewApp only returns an error if options are invalid.
func NewApp(appID uint32, key []byte, userAgent string, opts ...Option) (*App, error) {
	app := &App{
		id:  appID,
		key: bytes.Clone(key),
		ua:  userAgent,
	}

	var err error
	for i := range opts {
		if opts[i] != nil {
			err = errors.Join(err, opts[i].apply(app))
		}
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOptions, err)
	}

	if app.ua == "" {
		app.ua = api.UAHeaderValue
	}

	if app.baseURL == nil {
		app.baseURL, _ = url.Parse(api.DefaultEndpoint)
	}

	if app.client == nil {
		app.client = &http.Client{}
	}

	// Do not modify client provided by the user.
	if app.next != nil {
		client := *app.client
		client.Transport = app.next
		app.client = &client
	}

	if app.logger == nil {
		app.logger = slog.New(slog.DiscardHandler)
	}

	if app.now == nil {
		app.now = time.Now
	}

	app.logger.Debug("Creating app authenticator", slog.Any("app", app))
	return app, nil
}

// AppID returns the GitHub app id.
func (a *App) AppID() uint32 {
	return a.id
}

// UserAgent returns the user agent used for token requests.
func (a *App) UserAgent() string {
	return a.ua
}

// Endpoint returns the REST API endpoint used for token requests.
func (a *App) Endpoint() string {
	return a.baseURL.String()
}

// LogValue implements [log/slog.LogValuer].
func (a *App) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("app_id", uint64(a.id)),
		slog.String("endpoint", a.baseURL.String()),
		slog.String("user_agent", a.ua),
		slog.String("key", "REDACTED"),
	)
}

// appClaims are JWT claims as required by GitHub app authentication.
// Issuer is encoded as an integer.
type appClaims struct {
	IssuedAt  *jwt.NumericDate `json:"iat"`
	ExpiresAt *jwt.NumericDate `json:"exp"`
	Issuer    uint32           `json:"iss"`
}

func (c *appClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return c.ExpiresAt, nil
}

func (c *appClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return c.IssuedAt, nil
}

func (c *appClaims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

func (c *appClaims) GetIssuer() (string, error) {
	return strconv.FormatUint(uint64(c.Issuer), 10), nil
}

func (c *appClaims) GetSubject() (string, error) {
	return "", nil
}

func (c *appClaims) GetAudience() (jwt.ClaimStrings, error) {
	return nil, nil
}

// MintJWT mints a new RS256 JWT valid for duration d, to authenticate as the app.
//
// GitHub rejects JWTs valid for more than 10 minutes. Negative durations are
// accepted and return an already expired JWT. Private key is parsed on
// every call.
func (a *App) MintJWT(d time.Duration) (string, error) {
	return a.mintJWT(a.now(), d)
}

func (a *App) mintJWT(now time.Time, d time.Duration) (string, error) {
	// GitHub rejects timestamps that are not an integer.
	now = now.Truncate(time.Second)
	claims := &appClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		Issuer:    a.id,
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(a.key)
	if err != nil {
		a.logger.Error("Failed to parse private key",
			slog.Uint64("app_id", uint64(a.id)),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("%w: %w", ErrParseKey, err)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		a.logger.Error("Failed to generate JWT",
			slog.Uint64("app_id", uint64(a.id)),
			slog.Time("iat", claims.IssuedAt.Time),
			slog.Time("exp", claims.ExpiresAt.Time),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("%w: %w", ErrGenerateJWT, err)
	}
	return token, nil
}

// Installation returns a new [Installation] authenticator for installation id.
// No JWT is minted and no request is made until a token is requested.
func (a *App) Installation(installationID uint32) *Installation {
	return newInstallation(a, installationID)
}
