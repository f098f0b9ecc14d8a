// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package ghappauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tprasadtp/ghappauth/internal/api"
)

// exchangeJWTValidity is validity of the JWT minted for each token request.
const exchangeJWTValidity = 60 * time.Second

// Installation creates installation access tokens for a single
// installation of a GitHub app. Use [App.Installation] to create one.
//
// Every call to [Installation.AccessToken] or [Installation.InstallationToken]
// requests a new token. Use [Installation.Refreshing] to re-use tokens.
type Installation struct {
	app      *App
	id       uint32
	tokenURL string
}

func newInstallation(app *App, id uint32) *Installation {
	return &Installation{
		app: app,
		id:  id,
		tokenURL: app.baseURL.JoinPath(
			api.AccessTokensPath(strconv.FormatUint(uint64(id), 10))...,
		).String(),
	}
}

// InstallationID returns the installation id.
func (i *Installation) InstallationID() uint32 {
	return i.id
}

// AppID returns the GitHub app id.
func (i *Installation) AppID() uint32 {
	return i.app.id
}

// AccessToken returns a new installation access token for the request.
func (i *Installation) AccessToken(ctx context.Context, req TokenRequest) (string, error) {
	token, err := i.InstallationToken(ctx, req)
	if err != nil {
		return "", err
	}
	return token.Token, nil
}

// InstallationToken returns a new installation access token for the request,
// along with its expiry and permissions granted to it. This always returns
// a new token.
//
// No retries are attempted. Errors returned match one of [ErrClient],
// [ErrParseKey], [ErrGenerateJWT], [ErrDecodeAccessTokenResponse],
// [ErrInstallationRequest] or [ErrPermissions].
func (i *Installation) InstallationToken(ctx context.Context, req TokenRequest) (InstallationToken, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := req.validate(); err != nil {
		return InstallationToken{}, err
	}

	buf, err := json.Marshal(req)
	if err != nil {
		return InstallationToken{},
			fmt.Errorf("ghappauth(token): failed to marshal token request: %w", err)
	}

	logger := i.app.logger.With(
		slog.Uint64("app_id", uint64(i.app.id)),
		slog.Uint64("installation_id", uint64(i.id)),
	)
	logger.InfoContext(ctx, "Requesting installation access token", slog.Any("request", req))

	// A fresh short-lived JWT is minted for every request.
	bearer, err := i.app.MintJWT(exchangeJWTValidity)
	if err != nil {
		return InstallationToken{}, err
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, i.tokenURL, bytes.NewReader(buf))
	if err != nil {
		return InstallationToken{}, fmt.Errorf("%w: %w", ErrClient, err)
	}

	r.Header.Set(api.AuthzHeader, api.AuthzHeaderValue(bearer))
	r.Header.Set(api.UAHeader, i.app.ua)
	r.Header.Set(api.ContentTypeHeader, api.ContentTypeJSON)
	r.Header.Set(api.AcceptHeader, api.AcceptHeaderValue)
	r.Header.Set(api.VersionHeader, api.VersionHeaderValue)

	resp, err := i.app.client.Do(r)
	if err != nil {
		return InstallationToken{}, fmt.Errorf("%w: %w", ErrClient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		reqErr := &InstallationRequestError{StatusCode: resp.StatusCode}

		// Try to decode error message if possible.
		// GitHub API error response JSON is inconsistent.
		data, _ := io.ReadAll(resp.Body)
		errResp := api.ErrorResponse{}
		if json.Unmarshal(data, &errResp) == nil {
			reqErr.Message = errResp.Message
		}

		logger.ErrorContext(ctx, "Failed to request installation access token",
			slog.Int("status", resp.StatusCode))
		return InstallationToken{}, reqErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return InstallationToken{}, fmt.Errorf("%w: %w", ErrClient, err)
	}

	tokenResp := api.InstallationTokenResponse{}
	err = json.Unmarshal(data, &tokenResp)
	if err == nil {
		switch {
		case tokenResp.Token == "":
			err = errors.New("missing token")
		case tokenResp.ExpiresAt == nil || tokenResp.ExpiresAt.IsZero():
			err = errors.New("missing expires_at")
		}
	}

	if err != nil {
		logger.ErrorContext(ctx, "Failed to decode installation access token response body",
			slog.String("error", err.Error()))
		return InstallationToken{}, fmt.Errorf("%w: %w", ErrDecodeAccessTokenResponse, err)
	}

	token := newInstallationToken(&tokenResp)
	token.Server = i.app.baseURL.String()
	token.AppID = i.app.id
	token.InstallationID = i.id

	logger.DebugContext(ctx, "Created installation access token", slog.Any("token", token))
	return token, nil
}

// Refreshing returns a [RefreshingInstallation] which re-uses installation access
// tokens for the request until they are about to expire. Request is copied and
// cannot be changed afterwards.
//
// Refreshing authenticator takes over the installation. Do not use both
// in parallel for the same installation and request.
func (i *Installation) Refreshing(req TokenRequest) *RefreshingInstallation {
	return newRefreshingInstallation(i, req.clone())
}
