// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package ghappauth

import (
	"fmt"
	"net/http"
)

var (
	_ error = Error("")
	_ error = (*InstallationRequestError)(nil)
)

// Error is immutable error representation.
//
// Error strings themselves are NOT part of semver compatibility guarantees.
// Use exported symbols instead of directly using error strings.
type Error string

// Implements Error() interface.
func (e Error) Error() string {
	return string(e)
}

// Errors returned by this package. Use [errors.Is] to match them.
//
//   - [ErrClient] is returned when HTTP transport fails. Underlying
//     error is wrapped and can be inspected with [errors.Is] or [errors.As].
//   - [ErrParseKey] is returned when private key cannot be parsed
//     as RSA private key.
//   - [ErrGenerateJWT] is returned when signing the JWT fails.
//   - [ErrDecodeAccessTokenResponse] is returned when API responded with
//     201 Created, but response body is not a valid access token response.
//   - [ErrInstallationRequest] is returned when API responded with
//     non 201 status. Use [errors.As] with [InstallationRequestError]
//     to get the status code.
//   - [ErrParseEnvValue] is returned by [IDFromEnv].
//   - [ErrOptions] is returned when options are invalid.
//   - [ErrPermissions] is returned when permissions are invalid.
const (
	ErrClient                    = Error("ghappauth: failed to send request")
	ErrParseKey                  = Error("ghappauth: failed to parse private key")
	ErrGenerateJWT               = Error("ghappauth: failed to generate JWT")
	ErrDecodeAccessTokenResponse = Error("ghappauth: failed to decode access token response")
	ErrInstallationRequest       = Error("ghappauth: installation token request failed")
	ErrParseEnvValue             = Error("ghappauth: failed to parse environment variable")
	ErrOptions                   = Error("ghappauth: invalid options")
	ErrPermissions               = Error("ghappauth: invalid permissions")
)

// InstallationRequestError is returned when installation access token
// request fails with a status other than 201 Created. It matches
// [ErrInstallationRequest] with [errors.Is].
type InstallationRequestError struct {
	// HTTP status code returned by the API.
	StatusCode int

	// Error message returned by the API, if any.
	Message string
}

// Implements Error() interface.
func (e *InstallationRequestError) Error() string {
	status := fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		return fmt.Sprintf("%s: %s(%s)", ErrInstallationRequest, e.Message, status)
	}
	return fmt.Sprintf("%s: %s", ErrInstallationRequest, status)
}

// Is reports whether target is [ErrInstallationRequest].
func (e *InstallationRequestError) Is(target error) bool {
	return target == ErrInstallationRequest
}
