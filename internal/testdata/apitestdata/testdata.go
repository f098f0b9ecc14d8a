// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

// Package apitestdata holds recorded GitHub API responses used by unit tests.
package apitestdata

import (
	_ "embed"
	"slices"
)

// AppID Test App ID.
const AppID = 145695471

// InstallationID Testdata installation ID.
const InstallationID = 42101303

// InstallationTokenExp is expires_at of [InstallationToken] in RFC-3339 format.
const InstallationTokenExp = "2016-07-11T22:14:10Z"

//go:embed installation_token.json
var installationToken []byte

// InstallationToken returns a recorded response body of a successful
// installation access token request.
//
// https://docs.github.com/en/rest/apps/apps?apiVersion=2022-11-28#create-an-installation-access-token-for-an-app
func InstallationToken() []byte {
	// Return a clone, as callers may mutate the slice.
	return slices.Clone(installationToken)
}
