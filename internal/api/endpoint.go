// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package api

// DefaultEndpoint is default GitHub REST API endpoint.
const DefaultEndpoint = "https://api.github.com"

// AccessTokensPath returns path elements of the installation access token
// endpoint, relative to REST API base URL.
func AccessTokensPath(installationID string) []string {
	return []string{"app", "installations", installationID, "access_tokens"}
}
