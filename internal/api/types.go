// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package api

// Repository represents a GitHub repository. This is incomplete!
type Repository struct {
	ID       *int64  `json:"id,omitempty"`
	Name     *string `json:"name,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// InstallationTokenResponse is returned by API for installation token requests.
//
// https://docs.github.com/en/rest/apps/apps?apiVersion=2022-11-28#create-an-installation-access-token-for-an-app
type InstallationTokenResponse struct {
	Token               string            `json:"token,omitempty"`
	ExpiresAt           *Timestamp        `json:"expires_at,omitempty"`
	Permissions         map[string]string `json:"permissions,omitempty"`
	RepositorySelection string            `json:"repository_selection,omitempty"`
	Repositories        []*Repository     `json:"repositories,omitempty"`
}

// ErrorResponse is returned by API for failed requests.
// Not all endpoints populate it consistently.
type ErrorResponse struct {
	Message          string `json:"message,omitempty"`
	DocumentationURL string `json:"documentation_url,omitempty"`
}
