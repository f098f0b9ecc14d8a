// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package ghappauth

import (
	"log/slog"
	"time"

	"github.com/tprasadtp/ghappauth/internal/api"
)

var (
	_ slog.LogValuer = (*InstallationToken)(nil)
)

// InstallationToken is an installation access token from GitHub.
type InstallationToken struct {
	// Installation access token. Typically starts with "ghs_".
	Token string `json:"token" yaml:"token"`

	// GitHub API endpoint which issued the token.
	Server string `json:"server,omitempty" yaml:"server,omitempty"`

	// GitHub app ID.
	AppID uint32 `json:"app_id,omitempty" yaml:"appID,omitempty"`

	// Installation ID for the app.
	InstallationID uint32 `json:"installation_id,omitempty" yaml:"installationID,omitempty"`

	// Token exp time as reported by the API.
	Exp time.Time `json:"exp,omitempty" yaml:"exp,omitempty"`

	// Repositories which can be accessed with the token. This may be empty
	// if scoped token is not requested. In such cases, token will have access to all
	// repositories accessible by the installation.
	Repositories []string `json:"repositories,omitempty" yaml:"repositories,omitempty"`

	// RepositorySelection is "all" or "selected".
	RepositorySelection string `json:"repository_selection,omitempty" yaml:"repositorySelection,omitempty"`

	// Permissions available for the token.
	Permissions map[string]string `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}

// LogValue implements [log/slog.LogValuer].
func (t InstallationToken) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("server", t.Server),
		slog.Uint64("app_id", uint64(t.AppID)),
		slog.Uint64("installation_id", uint64(t.InstallationID)),
		slog.Any("repositories", t.Repositories),
		slog.String("token", "REDACTED"),
		slog.Time("exp", t.Exp),
		slog.Any("permissions", t.Permissions),
	)
}

// newInstallationToken builds [InstallationToken] from API response.
func newInstallationToken(resp *api.InstallationTokenResponse) InstallationToken {
	token := InstallationToken{
		Token:               resp.Token,
		Exp:                 resp.ExpiresAt.Time,
		RepositorySelection: resp.RepositorySelection,
		Permissions:         resp.Permissions,
	}

	if resp.Repositories != nil {
		token.Repositories = make([]string, 0, len(resp.Repositories))
		for _, item := range resp.Repositories {
			if item != nil && item.Name != nil {
				token.Repositories = append(token.Repositories, *item.Name)
			}
		}
	}
	return token
}
