// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package ghappauth

import (
	"log/slog"
	"slices"
)

var (
	_ slog.LogValuer = (*TokenRequest)(nil)
)

// TokenRequest is a request for an installation access token limited to
// a set of permissions and repositories. Zero value requests a token with
// all permissions and repositories granted to the installation.
type TokenRequest struct {
	// Permissions requested for the token. If nil, token has all
	// permissions granted to the installation.
	Permissions *Permissions `json:"permissions,omitempty"`

	// IDs of repositories token can access. If empty, token can access
	// all repositories granted to the installation.
	Repositories []uint32 `json:"repositories,omitempty"`
}

// LogValue implements [log/slog.LogValuer].
func (r TokenRequest) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 2)
	if r.Permissions != nil {
		attrs = append(attrs, slog.Any("permissions", r.Permissions.Map()))
	}
	if len(r.Repositories) != 0 {
		attrs = append(attrs, slog.Any("repositories", r.Repositories))
	}
	return slog.GroupValue(attrs...)
}

// validate checks if request can be sent to the API.
func (r TokenRequest) validate() error {
	if r.Permissions == nil {
		return nil
	}
	return r.Permissions.Validate()
}

// clone returns a deep copy of the request.
func (r TokenRequest) clone() TokenRequest {
	v := TokenRequest{
		Repositories: slices.Clone(r.Repositories),
	}
	if r.Permissions != nil {
		p := *r.Permissions
		v.Permissions = &p
	}
	return v
}
