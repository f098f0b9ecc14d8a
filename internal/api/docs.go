// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

// Package api holds types and constants to serialize and deserialize
// installation access token requests to and from GitHub API.
//
// Types are just enough for the access token endpoint used by the library
// and should be considered incomplete. Use [github.com/google/go-github/github]
// to access the rest of GitHub API with tokens obtained from
// [github.com/tprasadtp/ghappauth.RefreshingInstallation].
package api
