// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package api

// JWTHeader is JWT header. GitHub apps always use RS256.
type JWTHeader struct {
	Type string `json:"typ"`
	Alg  string `json:"alg"`
}

// EncodedJWTHeader is base64url encoded JWT header of every app JWT.
// JSON object keys are sorted, thus encoding is stable.
const EncodedJWTHeader = "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9"
