// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

var (
	_ json.Marshaler   = (*Timestamp)(nil)
	_ json.Unmarshaler = (*Timestamp)(nil)
)

// Timestamp represents a time returned by GitHub API.
//
// GitHub API mostly uses RFC-3339 strings, but some endpoints return
// unix timestamps in seconds or milliseconds. Timestamp accepts all of them
// and always marshals to RFC-3339.
type Timestamp struct {
	time.Time
}

// MarshalJSON implements [json.Marshaler].
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.UTC().Format(time.RFC3339))), nil
}

// UnmarshalJSON implements [json.Unmarshaler].
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	// Quoted values must be RFC-3339 timestamps.
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
		v, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
		t.Time = v
		return nil
	}

	i, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid unix timestamp: %w", err)
	}

	// Values which are too far in the future are in milliseconds.
	v := time.Unix(i, 0)
	if v.Year() > 3000 {
		v = time.UnixMilli(i)
	}
	t.Time = v
	return nil
}

// Equal reports whether t and u are equal based on [time.Time.Equal].
func (t Timestamp) Equal(u Timestamp) bool {
	return t.Time.Equal(u.Time)
}
