// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package ghappauth

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// IDFromEnv parses app or installation id from environment variable key.
// If the variable is unset or empty, it returns 0 and no error.
// If the variable is not a valid id, returned error matches [ErrParseEnvValue].
func IDFromEnv(key string) (uint32, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}

	id, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrParseEnvValue, key, err)
	}
	return uint32(id), nil
}
