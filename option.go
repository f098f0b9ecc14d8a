// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package ghappauth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

// Options takes a variadic slice of [Option] and returns
// a single [Option] which includes all the given options.
// This is useful for sharing presets. If conflicting options
// are specified, last one specified wins. As a special case,
// if no options are specified or all specified options are nil,
// this will return nil.
func Options(options ...Option) Option {
	nils := 0
	for i := range options {
		if options[i] == nil {
			nils++
		}
	}
	if len(options) == nils {
		return nil
	}

	return &funcOption{
		f: func(app *App) error {
			var err error
			for i := range options {
				if options[i] != nil {
					err = errors.Join(err, options[i].apply(app))
				}
			}
			return err
		},
	}
}

// Option is option to apply for [App].
type Option interface {
	apply(app *App) error
}

// funcOption wraps a function that is applied to the App
// during its initial configuration. It implements [Option]
// interface.
type funcOption struct {
	f func(*App) error
}

func (opt *funcOption) apply(app *App) error {
	return opt.f(app)
}

// WithEndpoint configures [App] to use custom REST API(v3) endpoint
// for creating installation access tokens. This is useful for
// GitHub Enterprise Server and for testing against a mock server.
//
// When not specified or empty, "https://api.github.com" is used.
func WithEndpoint(endpoint string) Option {
	if endpoint == "" {
		return nil
	}
	return &funcOption{
		f: func(app *App) error {
			u, err := url.Parse(endpoint)
			if err != nil {
				return fmt.Errorf("invalid endpoint url: %w", err)
			}

			switch u.Scheme {
			case "http", "https":
			default:
				return fmt.Errorf("invalid url scheme : %s (%s)", u.Scheme, endpoint)
			}

			if u.Host == "" {
				return fmt.Errorf("endpoint url has no host: %s", endpoint)
			}

			if u.Fragment != "" || u.RawQuery != "" {
				return fmt.Errorf("endpoint cannot have fragments or queries: %s", endpoint)
			}

			app.baseURL = u
			return nil
		},
	}
}

// WithHTTPClient configures [App] to use client for token requests.
// Client's timeout (if any) applies to each token request.
//
// When not specified, a client without timeout using [http.DefaultTransport]
// is used.
func WithHTTPClient(client *http.Client) Option {
	if client == nil {
		return nil
	}
	return &funcOption{
		f: func(app *App) error {
			app.client = client
			return nil
		},
	}
}

// WithRoundTripper configures [App] to use next as [http.RoundTripper]
// for token requests. This can be used to add logging, proxies or custom
// TLS configuration. If used together with [WithHTTPClient], round tripper
// replaces client's transport.
func WithRoundTripper(next http.RoundTripper) Option {
	if next == nil {
		return nil
	}
	return &funcOption{
		f: func(app *App) error {
			app.next = next
			return nil
		},
	}
}

// WithLogger configures logger. By default, nothing is logged.
//
// Private key, JWT and installation access tokens are never logged.
func WithLogger(logger *slog.Logger) Option {
	if logger == nil {
		return nil
	}
	return &funcOption{
		f: func(app *App) error {
			app.logger = logger
			return nil
		},
	}
}
