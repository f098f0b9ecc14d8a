// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tprasadtp/ghappauth"
)

// Environment variables used when corresponding flags are not specified.
const (
	envAppID          = "GITHUB_APP_ID"
	envInstallationID = "GITHUB_APP_INSTALLATION_ID"
	envPrivateKeyFile = "GITHUB_APP_PRIVATE_KEY_FILE"
	envEndpoint       = "GITHUB_API_URL"
)

// rootOptions are flags shared by all subcommands.
type rootOptions struct {
	appID      uint32
	privateKey string
	endpoint   string
	userAgent  string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "ghappauth",
		Short: "Authenticate as a GitHub app and its installations",
		Long: `ghappauth mints JWTs for a GitHub app and exchanges them for
installation access tokens.

App ID, installation ID, private key file and API endpoint can also be
specified via GITHUB_APP_ID, GITHUB_APP_INSTALLATION_ID,
GITHUB_APP_PRIVATE_KEY_FILE and GITHUB_API_URL environment variables.`,
		Version:      version,
		SilenceUsage: true,
	}
	cmd.SetVersionTemplate(`{{printf "ghappauth version %s\n" .Version}}`)

	flags := cmd.PersistentFlags()
	flags.Uint32Var(&opts.appID, "app-id", 0, "GitHub app ID")
	flags.StringVar(&opts.privateKey, "private-key", "", "path to PEM encoded RSA private key of the app")
	flags.StringVar(&opts.endpoint, "endpoint", "", "GitHub REST API endpoint (default https://api.github.com)")
	flags.StringVar(&opts.userAgent, "user-agent", "", "user agent for API requests")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logs")

	cmd.AddCommand(
		newTokenCmd(opts),
		newJWTCmd(opts),
		newReposCmd(opts),
	)
	return cmd
}

// logger returns a logger writing to stderr if verbose logging is enabled.
func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	if !o.verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// newApp builds an app authenticator from flags, falling back to
// environment variables for flags which are not specified.
func (o *rootOptions) newApp(cmd *cobra.Command) (*ghappauth.App, error) {
	if o.appID == 0 {
		id, err := ghappauth.IDFromEnv(envAppID)
		if err != nil {
			return nil, err
		}
		o.appID = id
	}

	if o.appID == 0 {
		return nil, errors.New("app id not specified")
	}

	if o.privateKey == "" {
		o.privateKey = os.Getenv(envPrivateKeyFile)
	}

	if o.privateKey == "" {
		return nil, errors.New("private key file not specified")
	}

	if o.endpoint == "" {
		o.endpoint = os.Getenv(envEndpoint)
	}

	key, err := os.ReadFile(o.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	return ghappauth.NewApp(o.appID, key, o.userAgent,
		ghappauth.WithEndpoint(o.endpoint),
		ghappauth.WithLogger(o.logger(cmd)),
	)
}

// installationIDVar defines installation id flag for commands which
// need an installation.
func installationIDVar(flags *pflag.FlagSet, p *uint32) {
	flags.Uint32Var(p, "installation-id", 0, "installation ID")
}

// installation returns an app and its installation authenticator for installationID,
// falling back to environment variable if it is not specified.
func (o *rootOptions) installation(cmd *cobra.Command, installationID uint32) (*ghappauth.App, *ghappauth.Installation, error) {
	var err error
	if installationID == 0 {
		installationID, err = ghappauth.IDFromEnv(envInstallationID)
		if err != nil {
			return nil, nil, err
		}
	}

	if installationID == 0 {
		return nil, nil, errors.New("installation id not specified")
	}

	app, err := o.newApp(cmd)
	if err != nil {
		return nil, nil, err
	}
	return app, app.Installation(installationID), nil
}
