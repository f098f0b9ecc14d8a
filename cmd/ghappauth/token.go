// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tprasadtp/ghappauth"
)

type tokenOptions struct {
	installationID uint32
	permissions    []string
	repositories   []uint
	gitCredentials bool
	json           bool
}

// request builds token request from flags.
func (o *tokenOptions) request() (ghappauth.TokenRequest, error) {
	permissions, err := ghappauth.ParsePermissions(o.permissions...)
	if err != nil {
		return ghappauth.TokenRequest{}, err
	}

	req := ghappauth.TokenRequest{Permissions: permissions}
	for _, id := range o.repositories {
		if id == 0 || id > math.MaxUint32 {
			return ghappauth.TokenRequest{}, fmt.Errorf("invalid repository id: %d", id)
		}
		req.Repositories = append(req.Repositories, uint32(id))
	}
	return req, nil
}

func newTokenCmd(root *rootOptions) *cobra.Command {
	opts := &tokenOptions{}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an installation access token",
		Long: `Requests a new installation access token and prints it.

Token can be limited to a subset of permissions granted to the installation
with --permission <name>:<level>, like --permission contents:read and to a
subset of repositories with --repository-id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}

			_, installation, err := root.installation(cmd, opts.installationID)
			if err != nil {
				return err
			}

			token, err := installation.InstallationToken(cmd.Context(), req)
			if err != nil {
				return err
			}

			switch {
			case opts.json:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(token)
			case opts.gitCredentials:
				return writeGitCredentials(cmd.OutOrStdout(), token)
			default:
				_, err = fmt.Fprintln(cmd.OutOrStdout(), token.Token)
				return err
			}
		},
	}

	flags := cmd.Flags()
	installationIDVar(flags, &opts.installationID)
	flags.StringArrayVar(&opts.permissions, "permission", nil, "permission in <name>:<level> format (repeatable)")
	flags.UintSliceVar(&opts.repositories, "repository-id", nil, "repository ID (repeatable)")
	flags.BoolVar(&opts.gitCredentials, "git-credentials", false, "print token in git credential helper format")
	flags.BoolVar(&opts.json, "json", false, "print token and its metadata as JSON")
	cmd.MarkFlagsMutuallyExclusive("git-credentials", "json")
	return cmd
}

// writeGitCredentials writes token in the format expected from
// git credential helpers.
//
// See https://git-scm.com/docs/git-credential#IOFMT.
func writeGitCredentials(w io.Writer, token ghappauth.InstallationToken) error {
	host := "github.com"
	if u, err := url.Parse(token.Server); err == nil && u.Host != "" {
		host = strings.TrimPrefix(u.Host, "api.")
	}

	_, err := fmt.Fprintf(w, "protocol=https\nhost=%s\nusername=x-access-token\npassword=%s\npassword_expiry_utc=%d\n",
		host, token.Token, token.Exp.Unix())
	return err
}
