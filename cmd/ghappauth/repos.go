// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v69/github"
	"github.com/spf13/cobra"
	"github.com/tprasadtp/ghappauth"
)

// listPerPage is page size used when listing repositories.
const listPerPage = 100

func newReposCmd(root *rootOptions) *cobra.Command {
	var installationID uint32
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List repositories accessible to the installation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, installation, err := root.installation(cmd, installationID)
			if err != nil {
				return err
			}

			client, err := newGitHubClient(app, installation.Refreshing(ghappauth.TokenRequest{}))
			if err != nil {
				return err
			}

			opts := &github.ListOptions{PerPage: listPerPage}
			for {
				repos, resp, err := client.Apps.ListRepos(cmd.Context(), opts)
				if err != nil {
					return fmt.Errorf("failed to list repositories: %w", err)
				}

				for _, repo := range repos.Repositories {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", repo.GetID(), repo.GetFullName())
				}

				if resp.NextPage == 0 {
					return nil
				}
				opts.Page = resp.NextPage
			}
		},
	}
	installationIDVar(cmd.Flags(), &installationID)
	return cmd
}

// newGitHubClient returns a go-github client authenticated as the installation,
// using the same API endpoint as the app.
func newGitHubClient(app *ghappauth.App, installation *ghappauth.RefreshingInstallation) (*github.Client, error) {
	client := github.NewClient(installation.Client())
	client.UserAgent = app.UserAgent()

	endpoint := app.Endpoint()
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	client.BaseURL = u
	return client, nil
}
