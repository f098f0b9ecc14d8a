// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// maxJWTValidity is the maximum validity of a JWT accepted by GitHub.
const maxJWTValidity = 10 * time.Minute

func newJWTCmd(root *rootOptions) *cobra.Command {
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "jwt",
		Short: "Print a JWT to authenticate as the app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if duration <= 0 || duration > maxJWTValidity {
				return fmt.Errorf("duration must be between 1s and %s: %s", maxJWTValidity, duration)
			}

			app, err := root.newApp(cmd)
			if err != nil {
				return err
			}

			token, err := app.MintJWT(duration)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", time.Minute, "validity of the JWT")
	return cmd
}
