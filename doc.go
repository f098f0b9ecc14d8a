// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

// Package ghappauth obtains installation access tokens for GitHub apps.
//
// [App] mints JWTs signed by the app's private key. [Installation] exchanges
// them for installation access tokens and [RefreshingInstallation] keeps
// a token cached until it is about to expire.
//
//	app, err := ghappauth.NewApp(appID, privateKeyPEM, "my-app/v1")
//	if err != nil {
//		return err
//	}
//
//	installation := app.Installation(installationID)
//	refreshing := installation.Refreshing(ghappauth.TokenRequest{
//		Permissions: &ghappauth.Permissions{
//			Contents: ghappauth.Read,
//		},
//	})
//
//	// Returns same token until it is about to expire.
//	token, err := refreshing.AccessToken(ctx)
//
//	// Or use an http.Client which adds the token to all API requests.
//	client := refreshing.Client()
package ghappauth
