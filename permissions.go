// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package ghappauth

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/tprasadtp/ghappauth/internal/api"
)

// Permission levels. These are untyped constants and can be assigned to
// any of the permission level types, as long as the level is part of its
// vocabulary. Use [Permissions.Validate] to verify.
const (
	Read  = api.PermissionLevelRead
	Write = api.PermissionLevelWrite
	Admin = api.PermissionLevelAdmin
)

// ReadOnly is a permission which can only be "read".
type ReadOnly string

// WriteOnly is a permission which can only be "write".
type WriteOnly string

// ReadWrite is a permission which can be "read" or "write".
type ReadWrite string

// ReadWriteAdmin is a permission which can be "read", "write" or "admin".
type ReadWriteAdmin string

//nolint:gochecknoglobals // vocabularies of permission level types.
var (
	readOnly       = []string{Read}
	writeOnly      = []string{Write}
	readWrite      = []string{Read, Write}
	readWriteAdmin = []string{Read, Write, Admin}
)

// Permissions are permissions which can be requested for an installation
// access token. Empty fields are omitted when encoding and the token gets
// the permission level granted to the installation (if any).
// The app must already be granted all requested permissions.
//
// To request permission to read repository contents and write issues,
//
//	ghappauth.Permissions{
//		Contents: ghappauth.Read,
//		Issues:   ghappauth.Write,
//	}
//
// https://docs.github.com/en/rest/apps/apps?apiVersion=2022-11-28#create-an-installation-access-token-for-an-app
type Permissions struct {
	// Repository permissions.
	Actions              ReadWrite      `json:"actions,omitempty"`
	Administration       ReadWrite      `json:"administration,omitempty"`
	Checks               ReadWrite      `json:"checks,omitempty"`
	Contents             ReadWrite      `json:"contents,omitempty"`
	Deployments          ReadWrite      `json:"deployments,omitempty"`
	Environments         ReadWrite      `json:"environments,omitempty"`
	Issues               ReadWrite      `json:"issues,omitempty"`
	Metadata             ReadWrite      `json:"metadata,omitempty"`
	Packages             ReadWrite      `json:"packages,omitempty"`
	Pages                ReadWrite      `json:"pages,omitempty"`
	PullRequests         ReadWrite      `json:"pull_requests,omitempty"`
	RepositoryHooks      ReadWrite      `json:"repository_hooks,omitempty"`
	RepositoryProjects   ReadWriteAdmin `json:"repository_projects,omitempty"`
	SecretScanningAlerts ReadWrite      `json:"secret_scanning_alerts,omitempty"`
	Secrets              ReadWrite      `json:"secrets,omitempty"`
	SecurityEvents       ReadWrite      `json:"security_events,omitempty"`
	SingleFile           ReadWrite      `json:"single_file,omitempty"`
	Statuses             ReadWrite      `json:"statuses,omitempty"`
	VulnerabilityAlerts  ReadWrite      `json:"vulnerability_alerts,omitempty"`
	Workflows            WriteOnly      `json:"workflows,omitempty"`

	// Organization permissions.
	Members                                 ReadWrite      `json:"members,omitempty"`
	OrganizationAdministration              ReadWrite      `json:"organization_administration,omitempty"`
	OrganizationCustomRoles                 ReadWrite      `json:"organization_custom_roles,omitempty"`
	OrganizationAnnouncementBanners         ReadWrite      `json:"organization_announcement_banners,omitempty"`
	OrganizationHooks                       ReadWrite      `json:"organization_hooks,omitempty"`
	OrganizationPersonalAccessTokens        ReadWrite      `json:"organization_personal_access_tokens,omitempty"`
	OrganizationPersonalAccessTokenRequests ReadWrite      `json:"organization_personal_access_token_requests,omitempty"`
	OrganizationPlan                        ReadOnly       `json:"organization_plan,omitempty"`
	OrganizationProjects                    ReadWriteAdmin `json:"organization_projects,omitempty"`
	OrganizationPackages                    ReadWrite      `json:"organization_packages,omitempty"`
	OrganizationSecrets                     ReadWrite      `json:"organization_secrets,omitempty"`
	OrganizationSelfHostedRunners           ReadWrite      `json:"organization_self_hosted_runners,omitempty"`
	OrganizationUserBlocking                ReadWrite      `json:"organization_user_blocking,omitempty"`
	TeamDiscussions                         ReadWrite      `json:"team_discussions,omitempty"`
}

// permissionField is a named permission, its vocabulary and a pointer to its level.
type permissionField struct {
	name  string
	vocab []string
	level *string
}

func (p *Permissions) fields() []permissionField {
	return []permissionField{
		{"actions", readWrite, (*string)(&p.Actions)},
		{"administration", readWrite, (*string)(&p.Administration)},
		{"checks", readWrite, (*string)(&p.Checks)},
		{"contents", readWrite, (*string)(&p.Contents)},
		{"deployments", readWrite, (*string)(&p.Deployments)},
		{"environments", readWrite, (*string)(&p.Environments)},
		{"issues", readWrite, (*string)(&p.Issues)},
		{"metadata", readWrite, (*string)(&p.Metadata)},
		{"packages", readWrite, (*string)(&p.Packages)},
		{"pages", readWrite, (*string)(&p.Pages)},
		{"pull_requests", readWrite, (*string)(&p.PullRequests)},
		{"repository_hooks", readWrite, (*string)(&p.RepositoryHooks)},
		{"repository_projects", readWriteAdmin, (*string)(&p.RepositoryProjects)},
		{"secret_scanning_alerts", readWrite, (*string)(&p.SecretScanningAlerts)},
		{"secrets", readWrite, (*string)(&p.Secrets)},
		{"security_events", readWrite, (*string)(&p.SecurityEvents)},
		{"single_file", readWrite, (*string)(&p.SingleFile)},
		{"statuses", readWrite, (*string)(&p.Statuses)},
		{"vulnerability_alerts", readWrite, (*string)(&p.VulnerabilityAlerts)},
		{"workflows", writeOnly, (*string)(&p.Workflows)},
		{"members", readWrite, (*string)(&p.Members)},
		{"organization_administration", readWrite, (*string)(&p.OrganizationAdministration)},
		{"organization_custom_roles", readWrite, (*string)(&p.OrganizationCustomRoles)},
		{"organization_announcement_banners", readWrite, (*string)(&p.OrganizationAnnouncementBanners)},
		{"organization_hooks", readWrite, (*string)(&p.OrganizationHooks)},
		{"organization_personal_access_tokens", readWrite, (*string)(&p.OrganizationPersonalAccessTokens)},
		{"organization_personal_access_token_requests", readWrite, (*string)(&p.OrganizationPersonalAccessTokenRequests)},
		{"organization_plan", readOnly, (*string)(&p.OrganizationPlan)},
		{"organization_projects", readWriteAdmin, (*string)(&p.OrganizationProjects)},
		{"organization_packages", readWrite, (*string)(&p.OrganizationPackages)},
		{"organization_secrets", readWrite, (*string)(&p.OrganizationSecrets)},
		{"organization_self_hosted_runners", readWrite, (*string)(&p.OrganizationSelfHostedRunners)},
		{"organization_user_blocking", readWrite, (*string)(&p.OrganizationUserBlocking)},
		{"team_discussions", readWrite, (*string)(&p.TeamDiscussions)},
	}
}

// Validate checks if all set permissions have a level valid for them.
func (p Permissions) Validate() error {
	invalid := make([]string, 0)
	for _, f := range p.fields() {
		if *f.level != "" && !slices.Contains(f.vocab, *f.level) {
			invalid = append(invalid, f.name+":"+*f.level)
		}
	}
	if len(invalid) != 0 {
		return fmt.Errorf("%w: %v", ErrPermissions, invalid)
	}
	return nil
}

// Set sets permission name to level. name is permission name as used by
// GitHub API, like "pull_requests". Level must be part of permission's
// vocabulary. An empty level un-sets the permission.
func (p *Permissions) Set(name, level string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	level = strings.ToLower(strings.TrimSpace(level))
	for _, f := range p.fields() {
		if f.name != name {
			continue
		}
		if level != "" && !slices.Contains(f.vocab, level) {
			return fmt.Errorf("%w: %s cannot be %q, must be one of %v",
				ErrPermissions, name, level, f.vocab)
		}
		*f.level = level
		return nil
	}
	return fmt.Errorf("%w: unknown permission %q", ErrPermissions, name)
}

// Map returns all set permissions as a map of permission name to level.
func (p Permissions) Map() map[string]string {
	m := make(map[string]string)
	for _, f := range p.fields() {
		if *f.level != "" {
			m[f.name] = *f.level
		}
	}
	return m
}

var permissionRegEx = regexp.MustCompile("^[a-z]([a-z_]+[a-z])?[:=](read|write|admin)$")

// ParsePermissions parses permissions in <name>:<level> or <name>=<level> format.
// Where name is permission name like "issues" and level can be one of
// "read", "write" or "admin".
//
// For example permissions to write issues and pull requests can be specified as,
//
//	ghappauth.ParsePermissions("issues:write", "pull_requests:write")
//
// If no permissions are specified, this returns nil, which requests
// all permissions granted to the installation.
func ParsePermissions(permissions ...string) (*Permissions, error) {
	if len(permissions) == 0 {
		return nil, nil
	}

	p := &Permissions{}
	invalid := make([]string, 0, len(permissions))
	for _, item := range permissions {
		item = strings.ToLower(strings.TrimSpace(item))
		if !permissionRegEx.MatchString(item) {
			invalid = append(invalid, item)
			continue
		}

		// Regex already validates separator is present.
		name, level, _ := strings.Cut(strings.ReplaceAll(item, "=", ":"), ":")
		if err := p.Set(name, level); err != nil {
			invalid = append(invalid, item)
		}
	}

	if len(invalid) != 0 {
		return nil, fmt.Errorf("%w: %v", ErrPermissions, invalid)
	}
	return p, nil
}
