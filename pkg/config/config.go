package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/snyk"
)

// GlobalConfig holds settings shared by every subcommand.
type GlobalConfig struct {
	SnykToken string
	Tenant    string
	LogLevel  string
}

// MigrateConfig holds the migrate subcommand settings.
type MigrateConfig struct {
	Origin     string
	AllOrigins bool
	AllOrgs    bool
	OrgID      string
	OrgSlug    string
	GitHubOrgs []string
	DryRun     bool
	Timeout    time.Duration
}

// ValidTenants lists the accepted --tenant values; the empty string is the
// default US tenant.
var ValidTenants = []string{"", "au", "eu"}

// Validate checks the global settings before any network call is made.
func (c *GlobalConfig) Validate() error {
	if c.SnykToken == "" {
		return errors.New("snyk token is required, pass --snyk-token or set SNYK_TOKEN")
	}
	if !slices.Contains(ValidTenants, c.Tenant) {
		return fmt.Errorf("--tenant must be one of %q", ValidTenants)
	}
	return nil
}

// Validate checks the migrate settings before any network call is made.
func (c *MigrateConfig) Validate() error {
	if !c.AllOrgs && c.OrgID == "" && c.OrgSlug == "" {
		return errors.New("--org-id or --org-slug must be provided for single org migration if --all-orgs is not set")
	}
	if !c.AllOrigins {
		if c.Origin == "" {
			return errors.New("--origin must be provided when --all-origins is not set")
		}
		if !slices.Contains(snyk.MigratableOrigins, c.Origin) {
			return fmt.Errorf("--origin must be one of %q", snyk.MigratableOrigins)
		}
	}
	return nil
}

// AllowedOrigins resolves the configured origin selection to the list of
// integration types whose targets will be migrated.
func (c *MigrateConfig) AllowedOrigins() []string {
	if c.AllOrigins {
		return snyk.MigratableOrigins
	}
	return []string{c.Origin}
}
