package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     GlobalConfig
		wantErr string
	}{
		{
			name:    "missing token",
			cfg:     GlobalConfig{},
			wantErr: "snyk token is required",
		},
		{
			name: "default tenant",
			cfg:  GlobalConfig{SnykToken: "tok"},
		},
		{
			name: "eu tenant",
			cfg:  GlobalConfig{SnykToken: "tok", Tenant: "eu"},
		},
		{
			name:    "unknown tenant",
			cfg:     GlobalConfig{SnykToken: "tok", Tenant: "us-east"},
			wantErr: "--tenant must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMigrateConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     MigrateConfig
		wantErr string
	}{
		{
			name: "single org by id, single origin",
			cfg:  MigrateConfig{OrgID: "org-1", Origin: "github"},
		},
		{
			name: "single org by slug, enterprise origin",
			cfg:  MigrateConfig{OrgSlug: "acme", Origin: "github-enterprise"},
		},
		{
			name: "all orgs and all origins",
			cfg:  MigrateConfig{AllOrgs: true, AllOrigins: true},
		},
		{
			name:    "no organization selector",
			cfg:     MigrateConfig{Origin: "github"},
			wantErr: "--org-id or --org-slug must be provided",
		},
		{
			name:    "no origin",
			cfg:     MigrateConfig{OrgID: "org-1"},
			wantErr: "--origin must be provided",
		},
		{
			name:    "origin outside the migratable set",
			cfg:     MigrateConfig{OrgID: "org-1", Origin: "github-cloud-app"},
			wantErr: "--origin must be one of",
		},
		{
			name:    "bitbucket origin rejected",
			cfg:     MigrateConfig{OrgID: "org-1", Origin: "bitbucket-cloud"},
			wantErr: "--origin must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	all := MigrateConfig{AllOrigins: true}
	assert.Equal(t, []string{"github", "github-enterprise"}, all.AllowedOrigins())

	single := MigrateConfig{Origin: "github-enterprise"}
	assert.Equal(t, []string{"github-enterprise"}, single.AllowedOrigins())
}
