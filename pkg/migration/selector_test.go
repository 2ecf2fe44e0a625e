package migration

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/snyk"
)

type fakeLister struct {
	targets map[string][]snyk.Target // keyed by origin
	err     error
	calls   []string
}

func (f *fakeLister) TargetsByOrigin(ctx context.Context, orgID, origin string) ([]snyk.Target, error) {
	f.calls = append(f.calls, origin)
	if f.err != nil {
		return nil, f.err
	}
	return f.targets[origin], nil
}

func target(id, name, url string, private bool) snyk.Target {
	return snyk.Target{
		ID: id,
		Attributes: snyk.TargetAttributes{
			DisplayName: name,
			URL:         url,
			IsPrivate:   private,
		},
	}
}

var githubIntegrations = snyk.Integrations{
	"github":           "intg-gh",
	"github-cloud-app": "intg-app",
}

func TestSelectMigratableRequiresCloudAppIntegration(t *testing.T) {
	lister := &fakeLister{}
	ledger := NewLedger()

	_, err := SelectMigratable(context.Background(), lister, ledger, "org-1",
		snyk.Integrations{"github": "intg-gh"}, []string{"github"}, nil)

	require.ErrorIs(t, err, ErrCloudAppNotConfigured)
	assert.Empty(t, lister.calls, "no targets should be fetched without the cloud app integration")
}

func TestSelectMigratableSkipsAbsentOrigins(t *testing.T) {
	lister := &fakeLister{targets: map[string][]snyk.Target{
		"github": {target("t-1", "acme/a", "https://github.com/acme/a", true)},
	}}
	ledger := NewLedger()

	migratable, err := SelectMigratable(context.Background(), lister, ledger, "org-1",
		githubIntegrations, []string{"github", "github-enterprise"}, nil)

	require.NoError(t, err)
	require.Len(t, migratable, 1)
	// github-enterprise is allowed but not configured, so only the cloud app
	// index fetch and the github fetch happen.
	assert.Equal(t, []string{"github-cloud-app", "github"}, lister.calls)
}

func TestSelectMigratableClassification(t *testing.T) {
	migrated := []snyk.Target{
		target("m-1", "acme/migrated", "https://github.com/acme/migrated", true),
		target("m-2", "acme/renamed", "https://github.com/acme/old-url", true),
	}

	tests := []struct {
		name       string
		candidate  snyk.Target
		wantReason string // empty means migratable
	}{
		{
			name:       "public target is ignored regardless of conflicts",
			candidate:  target("t-1", "acme/migrated", "https://github.com/acme/migrated", false),
			wantReason: ReasonPublicTarget,
		},
		{
			name:       "display name conflict even when URL differs",
			candidate:  target("t-2", "acme/migrated", "https://github.com/acme/somewhere-else", true),
			wantReason: ReasonConflictingTarget,
		},
		{
			name:       "URL conflict against any migrated entry",
			candidate:  target("t-3", "acme/fresh-name", "https://github.com/acme/old-url", true),
			wantReason: ReasonConflictingTarget,
		},
		{
			name:      "private target without conflicts is migratable",
			candidate: target("t-4", "acme/widget", "https://github.com/acme/widget", true),
		},
		{
			name:      "target without URL is matched by name only",
			candidate: target("t-5", "acme/no-url", "", true),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &fakeLister{targets: map[string][]snyk.Target{
				"github-cloud-app": migrated,
				"github":           {tt.candidate},
			}}
			ledger := NewLedger()

			migratable, err := SelectMigratable(context.Background(), lister, ledger, "org-1",
				githubIntegrations, []string{"github"}, nil)
			require.NoError(t, err)

			if tt.wantReason == "" {
				require.Len(t, migratable, 1)
				assert.Equal(t, tt.candidate.ID, migratable[0].ID)
				assert.Empty(t, ledger.outcomes)
				return
			}

			assert.Empty(t, migratable)
			outcome, ok := ledger.outcomes[tt.candidate.ID]
			require.True(t, ok, "expected an ignore outcome for %s", tt.candidate.ID)
			assert.Equal(t, BucketIgnored, outcome.bucket)
			assert.Equal(t, tt.wantReason, outcome.reason)
		})
	}
}

func TestSelectMigratableGitHubOrgAllowlist(t *testing.T) {
	candidates := []snyk.Target{
		target("t-1", "acme/widget", "https://github.com/acme/widget", true),
		target("t-2", "other/widget", "https://github.com/other/widget", true),
		target("t-3", "acme/named-only", "", true),
	}
	lister := &fakeLister{targets: map[string][]snyk.Target{"github": candidates}}

	t.Run("empty allowlist means no restriction", func(t *testing.T) {
		ledger := NewLedger()
		migratable, err := SelectMigratable(context.Background(), lister, ledger, "org-1",
			githubIntegrations, []string{"github"}, nil)
		require.NoError(t, err)
		assert.Len(t, migratable, 3)
		assert.Empty(t, ledger.outcomes)
	})

	t.Run("allowlist filters by parsed organization", func(t *testing.T) {
		ledger := NewLedger()
		migratable, err := SelectMigratable(context.Background(), lister, ledger, "org-1",
			githubIntegrations, []string{"github"}, []string{"acme"})
		require.NoError(t, err)

		require.Len(t, migratable, 2)
		assert.Equal(t, "t-1", migratable[0].ID)
		assert.Equal(t, "t-3", migratable[1].ID)

		outcome, ok := ledger.outcomes["t-2"]
		require.True(t, ok)
		assert.Equal(t, ReasonNotInAllowedOrganization, outcome.reason)
	})
}

func TestSelectMigratablePropagatesFetchErrors(t *testing.T) {
	lister := &fakeLister{err: fmt.Errorf("connection refused")}
	ledger := NewLedger()

	_, err := SelectMigratable(context.Background(), lister, ledger, "org-1",
		githubIntegrations, []string{"github"}, nil)
	require.Error(t, err)
}
