package migration

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/github"
	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/logger"
	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/snyk"
)

// ErrCloudAppNotConfigured is returned when an organization has no
// github-cloud-app integration to migrate into.
var ErrCloudAppNotConfigured = errors.New("github-cloud-app integration not configured")

// TargetLister fetches every target of one origin in an organization.
type TargetLister interface {
	TargetsByOrigin(ctx context.Context, orgID, origin string) ([]snyk.Target, error)
}

// migratedIndex records the display names and URLs of targets already
// imported through the github-cloud-app integration. Both sides are kept as
// sets so a match against either one flags a conflict, independent of name
// collisions among the migrated targets.
type migratedIndex struct {
	names map[string]struct{}
	urls  map[string]struct{}
}

func indexMigrated(targets []snyk.Target) migratedIndex {
	idx := migratedIndex{
		names: make(map[string]struct{}, len(targets)),
		urls:  make(map[string]struct{}, len(targets)),
	}
	for _, target := range targets {
		idx.names[target.Attributes.DisplayName] = struct{}{}
		if target.Attributes.URL != "" {
			idx.urls[target.Attributes.URL] = struct{}{}
		}
	}
	return idx
}

func (idx migratedIndex) hasName(name string) bool {
	_, ok := idx.names[name]
	return ok
}

func (idx migratedIndex) hasURL(url string) bool {
	if url == "" {
		return false
	}
	_, ok := idx.urls[url]
	return ok
}

// SelectMigratable classifies every candidate target of the allowed origins
// in one organization. Targets that cannot be migrated are recorded in the
// ledger with an ignore reason; the migratable remainder is returned in
// fetch order.
//
// The organization must already have the github-cloud-app integration set
// up, otherwise ErrCloudAppNotConfigured is returned.
func SelectMigratable(
	ctx context.Context,
	lister TargetLister,
	ledger *Ledger,
	orgID string,
	integrations snyk.Integrations,
	allowedOrigins []string,
	allowedGitHubOrgs []string,
) ([]snyk.Target, error) {
	if _, ok := integrations[snyk.OriginGitHubCloudApp]; !ok {
		logger.Error("No GitHub Cloud App integration detected, set it up before migrating targets", "org_id", orgID)
		return nil, fmt.Errorf("%w: org %s", ErrCloudAppNotConfigured, orgID)
	}

	cloudTargets, err := lister.TargetsByOrigin(ctx, orgID, snyk.OriginGitHubCloudApp)
	if err != nil {
		return nil, err
	}
	index := indexMigrated(cloudTargets)
	if len(cloudTargets) > 0 {
		logger.Info("Found existing github-cloud-app targets", "org_id", orgID, "count", len(cloudTargets))
	}

	logger.Info("Searching for targets in allowed origins", "org_id", orgID, "origins", allowedOrigins)

	var candidates []snyk.Target
	for _, origin := range allowedOrigins {
		if _, ok := integrations[origin]; !ok {
			logger.Debug("Origin integration not present, skipping", "org_id", orgID, "origin", origin)
			continue
		}
		targets, err := lister.TargetsByOrigin(ctx, orgID, origin)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, targets...)
	}

	var migratable []snyk.Target
	for _, target := range candidates {
		switch {
		case !target.Attributes.IsPrivate:
			logger.Info("Skipping public target", "org_id", orgID, "name", target.Attributes.DisplayName)
			ledger.Record(BucketIgnored, target, ReasonPublicTarget)

		case index.hasName(target.Attributes.DisplayName):
			logger.Info("Skipping target, github-cloud-app target with same name exists",
				"org_id", orgID, "name", target.Attributes.DisplayName)
			ledger.Record(BucketIgnored, target, ReasonConflictingTarget)

		case index.hasURL(target.Attributes.URL):
			logger.Info("Skipping target, github-cloud-app target with same URL exists",
				"org_id", orgID, "url", target.Attributes.URL)
			ledger.Record(BucketIgnored, target, ReasonConflictingTarget)

		case len(allowedGitHubOrgs) > 0 && !slices.Contains(allowedGitHubOrgs, github.ParseOrganization(target.Attributes.URL, target.Attributes.DisplayName)):
			logger.Info("Skipping target outside allowed GitHub organizations",
				"org_id", orgID, "name", target.Attributes.DisplayName)
			ledger.Record(BucketIgnored, target, ReasonNotInAllowedOrganization)

		default:
			migratable = append(migratable, target)
		}
	}

	return migratable, nil
}
