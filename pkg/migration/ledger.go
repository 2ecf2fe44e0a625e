package migration

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/logger"
	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/snyk"
	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/utils"
)

// maxReasonLength bounds failure reasons built from raw API response bodies.
const maxReasonLength = 512

// Bucket classifies the outcome of processing one target.
type Bucket string

const (
	BucketMigrated Bucket = "migrated"
	BucketFailed   Bucket = "failed"
	BucketIgnored  Bucket = "ignored"
)

// Reasons attached to ignored and dry-run outcomes.
const (
	ReasonPublicTarget             = "public-target"
	ReasonConflictingTarget        = "conflicting-target"
	ReasonNotInAllowedOrganization = "not-in-allowed-organization"
	ReasonAlreadyMigrated          = "already-migrated"
	ReasonDryRun                   = "dry-run"
)

// TargetMigrator issues the migration mutation for a single target and
// reports the raw HTTP outcome.
type TargetMigrator interface {
	MigrateTarget(ctx context.Context, orgID, targetID string) (status int, body string, err error)
}

type outcome struct {
	bucket Bucket
	target snyk.Target
	reason string
}

// Ledger accumulates per-target outcomes for one run. A target id holds at
// most one outcome; later writes overwrite earlier ones. The ledger is owned
// by the run orchestrator and discarded after the summary is emitted.
type Ledger struct {
	runID    string
	outcomes map[string]outcome
	order    []string
}

// NewLedger creates an empty ledger with a fresh run id.
func NewLedger() *Ledger {
	return &Ledger{
		runID:    uuid.NewString(),
		outcomes: make(map[string]outcome),
	}
}

// RunID returns the unique identifier of this run.
func (l *Ledger) RunID() string {
	return l.runID
}

// Record stores the outcome for a target, replacing any earlier outcome
// recorded under the same target id.
func (l *Ledger) Record(bucket Bucket, target snyk.Target, reason string) {
	if _, seen := l.outcomes[target.ID]; !seen {
		l.order = append(l.order, target.ID)
	}
	l.outcomes[target.ID] = outcome{bucket: bucket, target: target, reason: reason}
}

// DryRun marks every target as migrated without touching the remote API.
func (l *Ledger) DryRun(targets []snyk.Target) {
	for _, target := range targets {
		logger.Info("Would migrate target", "target", target.LogLine())
		l.Record(BucketMigrated, target, ReasonDryRun)
	}
}

// Deploy migrates each target through the hidden API and records the
// outcome: 200 is migrated, 409 means a conflicting target already exists,
// anything else is a failure. A failed mutation is recorded and the batch
// continues with the next target.
func (l *Ledger) Deploy(ctx context.Context, migrator TargetMigrator, orgID string, targets []snyk.Target) {
	for _, target := range targets {
		status, body, err := migrator.MigrateTarget(ctx, orgID, target.ID)
		switch {
		case err != nil:
			logger.Error("Failed to migrate target", "target", target.LogLine(), "error", err)
			l.Record(BucketFailed, target, err.Error())
		case status == http.StatusOK:
			logger.Info("Migrated target to github-cloud-app",
				"target_id", target.ID, "name", target.Attributes.DisplayName)
			l.Record(BucketMigrated, target, "migrated")
		case status == http.StatusConflict:
			logger.Info("Target already migrated, skipping", "target", target.LogLine())
			l.Record(BucketIgnored, target, ReasonAlreadyMigrated)
		default:
			logger.Error("Error migrating target",
				"target", target.LogLine(), "status", status, "response", body)
			l.Record(BucketFailed, target, fmt.Sprintf("unexpected status %d: %s", status, utils.TruncateText(body, maxReasonLength)))
		}
	}
}

// Summary holds the per-bucket totals and detail lines of a finished run.
type Summary struct {
	RunID    string
	Migrated int
	Failed   int
	Ignored  int
	Lines    []string
}

// Summarize produces the per-bucket counts and per-target detail lines,
// grouped migrated first, then failed, then ignored. Pure read.
func (l *Ledger) Summarize() Summary {
	summary := Summary{RunID: l.runID}

	for _, bucket := range []Bucket{BucketMigrated, BucketFailed, BucketIgnored} {
		for _, id := range l.order {
			o := l.outcomes[id]
			if o.bucket != bucket {
				continue
			}
			summary.Lines = append(summary.Lines, formatOutcome(o))
			switch bucket {
			case BucketMigrated:
				summary.Migrated++
			case BucketFailed:
				summary.Failed++
			case BucketIgnored:
				summary.Ignored++
			}
		}
	}

	return summary
}

func formatOutcome(o outcome) string {
	switch o.bucket {
	case BucketMigrated:
		if o.reason == ReasonDryRun {
			return fmt.Sprintf("Migrated (dry-run): %s", o.target.LogLine())
		}
		return fmt.Sprintf("Migrated: %s", o.target.LogLine())
	case BucketFailed:
		return fmt.Sprintf("Failed: %s: %s", o.target.LogLine(), o.reason)
	default:
		return fmt.Sprintf("Ignored (%s): %s", o.reason, o.target.LogLine())
	}
}
