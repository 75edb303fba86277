package gateways

import (
	"context"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

// FindingsStore persists one record per (artifact, entry).
// Saving the same artifact and entry twice overwrites the previous record.
type FindingsStore interface {
	Save(ctx context.Context, finding entities.Finding) error
	SaveAll(ctx context.Context, findings []entities.Finding) error
	LoadAll(ctx context.Context) ([]entities.Finding, error)
	Reset(ctx context.Context) error
}

// OwnershipStore persists the resolved ownership list of a run
type OwnershipStore interface {
	Save(ctx context.Context, records []entities.OwnershipRecord) error
	Load(ctx context.Context) ([]entities.OwnershipRecord, error)
}

// ReportWriter renders an aggregated result to its output formats
type ReportWriter interface {
	Write(ctx context.Context, result *entities.ReportResult) (*entities.ReportFiles, error)
}

// ReportUploader publishes rendered report files to remote storage
type ReportUploader interface {
	Upload(ctx context.Context, runID string, files *entities.ReportFiles) error
}

// SignatureVerifier checks a detached OpenPGP signature against a public keyring file
type SignatureVerifier interface {
	VerifyDetached(dataPath, signaturePath, keyringPath string) error
}
