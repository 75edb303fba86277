// Package services defines interfaces for domain service contracts.
package services

import "github.com/ochairo/pagedoctor/internal/domain/entities"

// ReportAggregator joins findings with ownership data and decides the verdict.
// Implementations are pure: no I/O, no process termination.
type ReportAggregator interface {
	Aggregate(findings []entities.Finding, owners []entities.OwnershipRecord, policy entities.ReportPolicy) *entities.ReportResult
	Remediation(owner string, kind entities.SourceKind, threshold uint64) string
}
