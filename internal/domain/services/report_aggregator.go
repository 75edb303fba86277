package services

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
	"github.com/ochairo/pagedoctor/internal/domain/interfaces/services"
)

// ownerKey is the coarse join key between findings and ownership records.
// Two libraries with the same file name under one ABI share an owner.
type ownerKey struct {
	abi      string
	fileName string
}

// reportAggregator implements ReportAggregator with pure business logic
type reportAggregator struct {
	now func() time.Time
}

// NewReportAggregator creates a new report aggregator
func NewReportAggregator() services.ReportAggregator {
	return &reportAggregator{now: time.Now}
}

// Aggregate joins findings with owners and computes the verdict.
// Every finding produces exactly one row, in input order.
func (a *reportAggregator) Aggregate(
	findings []entities.Finding,
	owners []entities.OwnershipRecord,
	policy entities.ReportPolicy,
) *entities.ReportResult {
	index := buildOwnerIndex(owners)
	excluded := lo.SliceToMap(policy.ABIExclusions, func(abi string) (string, struct{}) {
		return abi, struct{}{}
	})

	result := &entities.ReportResult{
		GeneratedAt: a.now(),
		Rows:        make([]entities.AggregatedRow, 0, len(findings)),
		Verdict:     entities.VerdictPass,
	}

	for _, finding := range findings {
		row := entities.AggregatedRow{
			Finding:   finding,
			Owner:     entities.UnknownOwner,
			OwnerKind: entities.SourceKindUnknown,
		}

		abi := finding.ABI
		if abi == "" {
			abi = DetectABI(finding.EntryPath)
			row.ABI = abi
		}
		if rec, ok := index[ownerKey{abi: abi, fileName: LibraryFileName(finding.EntryPath)}]; ok {
			row.Owner = rec.OwnerCoordinate
			row.OwnerKind = rec.SourceKind
		}

		if !finding.Compatible {
			row.Remediation = a.Remediation(row.Owner, row.OwnerKind, policy.Threshold)
			result.Incompatible++
			if _, skip := excluded[abi]; !skip {
				result.ViolationCount++
			}
		}

		result.Rows = append(result.Rows, row)
	}

	if policy.FailOnViolation && result.ViolationCount > 0 {
		result.Verdict = entities.VerdictFail
	}

	return result
}

// Remediation returns the hint shown for an incompatible library
func (a *reportAggregator) Remediation(owner string, kind entities.SourceKind, threshold uint64) string {
	if threshold == 0 {
		threshold = entities.DefaultMaxAlign
	}
	label := pageSizeLabel(threshold)

	switch kind {
	case entities.SourceKindModule:
		return fmt.Sprintf("Contact module owner %s: rebuild the native library with %s p_align (-Wl,-z,max-page-size=%d) or adjust linker flags to align segments.",
			owner, label, threshold)
	case entities.SourceKindDependency:
		return fmt.Sprintf("Open an issue with dependency %s and request %s p_align aligned builds.", owner, label)
	default:
		return fmt.Sprintf("Unknown owner. Rebuild the native library with p_align >= %d or contact the binary vendor.", threshold)
	}
}

// buildOwnerIndex keys records by (abi, file name); later records win
func buildOwnerIndex(owners []entities.OwnershipRecord) map[ownerKey]entities.OwnershipRecord {
	index := make(map[ownerKey]entities.OwnershipRecord, len(owners))
	for _, rec := range owners {
		if rec.OwnerCoordinate == "" || rec.FilePath == "" {
			continue
		}
		key := ownerKey{abi: DetectABI(rec.FilePath), fileName: LibraryFileName(rec.FilePath)}
		index[key] = rec
	}
	return index
}

func pageSizeLabel(threshold uint64) string {
	if threshold%1024 == 0 {
		return fmt.Sprintf("%dKB", threshold/1024)
	}
	return fmt.Sprintf("%d-byte", threshold)
}
