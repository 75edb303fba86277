package entities

import (
	"fmt"
	"time"
)

// Verdict is the overall pass/fail outcome of a run
type Verdict string

const (
	// VerdictPass means no policy violation was found
	VerdictPass Verdict = "pass"
	// VerdictFail means at least one non-excluded incompatible library was found with failOnViolation set
	VerdictFail Verdict = "fail"
)

// ReportColumns is the fixed column order of every rendered report
var ReportColumns = []string{"artifact", "path", "abi", "p_align", "compatible", "owner", "remediation"}

// AggregatedRow joins a finding with its resolved owner and remediation hint
type AggregatedRow struct {
	Finding
	Owner       string
	OwnerKind   SourceKind
	Remediation string
}

// Values returns the row in ReportColumns order
func (r AggregatedRow) Values() []string {
	return []string{
		r.ArtifactName,
		r.EntryPath,
		r.ABI,
		fmt.Sprintf("%d", r.MaxAlign),
		fmt.Sprintf("%t", r.Compatible),
		r.Owner,
		r.Remediation,
	}
}

// ReportPolicy holds the settings that decide compatibility and the verdict for one run
type ReportPolicy struct {
	Threshold       uint64
	FailOnViolation bool
	ABIExclusions   []string
}

// ReportResult is the outcome of aggregating findings with ownership data
type ReportResult struct {
	RunID          string
	GeneratedAt    time.Time
	Rows           []AggregatedRow
	Verdict        Verdict
	ViolationCount int
	Incompatible   int
	CSVPath        string
}

// PolicyViolationError is returned when failOnViolation is set and violations were found
type PolicyViolationError struct {
	Count      int
	ReportPath string
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("found %d non-compliant native libraries (failOnViolation=true), see %s", e.Count, e.ReportPath)
}

// ReportFiles lists the files produced for one report
type ReportFiles struct {
	CSV      string
	Markdown string
	HTML     string
	Summary  string
}

// All returns every non-empty report path
func (f *ReportFiles) All() []string {
	var paths []string
	for _, p := range []string{f.CSV, f.Markdown, f.HTML, f.Summary} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
