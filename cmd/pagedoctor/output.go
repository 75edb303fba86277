package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	orchestrators "github.com/ochairo/pagedoctor/internal/domain-orchestrators"
	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

var (
	passLabel = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	warnLabel = color.New(color.FgYellow).SprintFunc()
)

func printScan(w io.Writer, scan *orchestrators.ScanResult) {
	incompatible := 0
	for _, f := range scan.Findings {
		if !f.Compatible {
			incompatible++
		}
	}
	fmt.Fprintf(w, "Scanned %d artifact(s): %d native libraries, %d incompatible (%s)\n",
		scan.Candidates, len(scan.Findings), incompatible, scan.Duration.Round(time.Millisecond))
	printWarnings(w, scan.Err())
}

func printOwners(w io.Writer, owners *orchestrators.OwnershipResult) {
	fmt.Fprintf(w, "Resolved %d ownership record(s)\n", len(owners.Records))
	printWarnings(w, owners.Err())
}

func printReport(w io.Writer, result *orchestrators.DoctorResult) {
	report := result.Report
	for _, row := range report.Rows {
		if row.Compatible {
			continue
		}
		fmt.Fprintf(w, "  %s %s %s (%s, p_align %s) owner=%s\n",
			failLabel("✗"), row.ArtifactName, row.EntryPath, row.ABI, alignLabel(row.MaxAlign), row.Owner)
	}

	verdict := passLabel("PASS")
	if report.Verdict == entities.VerdictFail {
		verdict = failLabel("FAIL")
	}
	fmt.Fprintf(w, "\n%s  %d libraries, %d incompatible, %d violation(s)\n",
		verdict, len(report.Rows), report.Incompatible, report.ViolationCount)
	fmt.Fprintf(w, "Run:    %s\n", result.RunID)
	if result.Files != nil {
		fmt.Fprintf(w, "Report: %s\n", result.Files.CSV)
	}
}

func printWarnings(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %v\n", warnLabel("Warning:"), err)
}

// alignLabel renders an alignment as bytes with a human readable size
func alignLabel(align uint64) string {
	if align == 0 {
		return "0"
	}
	return fmt.Sprintf("%d = %s", align, humanize.IBytes(align))
}
