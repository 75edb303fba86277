package gateways

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

const (
	csvFileName      = "final.csv"
	markdownFileName = "final.md"
	htmlFileName     = "final.html"
	summaryFileName  = "summary.json"
)

// reportSummary is the machine-readable companion of the rendered reports
type reportSummary struct {
	RunID          string    `json:"runId"`
	GeneratedAt    time.Time `json:"generatedAt"`
	Verdict        string    `json:"verdict"`
	Total          int       `json:"total"`
	Incompatible   int       `json:"incompatible"`
	ViolationCount int       `json:"violationCount"`
	CSV            string    `json:"csv"`

	Artifacts []artifactDigest `json:"artifacts"`
}

// artifactDigest identifies one scanned artifact in the summary
type artifactDigest struct {
	Name   string `json:"name"`
	SHA256 string `json:"sha256,omitempty"`
}

// markdownCell escapes the table separator inside a cell
var markdownCell = strings.NewReplacer("|", `\|`, "\n", " ")

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>16KB page size report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
tr.incompatible { background: #fdecea; }
</style>
</head>
<body>
<h1>16KB page size report</h1>
<p>Verdict: <strong>{{.Result.Verdict}}</strong>, {{.Result.Incompatible}} incompatible of {{len .Result.Rows}} libraries, {{.Result.ViolationCount}} violations.</p>
<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Result.Rows}}
<tr{{if not .Compatible}} class="incompatible"{{end}}>{{range .Values}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

// fileReportWriter renders reports into a directory
type fileReportWriter struct {
	fs  afero.Fs
	dir string
}

// NewReportWriter creates a report writer for the given output directory
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewReportWriter(fs afero.Fs, dir string) *fileReportWriter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &fileReportWriter{fs: fs, dir: dir}
}

// Write renders CSV, Markdown, HTML and the JSON summary
func (w *fileReportWriter) Write(ctx context.Context, result *entities.ReportResult) (*entities.ReportFiles, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files := &entities.ReportFiles{
		CSV:      filepath.Join(w.dir, csvFileName),
		Markdown: filepath.Join(w.dir, markdownFileName),
		HTML:     filepath.Join(w.dir, htmlFileName),
		Summary:  filepath.Join(w.dir, summaryFileName),
	}

	renderers := []struct {
		path   string
		render func(*entities.ReportResult) ([]byte, error)
	}{
		{files.CSV, renderCSV},
		{files.Markdown, renderMarkdown},
		{files.HTML, renderHTML},
		{files.Summary, func(r *entities.ReportResult) ([]byte, error) { return renderSummary(r, files.CSV) }},
	}

	for _, r := range renderers {
		data, err := r.render(result)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", filepath.Base(r.path), err)
		}
		if err := writeFileAtomic(w.fs, r.path, data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", filepath.Base(r.path), err)
		}
	}

	return files, nil
}

func renderCSV(result *entities.ReportResult) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(entities.ReportColumns); err != nil {
		return nil, err
	}
	for _, row := range result.Rows {
		if err := cw.Write(row.Values()); err != nil {
			return nil, err
		}
	}
	cw.Flush()

	return buf.Bytes(), cw.Error()
}

func renderMarkdown(result *entities.ReportResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# 16KB page size report\n\n")
	fmt.Fprintf(&buf, "- Verdict: **%s**\n", result.Verdict)
	fmt.Fprintf(&buf, "- Libraries: %d\n", len(result.Rows))
	fmt.Fprintf(&buf, "- Incompatible: %d\n", result.Incompatible)
	fmt.Fprintf(&buf, "- Violations: %d\n\n", result.ViolationCount)

	table := tablewriter.NewWriter(&buf)
	table.SetHeader(entities.ReportColumns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	for _, row := range result.Rows {
		values := row.Values()
		for i, v := range values {
			values[i] = markdownCell.Replace(v)
		}
		table.Append(values)
	}
	table.Render()

	return buf.Bytes(), nil
}

func renderHTML(result *entities.ReportResult) ([]byte, error) {
	var buf bytes.Buffer
	err := htmlReport.Execute(&buf, struct {
		Columns []string
		Result  *entities.ReportResult
	}{entities.ReportColumns, result})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderSummary(result *entities.ReportResult, csvPath string) ([]byte, error) {
	return json.MarshalIndent(reportSummary{
		RunID:          result.RunID,
		GeneratedAt:    result.GeneratedAt,
		Verdict:        string(result.Verdict),
		Total:          len(result.Rows),
		Incompatible:   result.Incompatible,
		ViolationCount: result.ViolationCount,
		CSV:            csvPath,
		Artifacts:      artifactDigests(result.Rows),
	}, "", "  ")
}

// artifactDigests lists each artifact once, in row order
func artifactDigests(rows []entities.AggregatedRow) []artifactDigest {
	digests := []artifactDigest{}
	seen := make(map[string]bool)
	for _, row := range rows {
		if seen[row.ArtifactName] {
			continue
		}
		seen[row.ArtifactName] = true
		digests = append(digests, artifactDigest{Name: row.ArtifactName, SHA256: row.ArtifactSHA256})
	}
	return digests
}
