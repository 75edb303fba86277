package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// findingRecord is the on-disk shape of one finding
type findingRecord struct {
	Artifact   string `json:"artifact"`
	Path       string `json:"path"`
	ABI        string `json:"abi"`
	PAlign     uint64 `json:"p_align"`
	Compatible bool   `json:"compatible"`
	Compressed bool   `json:"compressed"`

	ArtifactSHA256 string `json:"artifact_sha256,omitempty"`
}

// fileFindingsStore keeps one JSON file per (artifact, entry) under a directory
type fileFindingsStore struct {
	fs  afero.Fs
	dir string
}

// NewFindingsStore creates a findings store rooted at dir
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewFindingsStore(fs afero.Fs, dir string) *fileFindingsStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &fileFindingsStore{fs: fs, dir: dir}
}

// FindingFileName returns the record file name of a finding
func FindingFileName(artifactName, entryPath string) string {
	return artifactName + "-" + strings.ReplaceAll(entryPath, "/", "_") + ".json"
}

// Save writes one finding, replacing any earlier record for the same artifact and entry
func (s *fileFindingsStore) Save(ctx context.Context, finding entities.Finding) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(findingRecord{
		Artifact:   finding.ArtifactName,
		Path:       finding.EntryPath,
		ABI:        finding.ABI,
		PAlign:     finding.MaxAlign,
		Compatible: finding.Compatible,
		Compressed: finding.Compressed,

		ArtifactSHA256: finding.ArtifactSHA256,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal finding: %w", err)
	}

	path := filepath.Join(s.dir, FindingFileName(finding.ArtifactName, finding.EntryPath))
	if err := writeFileAtomic(s.fs, path, data); err != nil {
		return fmt.Errorf("failed to save finding %s: %w", finding.EntryPath, err)
	}
	return nil
}

// SaveAll writes every finding
func (s *fileFindingsStore) SaveAll(ctx context.Context, findings []entities.Finding) error {
	for _, f := range findings {
		if err := s.Save(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// LoadAll reads every stored finding, ordered by file name
func (s *fileFindingsStore) LoadAll(ctx context.Context) ([]entities.Finding, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read findings directory: %w", err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".json") {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)

	findings := make([]entities.Finding, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read finding %s: %w", name, err)
		}

		var rec findingRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to parse finding %s: %w", name, err)
		}

		findings = append(findings, entities.Finding{
			ArtifactName: rec.Artifact,
			EntryPath:    rec.Path,
			ABI:          rec.ABI,
			MaxAlign:     rec.PAlign,
			Compatible:   rec.Compatible,
			Compressed:   rec.Compressed,

			ArtifactSHA256: rec.ArtifactSHA256,
		})
	}

	return findings, nil
}

// Reset removes every stored finding
func (s *fileFindingsStore) Reset(_ context.Context) error {
	if err := s.fs.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to reset findings store: %w", err)
	}
	return nil
}
