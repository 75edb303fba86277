package gateways

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

// ownershipRecord is the on-disk shape of one ownership record
type ownershipRecord struct {
	SourceType         string `json:"sourceType"`
	ModuleOrDependency string `json:"moduleOrDependency"`
	FilePath           string `json:"filePath"`
	OwnerCoordinate    string `json:"ownerCoordinate"`
}

// fileOwnershipStore keeps the resolved ownership list in a single JSON file
type fileOwnershipStore struct {
	fs   afero.Fs
	path string
}

// NewOwnershipStore creates an ownership store writing to path
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewOwnershipStore(fs afero.Fs, path string) *fileOwnershipStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &fileOwnershipStore{fs: fs, path: path}
}

// Save replaces the stored list
func (s *fileOwnershipStore) Save(ctx context.Context, records []entities.OwnershipRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := make([]ownershipRecord, 0, len(records))
	for _, r := range records {
		out = append(out, ownershipRecord{
			SourceType:         string(r.SourceKind),
			ModuleOrDependency: r.ModuleOrDependency,
			FilePath:           r.FilePath,
			OwnerCoordinate:    r.OwnerCoordinate,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ownership records: %w", err)
	}
	if err := writeFileAtomic(s.fs, s.path, data); err != nil {
		return fmt.Errorf("failed to save ownership records: %w", err)
	}
	return nil
}

// Load reads the stored list; a missing file yields an empty list
func (s *fileOwnershipStore) Load(ctx context.Context) ([]entities.OwnershipRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ownership records: %w", err)
	}

	var in []ownershipRecord
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse ownership records: %w", err)
	}

	records := make([]entities.OwnershipRecord, 0, len(in))
	for _, r := range in {
		records = append(records, entities.OwnershipRecord{
			SourceKind:         entities.ParseSourceKind(r.SourceType),
			ModuleOrDependency: r.ModuleOrDependency,
			FilePath:           r.FilePath,
			OwnerCoordinate:    r.OwnerCoordinate,
		})
	}
	return records, nil
}
