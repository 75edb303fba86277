package yaml

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

// yamlOwnershipData is a hand-maintained list of library owners
type yamlOwnershipData struct {
	Owners []yamlOwner `yaml:"owners"`
}

type yamlOwner struct {
	FilePath           string `yaml:"filePath"`
	Owner              string `yaml:"owner"`
	Kind               string `yaml:"kind"`
	ModuleOrDependency string `yaml:"moduleOrDependency"`
}

// OwnershipRepository implements repositories.OwnershipDataRepository using YAML files
type OwnershipRepository struct {
	fs afero.Fs
}

// NewOwnershipRepository creates a new YAML-based ownership repository reading from fs
func NewOwnershipRepository(fs afero.Fs) *OwnershipRepository {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &OwnershipRepository{fs: fs}
}

// LoadOwnershipData reads ownership records from path
func (r *OwnershipRepository) LoadOwnershipData(ctx context.Context, path string) ([]entities.OwnershipRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ownership data %s: %w", path, err)
	}

	return ParseOwnershipData(data)
}

// ParseOwnershipData parses YAML bytes into ownership records
func ParseOwnershipData(data []byte) ([]entities.OwnershipRecord, error) {
	var raw yamlOwnershipData
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	records := make([]entities.OwnershipRecord, 0, len(raw.Owners))
	for i, o := range raw.Owners {
		if o.FilePath == "" || o.Owner == "" {
			return nil, fmt.Errorf("owners[%d] needs both filePath and owner", i)
		}

		kind := entities.ParseSourceKind(o.Kind)
		if kind == entities.SourceKindUnknown {
			return nil, fmt.Errorf("owners[%d] kind must be %q or %q, got %q",
				i, entities.SourceKindModule, entities.SourceKindDependency, o.Kind)
		}

		source := o.ModuleOrDependency
		if source == "" {
			source = o.Owner
		}

		records = append(records, entities.OwnershipRecord{
			SourceKind:         kind,
			ModuleOrDependency: source,
			OwnerCoordinate:    o.Owner,
			FilePath:           o.FilePath,
		})
	}

	return records, nil
}
