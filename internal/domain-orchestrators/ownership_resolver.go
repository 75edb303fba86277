package orchestrators

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
	"github.com/ochairo/pagedoctor/internal/domain/interfaces"
	"github.com/ochairo/pagedoctor/internal/domain/interfaces/gateways"
	"github.com/ochairo/pagedoctor/internal/domain/interfaces/repositories"
	"github.com/ochairo/pagedoctor/internal/domain/services"
)

// OwnershipResolverConfig holds the optional ownership sources of a run
type OwnershipResolverConfig struct {
	DataFile        string
	SignatureFile   string
	Keyring         string
	TargetLibraries []string
}

// OwnershipResolver attributes native libraries to local modules and dependencies
type OwnershipResolver struct {
	fs       afero.Fs
	lister   gateways.ArchiveLister
	dataRepo repositories.OwnershipDataRepository
	verifier gateways.SignatureVerifier
	config   OwnershipResolverConfig
	logger   interfaces.Logger
}

// OwnershipResult contains the resolved records and the sources that could not be read
type OwnershipResult struct {
	Records []entities.OwnershipRecord
	Errors  *multierror.Error
}

// Err returns the accumulated non-fatal errors, or nil
func (r *OwnershipResult) Err() error {
	return r.Errors.ErrorOrNil()
}

// NewOwnershipResolver creates a new ownership resolver.
// dataRepo and verifier may be nil when no ownership data file is used.
func NewOwnershipResolver(
	fs afero.Fs,
	lister gateways.ArchiveLister,
	dataRepo repositories.OwnershipDataRepository,
	verifier gateways.SignatureVerifier,
	config OwnershipResolverConfig,
	logger interfaces.Logger,
) *OwnershipResolver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &OwnershipResolver{
		fs:       fs,
		lister:   lister,
		dataRepo: dataRepo,
		verifier: verifier,
		config:   config,
		logger:   interfaces.OrNoOp(logger),
	}
}

// ResolveOwners builds the ownership list. Records are emitted data file first,
// then dependencies, then modules, so under a last-write-wins join a module
// overrides a dependency and both override the data file. Unreadable sources
// are skipped and reported in OwnershipResult.Errors.
func (r *OwnershipResolver) ResolveOwners(
	ctx context.Context,
	modules []entities.ModuleLibraryDir,
	deps []entities.DependencyArtifact,
) (*OwnershipResult, error) {
	result := &OwnershipResult{}

	if r.config.DataFile != "" {
		records, err := r.loadDataFile(ctx)
		if err != nil {
			r.logger.Warn("ownership data unavailable", interfaces.F("file", r.config.DataFile), interfaces.Err(err))
			result.Errors = multierror.Append(result.Errors, err)
		} else {
			result.Records = append(result.Records, records...)
		}
	}

	for _, dep := range deps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := r.dependencyRecords(dep)
		if err != nil {
			r.logger.Warn("skipping unreadable dependency", interfaces.F("path", dep.Path), interfaces.Err(err))
			result.Errors = multierror.Append(result.Errors, err)
			continue
		}
		result.Records = append(result.Records, records...)
	}

	for _, m := range modules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := r.moduleRecords(m)
		if err != nil {
			r.logger.Warn("skipping unreadable module directory", interfaces.F("module", m.Name), interfaces.Err(err))
			result.Errors = multierror.Append(result.Errors, err)
			continue
		}
		result.Records = append(result.Records, records...)
	}

	r.logger.Info("owners resolved",
		interfaces.F("records", len(result.Records)),
		interfaces.F("modules", len(modules)),
		interfaces.F("dependencies", len(deps)))

	return result, nil
}

func (r *OwnershipResolver) loadDataFile(ctx context.Context) ([]entities.OwnershipRecord, error) {
	if r.dataRepo == nil {
		return nil, fmt.Errorf("no ownership data repository configured")
	}

	if r.config.SignatureFile != "" {
		if r.verifier == nil {
			return nil, fmt.Errorf("ownership data is signed but no verifier is configured")
		}
		if err := r.verifier.VerifyDetached(r.config.DataFile, r.config.SignatureFile, r.config.Keyring); err != nil {
			return nil, fmt.Errorf("ownership data rejected: %w", err)
		}
	}

	return r.dataRepo.LoadOwnershipData(ctx, r.config.DataFile)
}

func (r *OwnershipResolver) dependencyRecords(dep entities.DependencyArtifact) ([]entities.OwnershipRecord, error) {
	if !lo.Contains(entities.DependencyExtensions, strings.ToLower(filepath.Ext(dep.Path))) {
		r.logger.Debug("dependency cannot bundle native libraries", interfaces.F("path", dep.Path))
		return nil, nil
	}

	entries, err := r.lister.ListNativeLibraryEntries(dep.Path)
	if err != nil {
		return nil, fmt.Errorf("dependency %s: %w", dep.Path, err)
	}

	owner := dep.Coordinate
	if owner == "" {
		owner = filepath.Base(dep.Path)
	}

	var records []entities.OwnershipRecord
	for _, entry := range entries {
		if !r.isTarget(entry) {
			continue
		}
		records = append(records, entities.OwnershipRecord{
			SourceKind:         entities.SourceKindDependency,
			ModuleOrDependency: owner,
			OwnerCoordinate:    owner,
			FilePath:           entry,
		})
	}
	return records, nil
}

func (r *OwnershipResolver) moduleRecords(m entities.ModuleLibraryDir) ([]entities.OwnershipRecord, error) {
	if _, err := r.fs.Stat(m.Dir); err != nil {
		if os.IsNotExist(err) {
			r.logger.Debug("module library directory missing", interfaces.F("module", m.Name), interfaces.F("dir", m.Dir))
			return nil, nil
		}
		return nil, fmt.Errorf("module %s: %w", m.Name, err)
	}

	var records []entities.OwnershipRecord
	err := afero.Walk(r.fs, m.Dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !services.IsNativeLibrary(p) {
			return nil
		}

		rel, err := filepath.Rel(m.Dir, p)
		if err != nil {
			return err
		}
		records = append(records, entities.OwnershipRecord{
			SourceKind:         entities.SourceKindModule,
			ModuleOrDependency: m.Name,
			OwnerCoordinate:    m.Name,
			FilePath:           filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", m.Name, err)
	}
	return records, nil
}

func (r *OwnershipResolver) isTarget(entry string) bool {
	if len(r.config.TargetLibraries) == 0 {
		return true
	}
	return lo.Contains(r.config.TargetLibraries, path.Base(entry))
}
