// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
	"github.com/ochairo/pagedoctor/internal/domain/interfaces"
	"github.com/ochairo/pagedoctor/internal/domain/interfaces/gateways"
	"github.com/ochairo/pagedoctor/internal/domain/services"
)

// ScanOrchestrator measures every native library of every candidate with a bounded worker pool
type ScanOrchestrator struct {
	lister      gateways.ArchiveLister
	finder      gateways.CandidateFinder
	digester    gateways.ArtifactDigester
	parallelism int
	logger      interfaces.Logger
}

// ScanResult contains the findings of one scan and the non-fatal errors met on the way
type ScanResult struct {
	Findings   []entities.Finding
	Candidates int
	Errors     *multierror.Error
	Duration   time.Duration
}

// Err returns the accumulated non-fatal errors, or nil
func (r *ScanResult) Err() error {
	return r.Errors.ErrorOrNil()
}

// NewScanOrchestrator creates a new scan orchestrator.
// digester may be nil, in which case findings carry no artifact digest.
// parallelism <= 0 uses entities.DefaultParallelism.
func NewScanOrchestrator(
	lister gateways.ArchiveLister,
	finder gateways.CandidateFinder,
	digester gateways.ArtifactDigester,
	parallelism int,
	logger interfaces.Logger,
) *ScanOrchestrator {
	if parallelism <= 0 {
		parallelism = entities.DefaultParallelism
	}
	return &ScanOrchestrator{
		lister:      lister,
		finder:      finder,
		digester:    digester,
		parallelism: parallelism,
		logger:      interfaces.OrNoOp(logger),
	}
}

// DiscoverCandidates lists the packages and bundles enabled in cfg, sorted by
// modification time with the path as tie breaker. Only directory metadata is
// read, so an unreadable artifact surfaces later in Scan. Missing output
// directories are skipped; no candidates is not an error.
func (o *ScanOrchestrator) DiscoverCandidates(cfg entities.DoctorConfig) ([]entities.Candidate, error) {
	var candidates []entities.Candidate

	sources := []struct {
		enabled    bool
		dir        string
		kind       entities.CandidateKind
		extensions []string
	}{
		{cfg.ScanPackages, cfg.PackagesDir, entities.CandidateKindPackage, entities.PackageExtensions},
		{cfg.ScanBundles, cfg.BundleDir, entities.CandidateKindBundle, entities.BundleExtensions},
	}

	for _, src := range sources {
		if !src.enabled {
			continue
		}
		found, err := o.finder.FindCandidates(src.dir, src.kind, src.extensions)
		if err != nil {
			return nil, fmt.Errorf("failed to discover %s candidates: %w", src.kind, err)
		}
		o.logger.Debug("candidates discovered", interfaces.F("dir", src.dir), interfaces.F("count", len(found)))
		candidates = append(candidates, found...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].ModTime.Equal(candidates[j].ModTime) {
			return candidates[i].ModTime.Before(candidates[j].ModTime)
		}
		return candidates[i].Path < candidates[j].Path
	})

	if len(candidates) == 0 {
		o.logger.Warn("no packages found to scan",
			interfaces.F("packages_dir", cfg.PackagesDir),
			interfaces.F("bundle_dir", cfg.BundleDir))
	}

	return candidates, nil
}

// scanUnit is one native library entry of one candidate
type scanUnit struct {
	candidate entities.Candidate
	digest    string
	entry     entities.NativeEntry
}

// Scan measures every native library entry of the candidates.
// Findings keep candidate order, then archive entry order. Unreadable
// archives and entries are reported in ScanResult.Errors; only context
// cancellation aborts the scan.
func (o *ScanOrchestrator) Scan(ctx context.Context, candidates []entities.Candidate, threshold uint64) (*ScanResult, error) {
	start := time.Now()
	result := &ScanResult{Candidates: len(candidates)}
	if threshold == 0 {
		threshold = entities.DefaultMaxAlign
	}

	var units []scanUnit
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, err := o.lister.ListNativeLibraries(c.Path)
		if err != nil {
			o.logger.Warn("skipping unreadable artifact", interfaces.F("artifact", c.Name), interfaces.Err(err))
			result.Errors = multierror.Append(result.Errors, fmt.Errorf("artifact %s: %w", c.Name, err))
			continue
		}
		o.logger.Debug("artifact listed", interfaces.F("artifact", c.Name), interfaces.F("libraries", len(entries)))

		var digest string
		if o.digester != nil && len(entries) > 0 {
			digest, err = o.digester.CalculateChecksum(c.Path)
			if err != nil {
				o.logger.Warn("skipping unreadable artifact", interfaces.F("artifact", c.Name), interfaces.Err(err))
				result.Errors = multierror.Append(result.Errors, fmt.Errorf("artifact %s: %w", c.Name, err))
				continue
			}
		}

		for _, e := range entries {
			units = append(units, scanUnit{candidate: c, digest: digest, entry: e})
		}
	}

	findings := make([]*entities.Finding, len(units))
	unitErrs := make([]error, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)

	for i, u := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			data, err := o.lister.ReadEntry(u.candidate.Path, u.entry.Name)
			if err != nil {
				unitErrs[i] = fmt.Errorf("artifact %s entry %s: %w", u.candidate.Name, u.entry.Name, err)
				return nil
			}

			align := services.MaxAlignment(data)
			findings[i] = &entities.Finding{
				ArtifactName: u.candidate.Name,
				EntryPath:    u.entry.Name,
				ABI:          services.DetectABI(u.entry.Name),
				MaxAlign:     align,
				Compatible:   services.IsCompatible(align, threshold),
				Compressed:   u.entry.Compressed,

				ArtifactSHA256: u.digest,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Findings = make([]entities.Finding, 0, len(units))
	for i := range units {
		if unitErrs[i] != nil {
			o.logger.Warn("skipping unreadable entry", interfaces.Err(unitErrs[i]))
			result.Errors = multierror.Append(result.Errors, unitErrs[i])
			continue
		}
		result.Findings = append(result.Findings, *findings[i])
	}

	result.Duration = time.Since(start)
	o.logger.Info("scan completed",
		interfaces.F("artifacts", len(candidates)),
		interfaces.F("libraries", len(result.Findings)),
		interfaces.F("errors", len(result.Errors.WrappedErrors())),
		interfaces.F("duration", result.Duration.Round(time.Millisecond)))

	return result, nil
}
