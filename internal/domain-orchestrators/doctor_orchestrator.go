package orchestrators

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
	"github.com/ochairo/pagedoctor/internal/domain/interfaces"
	"github.com/ochairo/pagedoctor/internal/domain/interfaces/gateways"
	"github.com/ochairo/pagedoctor/internal/domain/interfaces/services"
)

// DoctorDependencies are the collaborators of a DoctorOrchestrator.
// Assembler and Uploader may be nil when the matching step is disabled.
type DoctorDependencies struct {
	Assembler  gateways.AssembleRunner
	Scanner    *ScanOrchestrator
	Resolver   *OwnershipResolver
	Aggregator services.ReportAggregator
	Findings   gateways.FindingsStore
	Owners     gateways.OwnershipStore
	Writer     gateways.ReportWriter
	Uploader   gateways.ReportUploader
	Logger     interfaces.Logger
}

// DoctorOrchestrator runs the scan, ownership and report stages of one configuration
type DoctorOrchestrator struct {
	cfg  entities.DoctorConfig
	deps DoctorDependencies

	logger   interfaces.Logger
	newRunID func() string
}

// DoctorResult contains the outcome of a pipeline or report run
type DoctorResult struct {
	RunID      string
	Candidates []entities.Candidate
	Scan       *ScanResult
	Owners     *OwnershipResult
	Report     *entities.ReportResult
	Files      *entities.ReportFiles
	Duration   time.Duration
}

// NewDoctorOrchestrator creates a new pipeline orchestrator; cfg is copied
func NewDoctorOrchestrator(cfg entities.DoctorConfig, deps DoctorDependencies) *DoctorOrchestrator {
	return &DoctorOrchestrator{
		cfg:      cfg,
		deps:     deps,
		logger:   interfaces.OrNoOp(deps.Logger),
		newRunID: uuid.NewString,
	}
}

// Run executes the full pipeline: optional assemble, discovery, scan and
// ownership in parallel, persistence, aggregation, rendering and optional
// upload. When the verdict is fail the result is returned together with a
// *entities.PolicyViolationError.
func (o *DoctorOrchestrator) Run(ctx context.Context) (*DoctorResult, error) {
	start := time.Now()
	result := &DoctorResult{RunID: o.newRunID()}
	logger := o.logger.With(interfaces.F("run", result.RunID))

	if o.cfg.Assemble {
		if o.deps.Assembler == nil {
			return nil, fmt.Errorf("assemble requested but no assembler configured")
		}
		if err := o.deps.Assembler.Assemble(ctx, o.cfg); err != nil {
			return nil, fmt.Errorf("failed to assemble %s: %w", o.cfg.Variant, err)
		}
	}

	candidates, err := o.deps.Scanner.DiscoverCandidates(o.cfg)
	if err != nil {
		return nil, err
	}
	result.Candidates = candidates

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scan, err := o.deps.Scanner.Scan(gctx, candidates, o.cfg.MaxAlignThreshold)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		result.Scan = scan
		return nil
	})
	g.Go(func() error {
		owners, err := o.deps.Resolver.ResolveOwners(gctx, o.cfg.Modules, o.cfg.Dependencies)
		if err != nil {
			return fmt.Errorf("ownership resolution failed: %w", err)
		}
		result.Owners = owners
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := o.persistFindings(ctx, result.Scan.Findings); err != nil {
		return nil, err
	}
	if err := o.deps.Owners.Save(ctx, result.Owners.Records); err != nil {
		return nil, fmt.Errorf("failed to persist owners: %w", err)
	}

	if err := o.report(ctx, result, result.Scan.Findings, result.Owners.Records); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	logger.Info("pipeline completed",
		interfaces.F("verdict", result.Report.Verdict),
		interfaces.F("libraries", len(result.Report.Rows)),
		interfaces.F("violations", result.Report.ViolationCount),
		interfaces.F("duration", result.Duration.Round(time.Millisecond)))

	return result, o.policyError(result)
}

// RunScan discovers and scans candidates and replaces the findings store content
func (o *DoctorOrchestrator) RunScan(ctx context.Context) (*ScanResult, error) {
	candidates, err := o.deps.Scanner.DiscoverCandidates(o.cfg)
	if err != nil {
		return nil, err
	}

	scan, err := o.deps.Scanner.Scan(ctx, candidates, o.cfg.MaxAlignThreshold)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	if err := o.persistFindings(ctx, scan.Findings); err != nil {
		return nil, err
	}
	return scan, nil
}

// RunOwners resolves ownership and replaces the ownership store content
func (o *DoctorOrchestrator) RunOwners(ctx context.Context) (*OwnershipResult, error) {
	owners, err := o.deps.Resolver.ResolveOwners(ctx, o.cfg.Modules, o.cfg.Dependencies)
	if err != nil {
		return nil, fmt.Errorf("ownership resolution failed: %w", err)
	}

	if err := o.deps.Owners.Save(ctx, owners.Records); err != nil {
		return nil, fmt.Errorf("failed to persist owners: %w", err)
	}
	return owners, nil
}

// RunReport aggregates the stored findings and owners of an earlier scan
func (o *DoctorOrchestrator) RunReport(ctx context.Context) (*DoctorResult, error) {
	start := time.Now()
	result := &DoctorResult{RunID: o.newRunID()}

	findings, err := o.deps.Findings.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load findings: %w", err)
	}
	owners, err := o.deps.Owners.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load owners: %w", err)
	}

	if err := o.report(ctx, result, findings, owners); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	return result, o.policyError(result)
}

func (o *DoctorOrchestrator) persistFindings(ctx context.Context, findings []entities.Finding) error {
	if err := o.deps.Findings.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset findings: %w", err)
	}
	if err := o.deps.Findings.SaveAll(ctx, findings); err != nil {
		return fmt.Errorf("failed to persist findings: %w", err)
	}
	return nil
}

func (o *DoctorOrchestrator) report(
	ctx context.Context,
	result *DoctorResult,
	findings []entities.Finding,
	owners []entities.OwnershipRecord,
) error {
	report := o.deps.Aggregator.Aggregate(findings, owners, o.cfg.Policy())
	report.RunID = result.RunID

	files, err := o.deps.Writer.Write(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}
	report.CSVPath = files.CSV
	result.Report = report
	result.Files = files

	if o.deps.Uploader != nil {
		if err := o.deps.Uploader.Upload(ctx, result.RunID, files); err != nil {
			return fmt.Errorf("failed to upload reports: %w", err)
		}
		o.logger.Info("reports uploaded", interfaces.F("run", result.RunID), interfaces.F("files", len(files.All())))
	}
	return nil
}

func (o *DoctorOrchestrator) policyError(result *DoctorResult) error {
	if result.Report.Verdict != entities.VerdictFail {
		return nil
	}
	return &entities.PolicyViolationError{
		Count:      result.Report.ViolationCount,
		ReportPath: result.Report.CSVPath,
	}
}
