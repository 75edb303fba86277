package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ochairo/pagedoctor/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/pagedoctor/internal/domain-orchestrators"
	"github.com/ochairo/pagedoctor/internal/domain/entities"
	"github.com/ochairo/pagedoctor/internal/domain/interfaces"
	"github.com/ochairo/pagedoctor/internal/domain/services"
	"github.com/ochairo/pagedoctor/internal/external-adapters/gokit"
	yamladapter "github.com/ochairo/pagedoctor/internal/external-adapters/yaml"
)

// app is the wired pipeline for one command invocation
type app struct {
	cfg    entities.DoctorConfig
	logger interfaces.Logger
	doctor *orchestrators.DoctorOrchestrator
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	logger := gokit.NewLogger(cmd.ErrOrStderr(), opts.logLevel)

	doctor, err := newDoctor(afero.NewOsFs(), cfg, logger)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, doctor: doctor}, nil
}

func newDoctor(fs afero.Fs, cfg entities.DoctorConfig, logger interfaces.Logger) (*orchestrators.DoctorOrchestrator, error) {
	lister := gateways.NewArchiveLister(fs)

	resolverConfig := orchestrators.OwnershipResolverConfig{
		DataFile:        cfg.OwnershipDataFile,
		SignatureFile:   cfg.OwnershipSignatureFile,
		Keyring:         cfg.OwnershipKeyring,
		TargetLibraries: cfg.TargetLibraries,
	}

	deps := orchestrators.DoctorDependencies{
		Scanner: orchestrators.NewScanOrchestrator(
			lister, gateways.NewArtifactFinder(fs), gateways.NewChecksumVerifier(fs), cfg.Parallelism, logger),
		Resolver: orchestrators.NewOwnershipResolver(
			fs, lister, yamladapter.NewOwnershipRepository(fs), gateways.NewGPGVerifier(), resolverConfig, logger),
		Aggregator: services.NewReportAggregator(),
		Findings:   gateways.NewFindingsStore(fs, cfg.ScanDir()),
		Owners:     gateways.NewOwnershipStore(fs, cfg.OwnersFile()),
		Writer:     gateways.NewReportWriter(fs, cfg.FinalDir()),
		Logger:     logger,
	}
	if cfg.Assemble {
		deps.Assembler = gateways.NewShellAssembleRunner(logger)
	}
	if cfg.Upload.Enabled() {
		uploader, err := gateways.NewS3ReportUploader(cfg.Upload, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to configure report upload: %w", err)
		}
		deps.Uploader = uploader
	}

	return orchestrators.NewDoctorOrchestrator(cfg, deps), nil
}
