package entities

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"
)

// DefaultParallelism is the worker count used when none is configured
const DefaultParallelism = 4

// DoctorConfig is the full configuration of one pipeline run.
// It is copied by value into every stage so nothing can change mid-run.
type DoctorConfig struct {
	ProjectDir string
	Variant    string

	Assemble        bool
	AssembleCommand string
	AssembleTimeout time.Duration

	ScanPackages bool
	ScanBundles  bool
	PackagesDir  string
	BundleDir    string

	MaxAlignThreshold uint64
	FailOnViolation   bool
	ABIExclusions     []string
	Parallelism       int

	OwnershipDataFile      string
	OwnershipSignatureFile string
	OwnershipKeyring       string

	Modules         []ModuleLibraryDir
	Dependencies    []DependencyArtifact
	TargetLibraries []string

	ReportDir string
	Upload    UploadConfig
}

// UploadConfig describes an optional S3-compatible destination for final reports
type UploadConfig struct {
	Endpoint  string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Enabled reports whether an upload destination is configured
func (u UploadConfig) Enabled() bool {
	return u.Endpoint != "" && u.Bucket != ""
}

// DefaultDoctorConfig returns the configuration used when nothing is overridden
func DefaultDoctorConfig() DoctorConfig {
	return DoctorConfig{
		ProjectDir:        ".",
		Variant:           "debug",
		AssembleTimeout:   30 * time.Minute,
		ScanPackages:      true,
		MaxAlignThreshold: DefaultMaxAlign,
		Parallelism:       DefaultParallelism,
	}
}

// ApplyDefaults fills derived paths and zero values
func (c *DoctorConfig) ApplyDefaults() {
	if c.ProjectDir == "" {
		c.ProjectDir = "."
	}
	if c.Variant == "" {
		c.Variant = "debug"
	}
	if c.PackagesDir == "" {
		c.PackagesDir = filepath.Join(c.ProjectDir, "build", "outputs", "apk", c.Variant)
	}
	if c.BundleDir == "" {
		c.BundleDir = filepath.Join(c.ProjectDir, "build", "outputs", "bundle", c.Variant)
	}
	if c.ReportDir == "" {
		c.ReportDir = filepath.Join(c.ProjectDir, "build", "pagedoctor", "reports")
	}
	if c.MaxAlignThreshold == 0 {
		c.MaxAlignThreshold = DefaultMaxAlign
	}
	if c.Parallelism <= 0 {
		c.Parallelism = runtime.GOMAXPROCS(0)
	}
	if c.AssembleTimeout <= 0 {
		c.AssembleTimeout = 30 * time.Minute
	}
}

// Validate checks settings that cannot be defaulted
func (c *DoctorConfig) Validate() error {
	if c.Assemble && c.AssembleCommand == "" {
		return fmt.Errorf("assemble is enabled but no assemble command is configured")
	}
	if c.OwnershipSignatureFile != "" && c.OwnershipKeyring == "" {
		return fmt.Errorf("ownership signature given without a keyring")
	}
	if c.Upload.Endpoint != "" && c.Upload.Bucket == "" {
		return fmt.Errorf("upload endpoint %s has no bucket", c.Upload.Endpoint)
	}
	return nil
}

// Policy returns the report policy derived from the configuration
func (c *DoctorConfig) Policy() ReportPolicy {
	return ReportPolicy{
		Threshold:       c.MaxAlignThreshold,
		FailOnViolation: c.FailOnViolation,
		ABIExclusions:   append([]string(nil), c.ABIExclusions...),
	}
}

// ScanDir is where per-entry finding records are stored
func (c *DoctorConfig) ScanDir() string { return filepath.Join(c.ReportDir, "scan") }

// OwnersFile is where resolved ownership records are stored
func (c *DoctorConfig) OwnersFile() string {
	return filepath.Join(c.ReportDir, "owners", "owners.json")
}

// FinalDir is where the rendered reports are written
func (c *DoctorConfig) FinalDir() string { return filepath.Join(c.ReportDir, "final") }

// ResolvePaths makes relative source paths relative to ProjectDir
func (c *DoctorConfig) ResolvePaths() {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.ProjectDir, p)
	}

	c.PackagesDir = resolve(c.PackagesDir)
	c.BundleDir = resolve(c.BundleDir)
	c.ReportDir = resolve(c.ReportDir)
	c.OwnershipDataFile = resolve(c.OwnershipDataFile)
	c.OwnershipSignatureFile = resolve(c.OwnershipSignatureFile)
	c.OwnershipKeyring = resolve(c.OwnershipKeyring)
	for i := range c.Modules {
		c.Modules[i].Dir = resolve(c.Modules[i].Dir)
	}
	for i := range c.Dependencies {
		c.Dependencies[i].Path = resolve(c.Dependencies[i].Path)
	}
}
