// Package yaml provides YAML-based configuration parsing and ownership data loading.
package yaml

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

// yamlConfig represents the raw pagedoctor.yml structure.
// Pointer fields distinguish "unset" from zero values so defaults survive.
type yamlConfig struct {
	ProjectDir      *string `yaml:"projectDir"`
	Variant         *string `yaml:"variant"`
	Assemble        *bool   `yaml:"assemble"`
	AssembleCommand *string `yaml:"assembleCommand"`
	AssembleTimeout *string `yaml:"assembleTimeout"`

	ScanPackages *bool   `yaml:"scanPackages"`
	ScanBundles  *bool   `yaml:"scanBundles"`
	PackagesDir  *string `yaml:"packagesDir"`
	BundleDir    *string `yaml:"bundleDir"`

	MaxAlignThreshold *uint64  `yaml:"maxAlignThreshold"`
	FailOnViolation   *bool    `yaml:"failOnViolation"`
	ABIExclusions     []string `yaml:"abiExclusions"`
	Parallelism       *int     `yaml:"parallelism"`

	OwnershipDataFile      *string `yaml:"ownershipDataFile"`
	OwnershipSignatureFile *string `yaml:"ownershipSignatureFile"`
	OwnershipKeyring       *string `yaml:"ownershipKeyring"`

	Modules         []yamlModule     `yaml:"modules"`
	Dependencies    []yamlDependency `yaml:"dependencies"`
	TargetLibraries []string         `yaml:"targetLibraries"`

	ReportDir *string     `yaml:"reportDir"`
	Upload    *yamlUpload `yaml:"upload"`
}

type yamlModule struct {
	Name string `yaml:"name"`
	Dir  string `yaml:"dir"`
}

type yamlDependency struct {
	Coordinate string `yaml:"coordinate"`
	Path       string `yaml:"path"`
}

type yamlUpload struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
}

// ConfigParser parses pagedoctor.yml files
type ConfigParser struct{}

// NewConfigParser creates a new YAML config parser
func NewConfigParser() *ConfigParser {
	return &ConfigParser{}
}

// ParseFile parses a YAML config file on top of base
func (p *ConfigParser) ParseFile(filePath string, base entities.DoctorConfig) (*entities.DoctorConfig, error) {
	//nolint:gosec // G304: filePath is the user-selected config file
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data, base)
}

// Parse parses YAML bytes on top of base; keys absent from the document keep base values
func (p *ConfigParser) Parse(data []byte, base entities.DoctorConfig) (*entities.DoctorConfig, error) {
	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg := base
	setString(&cfg.ProjectDir, raw.ProjectDir)
	setString(&cfg.Variant, raw.Variant)
	setBool(&cfg.Assemble, raw.Assemble)
	setString(&cfg.AssembleCommand, raw.AssembleCommand)
	if raw.AssembleTimeout != nil {
		d, err := time.ParseDuration(*raw.AssembleTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid assembleTimeout %q: %w", *raw.AssembleTimeout, err)
		}
		cfg.AssembleTimeout = d
	}

	setBool(&cfg.ScanPackages, raw.ScanPackages)
	setBool(&cfg.ScanBundles, raw.ScanBundles)
	setString(&cfg.PackagesDir, raw.PackagesDir)
	setString(&cfg.BundleDir, raw.BundleDir)

	if raw.MaxAlignThreshold != nil {
		if *raw.MaxAlignThreshold == 0 {
			return nil, fmt.Errorf("maxAlignThreshold must be positive")
		}
		cfg.MaxAlignThreshold = *raw.MaxAlignThreshold
	}
	setBool(&cfg.FailOnViolation, raw.FailOnViolation)
	if raw.ABIExclusions != nil {
		cfg.ABIExclusions = raw.ABIExclusions
	}
	if raw.Parallelism != nil {
		cfg.Parallelism = *raw.Parallelism
	}

	setString(&cfg.OwnershipDataFile, raw.OwnershipDataFile)
	setString(&cfg.OwnershipSignatureFile, raw.OwnershipSignatureFile)
	setString(&cfg.OwnershipKeyring, raw.OwnershipKeyring)

	for i, m := range raw.Modules {
		if m.Name == "" || m.Dir == "" {
			return nil, fmt.Errorf("modules[%d] needs both name and dir", i)
		}
		cfg.Modules = append(cfg.Modules, entities.ModuleLibraryDir{Name: m.Name, Dir: m.Dir})
	}
	for i, d := range raw.Dependencies {
		if d.Path == "" {
			return nil, fmt.Errorf("dependencies[%d] needs a path", i)
		}
		cfg.Dependencies = append(cfg.Dependencies, entities.DependencyArtifact{Coordinate: d.Coordinate, Path: d.Path})
	}
	if raw.TargetLibraries != nil {
		cfg.TargetLibraries = raw.TargetLibraries
	}

	setString(&cfg.ReportDir, raw.ReportDir)
	if raw.Upload != nil {
		cfg.Upload = entities.UploadConfig{
			Endpoint:  raw.Upload.Endpoint,
			Bucket:    raw.Upload.Bucket,
			Prefix:    raw.Upload.Prefix,
			AccessKey: raw.Upload.AccessKey,
			SecretKey: raw.Upload.SecretKey,
			UseSSL:    raw.Upload.UseSSL,
		}
	}

	return &cfg, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
