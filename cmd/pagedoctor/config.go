package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
	yamladapter "github.com/ochairo/pagedoctor/internal/external-adapters/yaml"
)

const (
	defaultConfigFile = "pagedoctor.yml"
	defaultEnvFile    = ".env"
	envPrefix         = "PAGEDOCTOR_"
)

// loadConfig builds the run configuration. Later sources override earlier ones:
// built-in defaults, the YAML config file, PAGEDOCTOR_* environment variables
// (after loading the env file) and finally flags set on the command line.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (entities.DoctorConfig, error) {
	cfg := entities.DefaultDoctorConfig()
	cfg.ProjectDir = opts.projectDir

	configFile, required := opts.configFile, true
	if configFile == "" {
		configFile, required = filepath.Join(opts.projectDir, defaultConfigFile), false
	}
	if required || fileExists(configFile) {
		parsed, err := yamladapter.NewConfigParser().ParseFile(configFile, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = *parsed
		if cmd.Flags().Changed("project-dir") {
			cfg.ProjectDir = opts.projectDir
		}
	}

	envFile, required := opts.envFile, true
	if envFile == "" {
		envFile, required = filepath.Join(cfg.ProjectDir, defaultEnvFile), false
	}
	if required || fileExists(envFile) {
		// godotenv never overrides variables already set in the environment
		if err := godotenv.Load(envFile); err != nil {
			return cfg, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	applyFlags(cmd, opts, &cfg)

	cfg.ResolvePaths()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides cfg with PAGEDOCTOR_* variables found through lookup
func applyEnv(cfg *entities.DoctorConfig, lookup func(string) (string, bool)) error {
	var errs *multierror.Error
	get := func(name string) (string, bool) {
		v, ok := lookup(envPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}
	str := func(name string, dst *string) {
		if v, ok := get(name); ok {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := get(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	str("PROJECT_DIR", &cfg.ProjectDir)
	str("VARIANT", &cfg.Variant)
	str("REPORT_DIR", &cfg.ReportDir)
	str("ASSEMBLE_COMMAND", &cfg.AssembleCommand)
	str("OWNERSHIP_DATA_FILE", &cfg.OwnershipDataFile)
	str("OWNERSHIP_SIGNATURE_FILE", &cfg.OwnershipSignatureFile)
	str("OWNERSHIP_KEYRING", &cfg.OwnershipKeyring)
	boolean("ASSEMBLE", &cfg.Assemble)
	boolean("FAIL_ON_VIOLATION", &cfg.FailOnViolation)
	boolean("SCAN_PACKAGES", &cfg.ScanPackages)
	boolean("SCAN_BUNDLES", &cfg.ScanBundles)

	if v, ok := get("MAX_ALIGN_THRESHOLD"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		switch {
		case err != nil:
			errs = multierror.Append(errs, fmt.Errorf("%sMAX_ALIGN_THRESHOLD: %w", envPrefix, err))
		case n == 0:
			errs = multierror.Append(errs, fmt.Errorf("%sMAX_ALIGN_THRESHOLD must be greater than 0", envPrefix))
		default:
			cfg.MaxAlignThreshold = n
		}
	}
	if v, ok := get("PARALLELISM"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%sPARALLELISM: %w", envPrefix, err))
		} else {
			cfg.Parallelism = n
		}
	}
	if v, ok := get("ABI_EXCLUSIONS"); ok {
		cfg.ABIExclusions = splitList(v)
	}

	str("S3_ENDPOINT", &cfg.Upload.Endpoint)
	str("S3_BUCKET", &cfg.Upload.Bucket)
	str("S3_PREFIX", &cfg.Upload.Prefix)
	str("S3_ACCESS_KEY", &cfg.Upload.AccessKey)
	str("S3_SECRET_KEY", &cfg.Upload.SecretKey)
	boolean("S3_USE_SSL", &cfg.Upload.UseSSL)

	return errs.ErrorOrNil()
}

// applyFlags overrides cfg with the flags explicitly set on the command line
func applyFlags(cmd *cobra.Command, opts *rootOptions, cfg *entities.DoctorConfig) {
	changed := cmd.Flags().Changed
	if changed("project-dir") {
		cfg.ProjectDir = opts.projectDir
	}
	if changed("variant") {
		cfg.Variant = opts.variant
	}
	if changed("report-dir") {
		cfg.ReportDir = opts.reportDir
	}
	if changed("threshold") && opts.threshold > 0 {
		cfg.MaxAlignThreshold = opts.threshold
	}
	if changed("parallelism") {
		cfg.Parallelism = opts.parallelism
	}
	if changed("fail-on-violation") {
		cfg.FailOnViolation = opts.failOnViolation
	}
	if changed("abi-exclude") {
		cfg.ABIExclusions = lo.Uniq(opts.abiExclusions)
	}
	if changed("scan-packages") {
		cfg.ScanPackages = opts.scanPackages
	}
	if changed("scan-bundles") {
		cfg.ScanBundles = opts.scanBundles
	}
	if changed("assemble") {
		cfg.Assemble = opts.assemble
	}
	if changed("assemble-command") {
		cfg.AssembleCommand = opts.assembleCommand
		cfg.Assemble = cfg.Assemble || !changed("assemble")
	}
}

func splitList(v string) []string {
	items := lo.Map(strings.Split(v, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Uniq(lo.Compact(items))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
