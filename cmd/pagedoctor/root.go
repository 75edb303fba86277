package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

// rootOptions holds the flags shared by every command
type rootOptions struct {
	configFile      string
	envFile         string
	projectDir      string
	variant         string
	reportDir       string
	threshold       uint64
	parallelism     int
	failOnViolation bool
	abiExclusions   []string
	scanPackages    bool
	scanBundles     bool
	logLevel        string
	noColor         bool

	assemble        bool
	assembleCommand string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	defaults := entities.DefaultDoctorConfig()

	cmd := &cobra.Command{
		Use:   "pagedoctor",
		Short: "Audit Android packages for 16KB page size compatibility",
		Long: "pagedoctor reads the program header alignment of every native library packaged\n" +
			"in APKs and app bundles, attributes incompatible libraries to their owning module\n" +
			"or dependency and renders CSV, Markdown and HTML reports with a pass/fail verdict.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configFile, "config", "", "Config file (default <project-dir>/pagedoctor.yml when present)")
	f.StringVar(&opts.envFile, "env-file", "", "Env file with PAGEDOCTOR_* settings (default <project-dir>/.env when present)")
	f.StringVar(&opts.projectDir, "project-dir", defaults.ProjectDir, "Android project directory")
	f.StringVar(&opts.variant, "variant", defaults.Variant, "Build variant whose outputs are scanned")
	f.StringVar(&opts.reportDir, "report-dir", "", "Report directory (default <project-dir>/build/pagedoctor/reports)")
	f.Uint64Var(&opts.threshold, "threshold", defaults.MaxAlignThreshold, "Minimum p_align in bytes")
	f.IntVar(&opts.parallelism, "parallelism", defaults.Parallelism, "Concurrent library reads (<= 0 uses all CPUs)")
	f.BoolVar(&opts.failOnViolation, "fail-on-violation", defaults.FailOnViolation, "Exit with status 2 when incompatible libraries are found")
	f.StringSliceVar(&opts.abiExclusions, "abi-exclude", nil, "ABI whose violations do not fail the run (repeatable)")
	f.BoolVar(&opts.scanPackages, "scan-packages", defaults.ScanPackages, "Scan installable packages (.apk)")
	f.BoolVar(&opts.scanBundles, "scan-bundles", defaults.ScanBundles, "Scan app bundles (.aab, .zip)")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		newRunCmd(opts),
		newScanCmd(opts),
		newOwnersCmd(opts),
		newReportCmd(opts),
		newInspectCmd(opts),
		newWatchCmd(opts),
	)
	return cmd
}
