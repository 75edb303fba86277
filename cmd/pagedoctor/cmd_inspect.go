package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ochairo/pagedoctor/internal/domain-adapters/gateways"
	"github.com/ochairo/pagedoctor/internal/domain/entities"
	"github.com/ochairo/pagedoctor/internal/domain/services"
)

// inspectRow is one measured library printed by inspect
type inspectRow struct {
	source     string
	path       string
	size       uint64
	compressed bool
	align      uint64
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.so|package>...",
		Short: "Print the alignment of shared objects or of every native library in archives",
		Long:  "inspect measures the given files with the threshold, ABI exclusions and failOnViolation of the loaded configuration.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			threshold := cfg.MaxAlignThreshold

			rows, err := inspectPaths(afero.NewOsFs(), args)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"source", "path", "abi", "size", "p_align", "compatible"})
			table.SetAutoFormatHeaders(false)
			table.SetAutoWrapText(false)
			table.SetBorder(false)

			incompatible, violations := 0, 0
			for _, r := range rows {
				abi := services.DetectABI(r.path)
				ok := services.IsCompatible(r.align, threshold)
				status := passLabel("yes")
				if !ok {
					status = failLabel("no")
					incompatible++
					if !lo.Contains(cfg.ABIExclusions, abi) {
						violations++
					}
				}
				size := humanize.IBytes(r.size)
				if r.compressed {
					size += " (deflated)"
				}
				table.Append([]string{r.source, r.path, abi, size, alignLabel(r.align), status})
			}
			table.Render()

			fmt.Fprintf(cmd.OutOrStdout(), "\n%d libraries, %d below %s\n",
				len(rows), incompatible, humanize.IBytes(threshold))
			if cfg.FailOnViolation && violations > 0 {
				return &entities.PolicyViolationError{Count: violations, ReportPath: strings.Join(args, ", ")}
			}
			return nil
		},
	}
}

func inspectPaths(fs afero.Fs, paths []string) ([]inspectRow, error) {
	lister := gateways.NewArchiveLister(fs)

	var rows []inspectRow
	for _, p := range paths {
		if services.IsNativeLibrary(p) {
			data, err := afero.ReadFile(fs, p)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", p, err)
			}
			rows = append(rows, inspectRow{
				source: filepath.Base(p),
				path:   p,
				size:   uint64(len(data)),
				align:  services.MaxAlignment(data),
			})
			continue
		}

		entries, err := lister.ListNativeLibraries(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			data, err := lister.ReadEntry(p, e.Name)
			if err != nil {
				return nil, err
			}
			rows = append(rows, inspectRow{
				source:     filepath.Base(p),
				path:       e.Name,
				size:       e.UncompressedSize,
				compressed: e.Compressed,
				align:      services.MaxAlignment(data),
			})
		}
	}

	return rows, nil
}
