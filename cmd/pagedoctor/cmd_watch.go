package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
	"github.com/ochairo/pagedoctor/internal/domain/interfaces"
)

const defaultDebounce = 300 * time.Millisecond

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var (
		debounce time.Duration
		initial  bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the pipeline whenever a package or bundle in the output directories changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.watch(cmd.Context(), cmd, debounce, initial)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "Quiet period after the last change before re-running")
	cmd.Flags().BoolVar(&initial, "initial", true, "Run once before waiting for changes")
	return cmd
}

// watchDirs returns the output directories of the enabled candidate sources
func watchDirs(cfg entities.DoctorConfig) []string {
	var dirs []string
	if cfg.ScanPackages {
		dirs = append(dirs, cfg.PackagesDir)
	}
	if cfg.ScanBundles {
		dirs = append(dirs, cfg.BundleDir)
	}
	return lo.Uniq(dirs)
}

// isCandidateEvent reports whether ev touches a package or bundle file
func isCandidateEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(ev.Name))
	return lo.Contains(entities.PackageExtensions, ext) || lo.Contains(entities.BundleExtensions, ext)
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, debounce time.Duration, initial bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init failed: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // closing on exit

	// output directories are created so a watch can start before the first build
	for _, dir := range watchDirs(a.cfg) {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		a.logger.Info("watching", interfaces.F("dir", dir))
	}

	out := cmd.OutOrStdout()
	runOnce := func() {
		result, err := a.doctor.Run(ctx)
		if result != nil {
			printReport(out, result)
		}
		var violation *entities.PolicyViolationError
		if err != nil && !errors.As(err, &violation) {
			a.logger.Error("pipeline failed", interfaces.Err(err))
		}
	}
	if initial {
		runOnce()
	}

	trigger := make(chan struct{}, 1)
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isCandidateEvent(ev) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
		case <-trigger:
			runOnce()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", interfaces.Err(err))
		}
	}
}
