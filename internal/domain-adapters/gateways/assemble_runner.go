package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
	"github.com/ochairo/pagedoctor/internal/domain/interfaces"
)

// ShellAssembleRunner runs the host build command that produces packages before a scan
type ShellAssembleRunner struct {
	defaultTimeout time.Duration
	logger         interfaces.Logger
}

// NewShellAssembleRunner creates a new assemble runner
func NewShellAssembleRunner(logger interfaces.Logger) *ShellAssembleRunner {
	return &ShellAssembleRunner{
		defaultTimeout: 30 * time.Minute,
		logger:         interfaces.OrNoOp(logger),
	}
}

// CommandConfig contains configuration for executing a shell command
type CommandConfig struct {
	Script      string
	WorkingDir  string
	Env         map[string]string
	Timeout     time.Duration
	Description string
}

// CommandResult contains the result of command execution
type CommandResult struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// Assemble runs cfg.AssembleCommand in the project directory.
// VARIANT and the expected output directories are exported to the command.
func (r *ShellAssembleRunner) Assemble(ctx context.Context, cfg entities.DoctorConfig) error {
	if err := r.ValidateScript(cfg.AssembleCommand); err != nil {
		return fmt.Errorf("invalid assemble command: %w", err)
	}

	result := r.Execute(ctx, CommandConfig{
		Script:     cfg.AssembleCommand,
		WorkingDir: cfg.ProjectDir,
		Env: map[string]string{
			"VARIANT":      cfg.Variant,
			"PACKAGES_DIR": cfg.PackagesDir,
			"BUNDLE_DIR":   cfg.BundleDir,
		},
		Timeout:     cfg.AssembleTimeout,
		Description: "assemble " + cfg.Variant,
	})

	if !result.Success {
		return fmt.Errorf("assemble command failed (exit %d): %w\nStderr: %s",
			result.ExitCode, result.Error, result.Stderr)
	}

	r.logger.Info("assemble completed",
		interfaces.F("variant", cfg.Variant),
		interfaces.F("duration", result.Duration.Round(time.Millisecond)))
	return nil
}

// Execute runs a shell command with the given configuration
func (r *ShellAssembleRunner) Execute(ctx context.Context, config CommandConfig) *CommandResult {
	startTime := time.Now()
	result := &CommandResult{}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = r.defaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // G204: Command execution is intentional and controlled by project configuration
	cmd := exec.CommandContext(execCtx, "/bin/sh", "-c", config.Script)
	if config.WorkingDir != "" {
		cmd.Dir = config.WorkingDir
	}

	env := os.Environ()
	for key, value := range config.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if config.Description != "" {
		r.logger.Info("executing", interfaces.F("step", config.Description))
	}

	err := cmd.Run()
	result.Duration = time.Since(startTime)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		result.Error = err
		var exitErr *exec.ExitError
		//nolint:gocritic // ifElseChain: checking different error types, not suitable for switch
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			result.Error = fmt.Errorf("command timeout after %v", timeout)
			result.ExitCode = -1
		} else if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		return result
	}

	result.Success = true
	return result
}

// ValidateScript performs basic validation on a shell command
func (r *ShellAssembleRunner) ValidateScript(script string) error {
	if strings.TrimSpace(script) == "" {
		return fmt.Errorf("script is empty")
	}

	dangerous := []string{
		"rm -rf /",
		"mkfs",
		"dd if=/dev/zero",
		":(){:|:&};:",
	}

	for _, pattern := range dangerous {
		if strings.Contains(script, pattern) {
			return fmt.Errorf("script contains potentially dangerous pattern: %s", pattern)
		}
	}

	return nil
}
