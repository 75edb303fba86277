// pagedoctor checks that the native libraries packaged in Android apps are aligned for 16KB page sizes.
//
// Usage:
//
//	pagedoctor run [--assemble] [--fail-on-violation] [--abi-exclude=<abi>...]
//	pagedoctor scan
//	pagedoctor owners
//	pagedoctor report [--fail-on-violation]
//	pagedoctor inspect <file.so|package>...
//	pagedoctor watch
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

// version is set at build time via -ldflags.
var version = "dev"

const (
	exitOK              = 0
	exitError           = 1
	exitPolicyViolation = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command line and returns the process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "%s %v\n", color.RedString("Error:"), err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	var violation *entities.PolicyViolationError
	if errors.As(err, &violation) {
		return exitPolicyViolation
	}
	return exitError
}
