// Package hook wires the pre-commit entry point: it checks that trivy is
// installed, parses the hook's flags, runs the scan and reports the result.
package hook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/liam-witterick/pre-commit-trivy/internal/config"
	"github.com/liam-witterick/pre-commit-trivy/internal/logging"
	"github.com/liam-witterick/pre-commit-trivy/internal/progress"
	"github.com/liam-witterick/pre-commit-trivy/internal/scanner"
	"github.com/liam-witterick/pre-commit-trivy/internal/ui"
)

const commandName = "trivy-scan"

// Version of the hook binary, overridden at build time with -ldflags
var Version = "1.0.0"

// Hook runs one pre-commit invocation
type Hook struct {
	Stdout io.Writer
	Stderr io.Writer

	// ScanPath is the directory handed to trivy
	ScanPath string

	// LoadConfig returns the repository's hook configuration
	LoadConfig func() (*config.HookConfig, error)

	// NewScanner builds the scanner for the configured binary
	NewScanner func(cfg *config.HookConfig) scanner.Scanner

	Styles   ui.Styles
	Terminal ui.Terminal
}

// New returns a hook bound to the process's streams and working directory
func New() *Hook {
	terminal := ui.DetectTerminal()

	h := &Hook{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		ScanPath: scanner.DefaultScanPath,
		LoadConfig: func() (*config.HookConfig, error) {
			return config.LoadHookConfig(".")
		},
		Styles:   ui.NewStyles(terminal.Color),
		Terminal: terminal,
	}
	h.NewScanner = func(cfg *config.HookConfig) scanner.Scanner {
		return scanner.NewTrivyScanner(cfg.BinaryName(), scanner.Streams{
			Stdin:  os.Stdin,
			Stdout: h.Stdout,
			Stderr: h.Stderr,
		})
	}
	return h
}

// Main runs the hook with args (without the program name) and returns the
// process exit code
func (h *Hook) Main(ctx context.Context, args []string) int {
	cfg, err := h.LoadConfig()
	if err != nil {
		fmt.Fprintf(h.Stderr, "Error: failed to load hook config: %v\n", err)
		return scanner.ExitCodeError
	}

	sc := h.NewScanner(cfg)
	if !sc.IsInstalled() {
		fmt.Fprintln(h.Stderr, ui.InstallGuidance(cfg.BinaryName()))
		return scanner.ExitCodeError
	}

	status := scanner.ExitCodeClean
	cmd := h.newCommand(cfg, sc, &status)

	// cobra resolves hidden subcommands such as __complete from the leading
	// tokens; "--" stops that lookup and RunE strips it again
	cmd.SetArgs(append([]string{"--"}, args...))

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(h.Stderr, "Error: %v\n", err)
		if IsUsageError(err) {
			fmt.Fprintf(h.Stderr, "Run '%s --help' for usage.\n", commandName)
		}
		return scanner.ExitCodeError
	}

	return status
}

func (h *Hook) newCommand(cfg *config.HookConfig, sc scanner.Scanner, status *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   commandName + " [flags] [-- trivy-args...]",
		Short: "Run Trivy security scanner as a pre-commit hook",
		Long: `Run Trivy security scanner as a pre-commit hook

Scans the repository with "trivy fs" and exits with trivy's status:
    0  no vulnerabilities found
    1  vulnerabilities found (or the value of --exit-code)
    2  trivy is missing or could not be run

Arguments after "--" are passed to trivy unchanged.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && args[0] == "--" {
				args = args[1:]
			}

			inv, err := parseInvocation(args, cfg.Defaults)
			if errors.Is(err, pflag.ErrHelp) {
				*status = scanner.ExitCodeClean
				return cmd.Help()
			}
			if err != nil {
				return err
			}

			logger := logging.New(h.Stderr, inv.verbose)
			ctx := logger.WithContext(cmd.Context())

			if cfg.Path != "" {
				logger.Debug().Str("path", cfg.Path).Msg("loaded hook config")
			}

			switch {
			case inv.version:
				fmt.Fprintf(h.Stdout, "%s v%s\n", commandName, Version)
				*status = scanner.ExitCodeClean
			case inv.check:
				*status = h.check(ctx, sc)
			default:
				*status = h.scan(ctx, sc, inv.request)
			}
			return nil
		},
	}

	cmd.SetOut(h.Stdout)
	cmd.SetErr(h.Stderr)
	cmd.CompletionOptions.DisableDefaultCmd = true

	// Bound for the help text only; RunE parses the raw tokens itself
	bindScanFlags(cmd.Flags(), cfg.Defaults)
	bindHookFlags(cmd.Flags())

	return cmd
}

// scan runs trivy and prints a one-line verdict. The exit status is
// returned unchanged.
func (h *Hook) scan(ctx context.Context, sc scanner.Scanner, req scanner.ScanRequest) int {
	fmt.Fprintln(h.Stdout, ui.ScanStarting)

	code := sc.Run(ctx, req, h.ScanPath)

	switch {
	case code == scanner.ExitCodeClean:
		fmt.Fprintln(h.Stdout, h.Styles.Success.Render(ui.ScanClean))
	case code == req.ExitCode, code == scanner.ExitCodeFindings:
		fmt.Fprintln(h.Stderr, h.Styles.Warning.Render(ui.ScanFindings))
	default:
		fmt.Fprintln(h.Stderr, h.Styles.Error.Render(ui.ScanFailed))
	}

	zerolog.Ctx(ctx).Debug().Int("exit_code", code).Msg("scan complete")
	return code
}

// check reports where trivy lives and which version it is
func (h *Hook) check(ctx context.Context, sc scanner.Scanner) int {
	fmt.Fprintln(h.Stdout, ui.CheckingHeading)

	path, err := sc.LookPath()
	if err != nil {
		fmt.Fprintf(h.Stdout, "   ❌ %s (missing)\n", sc.Name())
		return scanner.ExitCodeError
	}

	var spinner *progress.Spinner
	if h.Terminal.Interactive {
		spinner = progress.NewSpinner(h.Stderr, "Checking "+sc.Name()+" version")
	}
	version := sc.Version(ctx)
	spinner.Clear()

	fmt.Fprintf(h.Stdout, "   ✅ %s (%s, %s)\n", sc.Name(), path, version)
	return scanner.ExitCodeClean
}
