package hook

import (
	"errors"
	"io"

	"github.com/spf13/pflag"

	"github.com/liam-witterick/pre-commit-trivy/internal/config"
	"github.com/liam-witterick/pre-commit-trivy/internal/scanner"
)

// UsageError reports malformed command-line input
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// scanOptions are the flags translated into trivy arguments
type scanOptions struct {
	severity      string
	format        scanner.Format
	exitCode      int
	config        string
	skipDBUpdate  bool
	scanners      string
	timeout       string
	ignoreUnfixed bool
	trivyIgnore   string
}

// hookOptions are the flags consumed by the hook itself
type hookOptions struct {
	verbose bool
	check   bool
	version bool
}

// bindScanFlags registers the trivy-facing flags on fs. Values from d
// replace the built-in defaults.
func bindScanFlags(fs *pflag.FlagSet, d config.Defaults) *scanOptions {
	base := scanner.DefaultScanRequest()
	o := &scanOptions{
		format: base.Format,
	}
	if d.Format != "" {
		// Already validated when the config was loaded
		o.format = scanner.Format(d.Format)
	}

	exitCode := base.ExitCode
	if d.ExitCode != nil {
		exitCode = *d.ExitCode
	}

	fs.StringVar(&o.severity, "severity", orDefault(d.Severity, base.Severity),
		"Comma-separated list of severities to check")
	fs.Var(&o.format, "format",
		"Output format ("+scanner.FormatNames()+")")
	fs.IntVar(&o.exitCode, "exit-code", exitCode,
		"Exit code when vulnerabilities are found")
	fs.StringVar(&o.config, "config", d.Config,
		"Path to custom trivy.yaml configuration file")
	fs.BoolVar(&o.skipDBUpdate, "skip-db-update", d.SkipDBUpdate,
		"Skip Trivy database update (faster for repeated scans)")
	fs.StringVar(&o.scanners, "scanners", orDefault(d.Scanners, base.Scanners),
		"Comma-separated list of scanners to use (vuln,misconfig,secret,license)")
	fs.StringVar(&o.timeout, "timeout", d.Timeout,
		"Timeout for the scan (e.g., 5m0s)")
	fs.BoolVar(&o.ignoreUnfixed, "ignore-unfixed", d.IgnoreUnfixed,
		"Ignore unfixed vulnerabilities")
	fs.StringVar(&o.trivyIgnore, "trivyignore", d.TrivyIgnore,
		"Path to .trivyignore file")

	return o
}

func bindHookFlags(fs *pflag.FlagSet) *hookOptions {
	o := &hookOptions{}
	fs.BoolVar(&o.verbose, "verbose", false, "Log hook diagnostics to stderr")
	fs.BoolVar(&o.check, "check", false, "Check that trivy is installed, show its version and exit")
	fs.BoolVar(&o.version, "version", false, "Show version")
	return o
}

// request freezes the parsed flags and passthrough args into a ScanRequest
func (o *scanOptions) request(args []string) scanner.ScanRequest {
	return scanner.ScanRequest{
		Severity:      o.severity,
		Format:        o.format,
		ExitCode:      o.exitCode,
		Config:        optional(o.config),
		SkipDBUpdate:  o.skipDBUpdate,
		Scanners:      o.scanners,
		Timeout:       optional(o.timeout),
		IgnoreUnfixed: o.ignoreUnfixed,
		TrivyIgnore:   optional(o.trivyIgnore),
		Args:          append([]string{}, args...),
	}
}

// invocation is one parsed command line
type invocation struct {
	request scanner.ScanRequest
	verbose bool
	check   bool
	version bool
}

// Parse translates command-line tokens into a ScanRequest. It does no I/O:
// the same tokens and defaults always give the same request. Tokens that
// are not flags, and everything after "--", are passed through to trivy.
func Parse(tokens []string, defaults config.Defaults) (scanner.ScanRequest, error) {
	inv, err := parseInvocation(tokens, defaults)
	if err != nil {
		return scanner.ScanRequest{}, err
	}
	return inv.request, nil
}

// parseInvocation parses tokens with both the trivy-facing and hook flags.
// A help flag yields a UsageError wrapping pflag.ErrHelp.
func parseInvocation(tokens []string, defaults config.Defaults) (invocation, error) {
	fs := pflag.NewFlagSet(commandName, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	scanOpts := bindScanFlags(fs, defaults)
	hookOpts := bindHookFlags(fs)

	if err := fs.Parse(tokens); err != nil {
		return invocation{}, &UsageError{Err: err}
	}

	return invocation{
		request: scanOpts.request(fs.Args()),
		verbose: hookOpts.verbose,
		check:   hookOpts.check,
		version: hookOpts.version,
	}, nil
}

// IsUsageError reports whether err came from malformed input
func IsUsageError(err error) bool {
	var usageErr *UsageError
	return errors.As(err, &usageErr)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
