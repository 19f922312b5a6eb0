package scanner

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cli/safeexec"
	"github.com/rs/zerolog"
)

// TrivyScanner implements Scanner for Trivy
type TrivyScanner struct {
	// Binary name or path to look up (defaults to "trivy")
	BinaryPath string

	Runner  CommandRunner
	Streams Streams

	// lookPath resolves BinaryPath; replaced in tests
	lookPath func(file string) (string, error)
}

// NewTrivyScanner creates a new Trivy scanner whose child inherits streams
func NewTrivyScanner(binaryPath string, streams Streams) *TrivyScanner {
	if binaryPath == "" {
		binaryPath = DefaultBinary
	}

	return &TrivyScanner{
		BinaryPath: binaryPath,
		Runner:     ExecRunner{},
		Streams:    streams,
		lookPath:   safeexec.LookPath,
	}
}

// Name returns the scanner name
func (s *TrivyScanner) Name() string {
	return "trivy"
}

// LookPath resolves the trivy binary on PATH
func (s *TrivyScanner) LookPath() (string, error) {
	path, err := s.lookPath(s.BinaryPath)
	if err != nil {
		return "", fmt.Errorf("look path %s: %w", s.BinaryPath, err)
	}
	return path, nil
}

// IsInstalled checks if Trivy is available
func (s *TrivyScanner) IsInstalled() bool {
	_, err := s.LookPath()
	return err == nil
}

// Version returns the Trivy version
func (s *TrivyScanner) Version(ctx context.Context) string {
	path, err := s.LookPath()
	if err != nil {
		return ""
	}

	output, err := s.Runner.Output(ctx, path, "--version")
	if err != nil {
		return "installed"
	}

	// Parse version from output (first line typically)
	lines := strings.Split(string(output), "\n")
	if first := strings.TrimSpace(lines[0]); first != "" {
		return first
	}

	return "installed"
}

// BuildArgs returns the trivy arguments for req, without the binary name
func (s *TrivyScanner) BuildArgs(req ScanRequest, scanPath string) []string {
	if scanPath == "" {
		scanPath = DefaultScanPath
	}

	args := []string{
		"fs",
		"--severity", req.Severity,
		"--format", req.Format.String(),
		"--exit-code", strconv.Itoa(req.ExitCode),
		"--scanners", req.Scanners,
	}

	if req.Config != nil {
		args = append(args, "--config", *req.Config)
	}
	if req.SkipDBUpdate {
		args = append(args, "--skip-db-update")
	}
	if req.Timeout != nil {
		args = append(args, "--timeout", *req.Timeout)
	}
	if req.IgnoreUnfixed {
		args = append(args, "--ignore-unfixed")
	}
	if req.TrivyIgnore != nil {
		args = append(args, "--ignorefile", *req.TrivyIgnore)
	}

	args = append(args, req.Args...)

	return append(args, scanPath)
}

// Argv returns the full command line, binary name first
func (s *TrivyScanner) Argv(req ScanRequest, scanPath string) []string {
	return append([]string{s.BinaryPath}, s.BuildArgs(req, scanPath)...)
}

// Run executes trivy and returns its exit status. Launch failures are
// reported on the error stream and mapped to ExitCodeError.
func (s *TrivyScanner) Run(ctx context.Context, req ScanRequest, scanPath string) int {
	logger := zerolog.Ctx(ctx)
	args := s.BuildArgs(req, scanPath)

	path, err := s.LookPath()
	if err != nil {
		fmt.Fprintf(s.Streams.Stderr, "Error running Trivy: %v\n", err)
		return ExitCodeError
	}

	logger.Debug().Str("binary", path).Strs("argv", s.Argv(req, scanPath)).Msg("starting trivy")

	code, err := s.Runner.Run(ctx, s.Streams, path, args...)
	if err != nil {
		logger.Debug().Err(err).Msg("trivy did not report an exit status")
		fmt.Fprintf(s.Streams.Stderr, "Error running Trivy: %v\n", err)
		return ExitCodeError
	}

	logger.Debug().Int("exit_code", code).Msg("trivy finished")
	return code
}
