package scanner

import (
	"context"
	"fmt"
	"strings"
)

// Scanner defines the interface for the external security scanner
type Scanner interface {
	// Name returns the scanner name
	Name() string

	// IsInstalled checks if the scanner is available
	IsInstalled() bool

	// LookPath resolves the scanner binary on PATH
	LookPath() (string, error)

	// Version returns the scanner version if installed
	Version(ctx context.Context) string

	// Run executes a scan of scanPath and returns the process exit status
	Run(ctx context.Context, req ScanRequest, scanPath string) int
}

// Exit codes returned to pre-commit
const (
	ExitCodeClean    = 0
	ExitCodeFindings = 1
	ExitCodeError    = 2
)

// Defaults applied when neither a flag nor the hook config sets a value
const (
	DefaultBinary   = "trivy"
	DefaultSeverity = "HIGH,CRITICAL"
	DefaultScanners = "vuln"
	DefaultExitCode = ExitCodeFindings
	DefaultScanPath = "."
)

// Format is a trivy report format
type Format string

const (
	FormatTable     Format = "table"
	FormatJSON      Format = "json"
	FormatSARIF     Format = "sarif"
	FormatTemplate  Format = "template"
	FormatCycloneDX Format = "cyclonedx"
	FormatSPDX      Format = "spdx"
	FormatGitHub    Format = "github"
)

var formats = []Format{
	FormatTable,
	FormatJSON,
	FormatSARIF,
	FormatTemplate,
	FormatCycloneDX,
	FormatSPDX,
	FormatGitHub,
}

// FormatNames returns the supported formats as a comma-separated list
func FormatNames() string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	for _, f := range formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q (must be one of: %s)", name, FormatNames())
}

// String implements pflag.Value
func (f Format) String() string {
	return string(f)
}

// Set implements pflag.Value
func (f *Format) Set(name string) error {
	parsed, err := ParseFormat(name)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value
func (f *Format) Type() string {
	return "format"
}

// ScanRequest holds the resolved options for one scan.
// Optional values are nil when unset.
type ScanRequest struct {
	Severity      string
	Format        Format
	ExitCode      int
	Config        *string
	SkipDBUpdate  bool
	Scanners      string
	Timeout       *string
	IgnoreUnfixed bool
	TrivyIgnore   *string

	// Args are passed to trivy verbatim, before the scan path
	Args []string
}

// DefaultScanRequest returns a request with every default applied
func DefaultScanRequest() ScanRequest {
	return ScanRequest{
		Severity: DefaultSeverity,
		Format:   FormatTable,
		ExitCode: DefaultExitCode,
		Scanners: DefaultScanners,
	}
}
