package ui

import "fmt"

// Summary lines printed around the scan.
const (
	ScanStarting    = "🔍 Running Trivy security scan..."
	ScanClean       = "✅ No vulnerabilities found!"
	ScanFindings    = "❌ Vulnerabilities found! Please review the output above."
	ScanFailed      = "❌ Trivy scan failed with an error."
	CheckingHeading = "🔍 Checking dependencies..."
)

// InstallGuidance explains how to get the scanner binary onto PATH.
func InstallGuidance(binary string) string {
	return fmt.Sprintf(`Error: %s is not installed or not available in PATH.
Please install Trivy from: https://trivy.dev/
Installation methods:
  - macOS: brew install trivy
  - Linux (apt): sudo apt-get install trivy
  - Binary: https://github.com/aquasecurity/trivy/releases`, binary)
}
