// Command trivy-scan runs Trivy as a pre-commit hook.
package main

import (
	"context"
	"os"

	"github.com/liam-witterick/pre-commit-trivy/internal/hook"
)

func main() {
	os.Exit(hook.New().Main(context.Background(), os.Args[1:]))
}
