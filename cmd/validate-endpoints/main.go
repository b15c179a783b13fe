package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/marcelsud/webhook-debugger/endpoints"
)

/* validate-endpoints - Standalone CLI tool to validate endpoints.yaml
 * Usage: go run ./cmd/validate-endpoints [endpoints.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	endpointsFile := "endpoints.yaml"
	if len(os.Args) > 1 {
		endpointsFile = os.Args[1]
	}

	fmt.Printf("Validating endpoints file: %s\n", endpointsFile)
	fmt.Println(strings.Repeat("-", 50))

	loader := endpoints.NewLoader()
	if err := loader.Load(endpointsFile); err != nil {
		fmt.Fprintf(os.Stderr, "VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	loaded := loader.List()
	fmt.Printf("VALIDATION PASSED\n\n")
	fmt.Printf("Loaded %d endpoint(s):\n", len(loaded))

	for i, ep := range loaded {
		fmt.Printf("\n%d. Endpoint: %s (%s)\n", i+1, ep.ID, ep.Name)
		fmt.Printf("   Hook URL:      /hook/%s\n", ep.Path)
		fmt.Printf("   Active:        %t\n", ep.Active)
		fmt.Printf("   Verification:  %s\n", ep.VerificationMethod)

		switch {
		case ep.VerificationEnabled():
			fmt.Printf("   Secret:        set (%d chars)\n", len(ep.VerificationSecret))
		case ep.VerificationMethod.String() != "none":
			fmt.Printf("   Secret:        EMPTY, verification will be skipped\n")
		}
	}

	fmt.Printf("\nAll endpoints are valid!\n")
}
