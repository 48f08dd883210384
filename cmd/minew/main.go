// Package main provides the minew CLI tool.
//
// Usage:
//
//	minew [flags] <resource> <command> [args]
//
// Resources:
//
//	store    - Store management (add, open/close, warnings, logs, watch)
//	gateway  - Gateway management
//	label    - Electronic shelf label management
//	template - Display template management
//	data     - Product data management
//	export   - Store snapshot export
//	config   - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.minew/
//	Use 'minew config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/eslkit/minew-go/cmd/minew/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
