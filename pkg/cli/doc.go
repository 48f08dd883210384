// Package cli provides common utilities for the minew command-line tool.
//
// This package includes:
//   - Configuration management (named platform contexts)
//   - Output formatting (YAML, JSON, jq filters)
//   - Request file loading (YAML/JSON)
//   - Session token caching between invocations
//
// Configuration is stored in the ~/.minew/ directory, supporting
// multiple contexts similar to kubectl.
//
// Example usage:
//
//	// Load the CLI configuration
//	cfg, err := cli.LoadConfig()
//
//	// Resolve the active context
//	ctx, err := cfg.ResolveContext("")
//
//	// Output result
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    File:   outputPath,
//	})
package cli
