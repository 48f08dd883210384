package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/eslkit/minew-go/pkg/cli"
)

var (
	// Global flags
	cfgFile     string
	contextName string
	outputFile  string
	inputFile   string
	outputJSON  bool
	jqExpr      string
	verbose     bool

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "minew",
	Short: "Minew ESL cloud platform CLI tool",
	Long: `minew - A command line interface for the Minew electronic shelf label cloud.

This tool manages the resources of an ESL deployment:
  - Stores, their warnings, operation logs, and a live watch view
  - Gateways (add, restart, firmware upgrades)
  - Labels (bind product data, refresh, LED flashing)
  - Display templates with rendered previews
  - Product data records, optionally validated against a JSON Schema
  - Full store snapshots exported to a directory or S3 bucket

Configuration is stored in ~/.minew/ and supports multiple contexts,
similar to kubectl's context management. Login tokens are cached between
invocations, so commands only re-authenticate when a session expires.

Examples:
  # Set up a new context
  minew config add-context prod --username NAME --password PASS

  # List stores, labels, product data
  minew -c prod store list
  minew -c prod label list --store 100001
  minew -c prod data list --store 100001 --jq '.items[].sku'

  # Bind a product record to a label
  minew -c prod label bind --label 17 --data 23 --store 100001

  # Export a store snapshot to S3
  minew -c prod export --store 100001 --to s3://backups/esl
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "", "config file (default is ~/.minew/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "input request file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().StringVar(&jqExpr, "jq", "", "filter output through a jq expression")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(gatewayCmd)
	rootCmd.AddCommand(labelCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	// Configure slog based on verbose flag
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	var err error
	globalConfig, err = cli.LoadConfigWithPath(cfgFile)
	if err != nil {
		// Warn but don't exit; config-free commands like version still work.
		fmt.Fprintf(os.Stderr, "Warning: config: %v\n", err)
	}
}

// getConfig returns the global configuration
func getConfig() *cli.Config {
	return globalConfig
}

// getContext returns the context configuration to use
func getContext() (*cli.Context, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	ctx, err := cfg.ResolveContext(contextName)
	if err != nil {
		if contextName == "" {
			return nil, fmt.Errorf("no context specified. Use -c flag or set a default context with 'minew config use-context'")
		}
		return nil, err
	}

	return ctx, nil
}

// getInputFile returns the input file path
func getInputFile() string {
	return inputFile
}

// getOutputFile returns the output file path
func getOutputFile() string {
	return outputFile
}

// isJSONOutput returns whether output should be JSON
func isJSONOutput() bool {
	return outputJSON
}

// isVerbose returns whether verbose mode is enabled
func isVerbose() bool {
	return verbose
}

// printVerbose prints verbose output if enabled
func printVerbose(format string, args ...any) {
	cli.PrintVerbose(verbose, format, args...)
}
