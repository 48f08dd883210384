package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"

	"github.com/eslkit/minew-go/pkg/cli"
	"github.com/eslkit/minew-go/pkg/minew"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage product data records",
	Long: `Manage the product data records templates render from. Records are
free-form field maps, so add and update read them from a JSON or YAML
request file given with -f (or from stdin with -f -).

Pass --schema with a JSON Schema file to validate a record before it
is sent, which catches field typos the platform would silently accept.

Examples:
  minew data add -f product.yaml --store 100001
  minew data add -f product.json --schema product.schema.json
  minew data update 23 -f product.yaml
  minew data list --store 100001 --condition cola`,
}

var dataAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Upload a product record",
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}
		product, err := loadProduct(cmd)
		if err != nil {
			return err
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			id, err := client.Data.Add(ctx, storeID, product)
			if err != nil {
				return fmt.Errorf("data add failed: %w", err)
			}
			cli.PrintSuccess("Product record created with data ID %s", id)
			return nil
		})
	},
}

var dataUpdateCmd = &cobra.Command{
	Use:   "update <data_id>",
	Short: "Replace the fields of a product record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}
		product, err := loadProduct(cmd)
		if err != nil {
			return err
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Data.Update(ctx, args[0], storeID, product)
			if err != nil {
				return fmt.Errorf("data update failed: %w", err)
			}
			cli.PrintSuccess("Product record %s updated: %s", args[0], msg)
			return nil
		})
	},
}

var dataDeleteCmd = &cobra.Command{
	Use:   "delete <data_id>",
	Short: "Remove a product record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Data.Delete(ctx, args[0], storeID)
			if err != nil {
				return fmt.Errorf("data delete failed: %w", err)
			}
			cli.PrintSuccess("Product record %s removed: %s", args[0], msg)
			return nil
		})
	},
}

var dataListCmd = &cobra.Command{
	Use:   "list",
	Short: "List product records in a store",
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}
		page, err := cmd.Flags().GetInt("page")
		if err != nil {
			return fmt.Errorf("failed to read 'page' flag: %w", err)
		}
		size, err := cmd.Flags().GetInt("size")
		if err != nil {
			return fmt.Errorf("failed to read 'size' flag: %w", err)
		}
		condition, err := cmd.Flags().GetString("condition")
		if err != nil {
			return fmt.Errorf("failed to read 'condition' flag: %w", err)
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			dataPage, err := client.Data.List(ctx, storeID, page, size, condition)
			if err != nil {
				return fmt.Errorf("data list failed: %w", err)
			}
			return outputResult(dataPage, getOutputFile(), isJSONOutput())
		})
	},
}

var dataBindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "List product records bound to labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}
		page, err := cmd.Flags().GetInt("page")
		if err != nil {
			return fmt.Errorf("failed to read 'page' flag: %w", err)
		}
		size, err := cmd.Flags().GetInt("size")
		if err != nil {
			return fmt.Errorf("failed to read 'size' flag: %w", err)
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			dataPage, err := client.Data.Bindings(ctx, storeID, page, size)
			if err != nil {
				return fmt.Errorf("data bindings failed: %w", err)
			}
			return outputResult(dataPage, getOutputFile(), isJSONOutput())
		})
	},
}

// loadProduct reads a product record from the -f request file and runs the
// optional --schema validation against it.
func loadProduct(cmd *cobra.Command) (minew.Product, error) {
	if err := requireInputFile(); err != nil {
		return nil, err
	}

	var product minew.Product
	if getInputFile() == "-" {
		if err := cli.LoadRequestFromStdin(&product); err != nil {
			return nil, err
		}
	} else if err := cli.LoadRequest(getInputFile(), &product); err != nil {
		return nil, err
	}
	if len(product) == 0 {
		return nil, fmt.Errorf("request file holds no product fields")
	}

	schemaPath, err := cmd.Flags().GetString("schema")
	if err != nil {
		return nil, fmt.Errorf("failed to read 'schema' flag: %w", err)
	}
	if schemaPath != "" {
		if err := validateProduct(schemaPath, product); err != nil {
			return nil, err
		}
	}
	return product, nil
}

// validateProduct checks a product record against a JSON Schema file.
func validateProduct(schemaPath string, product minew.Product) error {
	data, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return fmt.Errorf("failed to parse schema: %w", err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("failed to resolve schema: %w", err)
	}

	if err := resolved.Validate(map[string]any(product)); err != nil {
		return fmt.Errorf("product record fails schema %s: %w", schemaPath, err)
	}
	printVerbose("Product record passes schema %s", schemaPath)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{dataAddCmd, dataUpdateCmd, dataDeleteCmd, dataListCmd, dataBindingsCmd} {
		c.Flags().String("store", "", "Store ID (defaults to the context's default_store)")
	}
	dataAddCmd.Flags().String("schema", "", "JSON Schema file to validate the record against")
	dataUpdateCmd.Flags().String("schema", "", "JSON Schema file to validate the record against")

	dataListCmd.Flags().Int("page", 1, "Page number")
	dataListCmd.Flags().Int("size", 10, "Page size")
	dataListCmd.Flags().String("condition", "", "Filter records by a product field value")

	dataBindingsCmd.Flags().Int("page", 1, "Page number")
	dataBindingsCmd.Flags().Int("size", 10, "Page size")

	dataCmd.AddCommand(dataAddCmd)
	dataCmd.AddCommand(dataUpdateCmd)
	dataCmd.AddCommand(dataDeleteCmd)
	dataCmd.AddCommand(dataListCmd)
	dataCmd.AddCommand(dataBindingsCmd)
}
