package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslkit/minew-go/pkg/cli"
	"github.com/eslkit/minew-go/pkg/minew"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage electronic shelf labels",
	Long: `Manage electronic shelf labels: register them, bind product data to
them, trigger display refreshes and firmware upgrades, and flash their
LEDs to locate them on the shelf.`,
}

var labelAddCmd = &cobra.Command{
	Use:   "add <mac>",
	Short: "Register a label in a store",
	Long: `Register a label by MAC address. The MAC may use any common separator
style; it is normalized before sending.

Example:
  minew label add AC233FC03B52 --store 100001 --demo 2.13-BWR`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mac := cli.NormalizeMAC(args[0])

		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}
		demo, err := cmd.Flags().GetString("demo")
		if err != nil {
			return fmt.Errorf("failed to read 'demo' flag: %w", err)
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			id, err := client.Label.Add(ctx, mac, storeID, demo)
			if err != nil {
				return fmt.Errorf("label add failed: %w", err)
			}
			if id == "" {
				cli.PrintSuccess("Label %s registered", mac)
			} else {
				cli.PrintSuccess("Label %s registered with ID %s", mac, id)
			}
			return nil
		})
	},
}

var labelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List labels in a store",
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
			labels, err := client.Label.List(ctx, storeID, page, size, condition)
			if err != nil {
				return fmt.Errorf("label list failed: %w", err)
			}
			return outputResult(labels, getOutputFile(), isJSONOutput())
		})
	},
}

var labelDeleteCmd = &cobra.Command{
	Use:   "delete <label_id>",
	Short: "Remove a label from a store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Label.Delete(ctx, args[0], storeID)
			if err != nil {
				return fmt.Errorf("label delete failed: %w", err)
			}
			cli.PrintSuccess("Label %s removed: %s", args[0], msg)
			return nil
		})
	},
}

var labelUpdateCmd = &cobra.Command{
	Use:   "update <label_id>",
	Short: "Rename a label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := cmd.Flags().GetString("name")
		if err != nil {
			return fmt.Errorf("failed to read 'name' flag: %w", err)
		}
		if name == "" {
			return fmt.Errorf("--name is required")
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Label.Update(ctx, args[0], name)
			if err != nil {
				return fmt.Errorf("label update failed: %w", err)
			}
			cli.PrintSuccess("Label %s renamed to %q: %s", args[0], name, msg)
			return nil
		})
	},
}

var labelBindCmd = &cobra.Command{
	Use:   "bind <label_id>",
	Short: "Bind a product data record to a label",
	Long: `Bind a product data record to a label. The label display refreshes
with the bound product's fields.

Example:
  minew label bind 17 --data 23 --store 100001`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}
		dataID, err := cmd.Flags().GetString("data")
		if err != nil {
			return fmt.Errorf("failed to read 'data' flag: %w", err)
		}
		if dataID == "" {
			return fmt.Errorf("--data is required")
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Label.Bind(ctx, args[0], dataID, storeID)
			if err != nil {
				return fmt.Errorf("label bind failed: %w", err)
			}
			cli.PrintSuccess("Label %s bound to data %s: %s", args[0], dataID, msg)
			return nil
		})
	},
}

var labelUnbindCmd = &cobra.Command{
	Use:   "unbind <label_id>",
	Short: "Dissolve a label's product binding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Label.Unbind(ctx, args[0], storeID)
			if err != nil {
				return fmt.Errorf("label unbind failed: %w", err)
			}
			cli.PrintSuccess("Label %s unbound: %s", args[0], msg)
			return nil
		})
	},
}

var labelRefreshCmd = &cobra.Command{
	Use:   "refresh <label_id>...",
	Short: "Redraw label displays",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Label.Refresh(ctx, args, storeID)
			if err != nil {
				return fmt.Errorf("label refresh failed: %w", err)
			}
			cli.PrintSuccess("%d label(s) refreshing: %s", len(args), msg)
			return nil
		})
	},
}

var labelUpgradeCmd = &cobra.Command{
	Use:   "upgrade <label_id>...",
	Short: "Push a firmware upgrade to labels",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}
		firmware, err := cmd.Flags().GetString("firmware")
		if err != nil {
			return fmt.Errorf("failed to read 'firmware' flag: %w", err)
		}
		if firmware == "" {
			return fmt.Errorf("--firmware is required")
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Label.Upgrade(ctx, args, storeID, firmware)
			if err != nil {
				return fmt.Errorf("label upgrade failed: %w", err)
			}
			cli.PrintSuccess("%d label(s) upgrading to %s: %s", len(args), firmware, msg)
			return nil
		})
	},
}

var labelFindCmd = &cobra.Command{
	Use:   "find <mac>",
	Short: "Look up a label by MAC address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mac := cli.NormalizeMAC(args[0])

		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			label, err := client.Label.FindByMac(ctx, mac, storeID)
			if err != nil {
				return fmt.Errorf("label find failed: %w", err)
			}
			if label.MAC == "" && label.ID == "" {
				return fmt.Errorf("no label with MAC %s in store %s", mac, storeID)
			}
			return outputResult(label, getOutputFile(), isJSONOutput())
		})
	},
}

var labelFlashCmd = &cobra.Command{
	Use:   "flash <label_id>",
	Short: "Flash a label's LED to locate it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}
		static, err := cmd.Flags().GetBool("static")
		if err != nil {
			return fmt.Errorf("failed to read 'static' flag: %w", err)
		}

		mode := minew.FlashBlinking
		if static {
			mode = minew.FlashStatic
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Label.Flash(ctx, args[0], storeID, mode)
			if err != nil {
				return fmt.Errorf("label flash failed: %w", err)
			}
			cli.PrintSuccess("Label %s LED on: %s", args[0], msg)
			return nil
		})
	},
}

func init() {
	labelAddCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")
	labelAddCmd.Flags().String("demo", "", "Template name the label starts out with")

	labelListCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")
	labelListCmd.Flags().Int("page", 1, "Page number")
	labelListCmd.Flags().Int("size", 10, "Page size")
	labelListCmd.Flags().String("condition", "", "Fuzzy filter by MAC or name")

	labelDeleteCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")

	labelUpdateCmd.Flags().String("name", "", "New label name (required)")

	labelBindCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")
	labelBindCmd.Flags().String("data", "", "Product data record ID (required)")

	labelUnbindCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")

	labelRefreshCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")

	labelUpgradeCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")
	labelUpgradeCmd.Flags().String("firmware", "", "Target firmware version (required)")

	labelFindCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")

	labelFlashCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")
	labelFlashCmd.Flags().Bool("static", false, "Light the LED steadily instead of blinking")

	labelCmd.AddCommand(labelAddCmd)
	labelCmd.AddCommand(labelListCmd)
	labelCmd.AddCommand(labelDeleteCmd)
	labelCmd.AddCommand(labelUpdateCmd)
	labelCmd.AddCommand(labelBindCmd)
	labelCmd.AddCommand(labelUnbindCmd)
	labelCmd.AddCommand(labelRefreshCmd)
	labelCmd.AddCommand(labelUpgradeCmd)
	labelCmd.AddCommand(labelFindCmd)
	labelCmd.AddCommand(labelFlashCmd)
}
