package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslkit/minew-go/pkg/cli"
	"github.com/eslkit/minew-go/pkg/minew"
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Manage gateways",
	Long: `Manage the gateways that bridge shelf labels to the cloud: register
them in a store, rename, restart, and push firmware upgrades.`,
}

var gatewayAddCmd = &cobra.Command{
	Use:   "add <mac>",
	Short: "Register a gateway in a store",
	Long: `Register a gateway by MAC address. The MAC may use any common
separator style; it is normalized before sending.

Example:
  minew gateway add AC:23:3F:C0:3B:52 --name dock-1 --store 100001`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mac := cli.NormalizeMAC(args[0])

		name, err := cmd.Flags().GetString("name")
		if err != nil {
			return fmt.Errorf("failed to read 'name' flag: %w", err)
		}
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Gateway.Add(ctx, mac, name, storeID)
			if err != nil {
				return fmt.Errorf("gateway add failed: %w", err)
			}
			cli.PrintSuccess("Gateway %s registered: %s", mac, msg)
			return nil
		})
	},
}

var gatewayDeleteCmd = &cobra.Command{
	Use:   "delete <gateway_id>",
	Short: "Remove a gateway from a store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Gateway.Delete(ctx, args[0], storeID)
			if err != nil {
				return fmt.Errorf("gateway delete failed: %w", err)
			}
			cli.PrintSuccess("Gateway %s removed: %s", args[0], msg)
			return nil
		})
	},
}

var gatewayListCmd = &cobra.Command{
	Use:   "list",
	Short: "List gateways in a store",
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
			gateways, err := client.Gateway.List(ctx, storeID, page, size)
			if err != nil {
				return fmt.Errorf("gateway list failed: %w", err)
			}
			return outputResult(gateways, getOutputFile(), isJSONOutput())
		})
	},
}

var gatewayUpdateCmd = &cobra.Command{
	Use:   "update <gateway_id>",
	Short: "Rename a gateway",
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
			msg, err := client.Gateway.Update(ctx, args[0], name)
			if err != nil {
				return fmt.Errorf("gateway update failed: %w", err)
			}
			cli.PrintSuccess("Gateway %s renamed to %q: %s", args[0], name, msg)
			return nil
		})
	},
}

var gatewayRestartCmd = &cobra.Command{
	Use:   "restart <gateway_id>",
	Short: "Reboot a gateway",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Gateway.Restart(ctx, args[0], storeID)
			if err != nil {
				return fmt.Errorf("gateway restart failed: %w", err)
			}
			cli.PrintSuccess("Gateway %s restarting: %s", args[0], msg)
			return nil
		})
	},
}

var gatewayUpgradeCmd = &cobra.Command{
	Use:   "upgrade <gateway_id>",
	Short: "Push a firmware upgrade to a gateway",
	Args:  cobra.ExactArgs(1),
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
			msg, err := client.Gateway.Upgrade(ctx, args[0], storeID, firmware)
			if err != nil {
				return fmt.Errorf("gateway upgrade failed: %w", err)
			}
			cli.PrintSuccess("Gateway %s upgrading to %s: %s", args[0], firmware, msg)
			return nil
		})
	},
}

// storeFlag reads --store and falls back to the context's default store.
func storeFlag(cmd *cobra.Command) (string, error) {
	explicit, err := cmd.Flags().GetString("store")
	if err != nil {
		return "", fmt.Errorf("failed to read 'store' flag: %w", err)
	}
	return resolveStoreID(explicit)
}

func init() {
	gatewayAddCmd.Flags().String("name", "", "Gateway display name")
	gatewayAddCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")

	gatewayDeleteCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")

	gatewayListCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")
	gatewayListCmd.Flags().Int("page", 1, "Page number")
	gatewayListCmd.Flags().Int("size", 10, "Page size")

	gatewayUpdateCmd.Flags().String("name", "", "New gateway name (required)")

	gatewayRestartCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")

	gatewayUpgradeCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")
	gatewayUpgradeCmd.Flags().String("firmware", "", "Target firmware version (required)")

	gatewayCmd.AddCommand(gatewayAddCmd)
	gatewayCmd.AddCommand(gatewayDeleteCmd)
	gatewayCmd.AddCommand(gatewayListCmd)
	gatewayCmd.AddCommand(gatewayUpdateCmd)
	gatewayCmd.AddCommand(gatewayRestartCmd)
	gatewayCmd.AddCommand(gatewayUpgradeCmd)
}
