package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslkit/minew-go/pkg/cli"
	"github.com/eslkit/minew-go/pkg/minew"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and cache a session token",
	Long: `Log in to the platform with the context's credentials and cache the
session token. Other commands log in on demand, so this is only needed
to verify credentials or to refresh the cached token by hand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			if err := client.Login(ctx); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			printVerbose("Token: %s", cli.MaskToken(client.Token()))
			cli.PrintSuccess("Logged in as %s", client.Username())
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the cached session token",
	Long: `Drop the cached session token for the active context. The platform has
no server-side logout; this only clears the local cache so the next
command logs in fresh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := cmd.Flags().GetBool("all")
		if err != nil {
			return fmt.Errorf("failed to read 'all' flag: %w", err)
		}

		cache := openSessionCache()
		if cache == nil {
			return fmt.Errorf("session cache unavailable")
		}
		defer cache.Close()

		ctx := context.Background()
		if all {
			n, err := cache.DropAll(ctx)
			if err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}
			cli.PrintSuccess("Cleared %d cached session(s)", n)
			return nil
		}

		cliCtx, err := getContext()
		if err != nil {
			return err
		}
		if err := cache.Drop(ctx, cliCtx.Name); err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}
		cli.PrintSuccess("Logged out of context %q", cliCtx.Name)
		return nil
	},
}

func init() {
	logoutCmd.Flags().Bool("all", false, "Drop cached sessions for every context")
}
