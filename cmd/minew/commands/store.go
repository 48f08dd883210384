package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eslkit/minew-go/pkg/cli"
	"github.com/eslkit/minew-go/pkg/minew"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage stores",
	Long: `Manage stores: create and update them, toggle their open state, and
inspect their warnings and operation logs. 'watch' keeps polling
warnings and renders them in a live terminal frame.`,
}

var storeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a store",
	Long: `Create a store and print its ID.

Example:
  minew store add --number 321 --name "Main St" --address "1 Main St"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := cmd.Flags().GetString("number")
		if err != nil {
			return fmt.Errorf("failed to read 'number' flag: %w", err)
		}
		name, err := cmd.Flags().GetString("name")
		if err != nil {
			return fmt.Errorf("failed to read 'name' flag: %w", err)
		}
		address, err := cmd.Flags().GetString("address")
		if err != nil {
			return fmt.Errorf("failed to read 'address' flag: %w", err)
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			id, err := client.Store.Add(ctx, number, name, address)
			if err != nil {
				return fmt.Errorf("store add failed: %w", err)
			}
			cli.PrintSuccess("Store created with ID %s", id)
			return nil
		})
	},
}

var storeUpdateCmd = &cobra.Command{
	Use:   "update <store_id>",
	Short: "Update a store's name and address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		name, err := cmd.Flags().GetString("name")
		if err != nil {
			return fmt.Errorf("failed to read 'name' flag: %w", err)
		}
		address, err := cmd.Flags().GetString("address")
		if err != nil {
			return fmt.Errorf("failed to read 'address' flag: %w", err)
		}
		active, err := cmd.Flags().GetInt("active")
		if err != nil {
			return fmt.Errorf("failed to read 'active' flag: %w", err)
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Store.Update(ctx, id, name, address, active)
			if err != nil {
				return fmt.Errorf("store update failed: %w", err)
			}
			cli.PrintSuccess("Store %s updated: %s", id, msg)
			return nil
		})
	},
}

var storeOpenCmd = &cobra.Command{
	Use:   "open <store_id>",
	Short: "Open a store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStoreActive(args[0], minew.StoreOpen)
	},
}

var storeCloseCmd = &cobra.Command{
	Use:   "close <store_id>",
	Short: "Close a store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStoreActive(args[0], minew.StoreClosed)
	},
}

func setStoreActive(id string, active int) error {
	return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
		msg, err := client.Store.SetActive(ctx, id, active)
		if err != nil {
			return fmt.Errorf("store state change failed: %w", err)
		}
		cli.PrintSuccess("Store %s is now %s: %s", id, cli.FormatActive(active), msg)
		return nil
	})
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stores",
	RunE: func(cmd *cobra.Command, args []string) error {
		closed, err := cmd.Flags().GetBool("closed")
		if err != nil {
			return fmt.Errorf("failed to read 'closed' flag: %w", err)
		}
		condition, err := cmd.Flags().GetString("condition")
		if err != nil {
			return fmt.Errorf("failed to read 'condition' flag: %w", err)
		}

		active := minew.StoreOpen
		if closed {
			active = minew.StoreClosed
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			stores, err := client.Store.List(ctx, active, condition)
			if err != nil {
				return fmt.Errorf("store list failed: %w", err)
			}
			return outputResult(stores, getOutputFile(), isJSONOutput())
		})
	},
}

var storeWarningsCmd = &cobra.Command{
	Use:   "warnings [store_id]",
	Short: "List device warnings for a store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := resolveStoreID(argOrEmpty(args))
		if err != nil {
			return err
		}
		screening, err := screeningFlag(cmd)
		if err != nil {
			return err
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			warnings, err := client.Store.Warnings(ctx, storeID, screening)
			if err != nil {
				return fmt.Errorf("store warnings failed: %w", err)
			}
			return outputResult(warnings, getOutputFile(), isJSONOutput())
		})
	},
}

var storeLogsCmd = &cobra.Command{
	Use:   "logs [store_id]",
	Short: "List operation logs for a store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := resolveStoreID(argOrEmpty(args))
		if err != nil {
			return err
		}

		object, err := cmd.Flags().GetString("object")
		if err != nil {
			return fmt.Errorf("failed to read 'object' flag: %w", err)
		}
		objectType, err := logObjectType(object)
		if err != nil {
			return err
		}

		action, err := cmd.Flags().GetString("action")
		if err != nil {
			return fmt.Errorf("failed to read 'action' flag: %w", err)
		}
		actionType, err := logActionType(action)
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
			logs, err := client.Store.Logs(ctx, minew.LogQuery{
				StoreID:     storeID,
				CurrentPage: page,
				PageSize:    size,
				ObjectType:  objectType,
				ActionType:  actionType,
				Condition:   condition,
			})
			if err != nil {
				return fmt.Errorf("store logs failed: %w", err)
			}
			return outputResult(logs, getOutputFile(), isJSONOutput())
		})
	},
}

var storeWatchCmd = &cobra.Command{
	Use:   "watch [store_id]",
	Short: "Poll store warnings and render a live view",
	Long: `Poll a store's device warnings on an interval and render them in a
terminal frame together with a rolling activity log. Stop with ctrl+c.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := resolveStoreID(argOrEmpty(args))
		if err != nil {
			return err
		}
		screening, err := screeningFlag(cmd)
		if err != nil {
			return err
		}
		interval, err := cmd.Flags().GetDuration("interval")
		if err != nil {
			return fmt.Errorf("failed to read 'interval' flag: %w", err)
		}
		if interval < time.Second {
			return fmt.Errorf("--interval must be at least 1s, got %s", interval)
		}
		width, err := cmd.Flags().GetInt("width")
		if err != nil {
			return fmt.Errorf("failed to read 'width' flag: %w", err)
		}
		height, err := cmd.Flags().GetInt("height")
		if err != nil {
			return fmt.Errorf("failed to read 'height' flag: %w", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			<-sigCh
			cancel()
		}()

		return runWithClient(ctx, func(ctx context.Context, client *minew.Client) error {
			return watchStore(ctx, client, storeID, screening, interval, width, height)
		})
	},
}

// watchStore runs the poll-and-redraw loop. The first poll propagates its
// error so bad credentials or store IDs surface before the screen is taken
// over; later poll failures land in the activity log and the loop keeps
// going.
func watchStore(ctx context.Context, client *minew.Client, storeID string, screening minew.Screening, interval time.Duration, width, height int) error {
	var (
		mu           sync.Mutex
		warningLines []string
	)
	activity := cli.NewRingLog(64)

	frame := cli.Frame{
		Styles: cli.NewStyles(cli.DefaultTheme),
		Title:  "minew watch " + storeID,
		Status: interval.String(),
		Sections: []cli.Section{
			{Label: "Warnings", Content: func() []string {
				mu.Lock()
				defer mu.Unlock()
				return warningLines
			}},
			{Label: "Activity", Content: activity.Lines},
		},
		Help: "ctrl+c quit",
	}

	poll := func() error {
		start := time.Now()
		warnings, err := client.Store.Warnings(ctx, storeID, screening)
		stamp := time.Now().Format("15:04:05")
		if err != nil {
			activity.Append(fmt.Sprintf("[%s] poll failed: %v", stamp, err))
			return err
		}
		lines := make([]string, 0, len(warnings))
		for _, w := range warnings {
			lines = append(lines, fmt.Sprintf("%s  %-10s %-8s %s", w.Timestamp, w.Type, w.Level, w.ID))
		}
		mu.Lock()
		warningLines = lines
		mu.Unlock()
		took := cli.FormatDuration(int(time.Since(start).Milliseconds()))
		activity.Append(fmt.Sprintf("[%s] %d warning(s) in %s", stamp, len(warnings), took))
		return nil
	}

	redraw := func() {
		fmt.Print(cli.ClearScreen)
		fmt.Println(frame.Render(width, height))
	}

	if err := poll(); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	redraw()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case <-ticker.C:
			poll()
			redraw()
		}
	}
}

// argOrEmpty returns the single optional positional argument.
func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// screeningFlag reads and validates the --screening flag.
func screeningFlag(cmd *cobra.Command) (minew.Screening, error) {
	s, err := cmd.Flags().GetString("screening")
	if err != nil {
		return "", fmt.Errorf("failed to read 'screening' flag: %w", err)
	}
	switch minew.Screening(s) {
	case minew.ScreeningBrush, minew.ScreeningUpgrade:
		return minew.Screening(s), nil
	default:
		return "", fmt.Errorf("--screening must be %q or %q, got %q",
			minew.ScreeningBrush, minew.ScreeningUpgrade, s)
	}
}

// logObjectType maps the --object flag to the platform's numeric code.
func logObjectType(object string) (string, error) {
	switch object {
	case "labels":
		return "1", nil
	case "lights":
		return "5", nil
	default:
		return "", fmt.Errorf("--object must be 'labels' or 'lights', got %q", object)
	}
}

// logActionType maps the --action flag to the platform's numeric code.
func logActionType(action string) (string, error) {
	switch action {
	case "":
		return "", nil
	case "refresh":
		return "1", nil
	case "upgrade":
		return "2", nil
	default:
		return "", fmt.Errorf("--action must be 'refresh' or 'upgrade', got %q", action)
	}
}

func init() {
	storeAddCmd.Flags().String("number", "", "Store number (required)")
	storeAddCmd.Flags().String("name", "", "Store name (required)")
	storeAddCmd.Flags().String("address", "", "Store address (required)")

	storeUpdateCmd.Flags().String("name", "", "New store name")
	storeUpdateCmd.Flags().String("address", "", "New store address")
	storeUpdateCmd.Flags().Int("active", minew.StoreOpen, "Store active state (1 open, 0 closed)")

	storeListCmd.Flags().Bool("closed", false, "List closed stores instead of open ones")
	storeListCmd.Flags().String("condition", "", "Fuzzy filter on store fields")

	storeWarningsCmd.Flags().String("screening", string(minew.ScreeningBrush), "Warning family: brush or upgrade")

	storeLogsCmd.Flags().String("object", "labels", "Log object: labels or lights")
	storeLogsCmd.Flags().String("action", "", "Filter by action: refresh or upgrade")
	storeLogsCmd.Flags().Int("page", 1, "Page number")
	storeLogsCmd.Flags().Int("size", 10, "Page size")
	storeLogsCmd.Flags().String("condition", "", "Fuzzy filter, such as a MAC address")

	storeWatchCmd.Flags().String("screening", string(minew.ScreeningBrush), "Warning family: brush or upgrade")
	storeWatchCmd.Flags().Duration("interval", 30*time.Second, "Poll interval")
	storeWatchCmd.Flags().Int("width", 100, "Frame width in columns")
	storeWatchCmd.Flags().Int("height", 30, "Frame height in rows")

	storeCmd.AddCommand(storeAddCmd)
	storeCmd.AddCommand(storeUpdateCmd)
	storeCmd.AddCommand(storeOpenCmd)
	storeCmd.AddCommand(storeCloseCmd)
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeWarningsCmd)
	storeCmd.AddCommand(storeLogsCmd)
	storeCmd.AddCommand(storeWatchCmd)
}
