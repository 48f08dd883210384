package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/eslkit/minew-go/pkg/cli"
	"github.com/eslkit/minew-go/pkg/minew"
	"github.com/eslkit/minew-go/pkg/storage"
)

// storeSnapshot is the export document: everything the platform knows
// about one store at the time of the export.
type storeSnapshot struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	BaseURL   string           `json:"baseUrl"`
	StoreID   string           `json:"storeId"`
	Store     *minew.Store     `json:"store,omitempty"`
	Gateways  []minew.Gateway  `json:"gateways"`
	Labels    []minew.Label    `json:"labels"`
	Templates []minew.Template `json:"templates"`
	Products  []minew.Product  `json:"products"`
	Bindings  []minew.Product  `json:"bindings"`
	Warnings  []minew.Warning  `json:"warnings"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a store snapshot",
	Long: `Export everything the platform knows about one store into a single
JSON snapshot document: the store record, its gateways, labels,
templates, product records, label bindings, and open warnings.

The snapshot is written under --to, which is either a local directory
or an s3://bucket/prefix destination. Every list endpoint is walked
page by page, so large stores export completely.

Examples:
  minew export --store 100001 --to ./backups
  minew export --store 100001 --to s3://esl-backups/daily`,
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}
		dest, err := cmd.Flags().GetString("to")
		if err != nil {
			return fmt.Errorf("failed to read 'to' flag: %w", err)
		}
		if dest == "" {
			return fmt.Errorf("--to is required")
		}
		pageSize, err := cmd.Flags().GetInt("page-size")
		if err != nil {
			return fmt.Errorf("failed to read 'page-size' flag: %w", err)
		}
		if pageSize < 1 {
			return fmt.Errorf("--page-size must be at least 1")
		}

		return runAction(longTimeout, func(ctx context.Context, client *minew.Client) error {
			snap, err := collectSnapshot(ctx, client, storeID, pageSize)
			if err != nil {
				return err
			}
			name, err := writeSnapshot(ctx, dest, snap)
			if err != nil {
				return err
			}
			cli.PrintSuccess("Exported store %s to %s/%s (%d gateways, %d labels, %d templates, %d products)",
				storeID, strings.TrimRight(dest, "/"), name,
				len(snap.Gateways), len(snap.Labels), len(snap.Templates), len(snap.Products))
			return nil
		})
	},
}

// collectSnapshot walks every list endpoint of one store and assembles the
// snapshot document.
func collectSnapshot(ctx context.Context, client *minew.Client, storeID string, pageSize int) (*storeSnapshot, error) {
	snap := &storeSnapshot{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		BaseURL:   client.BaseURL(),
		StoreID:   storeID,
	}

	snap.Store = findStore(ctx, client, storeID)
	if snap.Store == nil {
		printVerbose("store %s not found in the account's store lists", storeID)
	}

	for page := 1; ; page++ {
		gateways, err := client.Gateway.List(ctx, storeID, page, pageSize)
		if err != nil {
			return nil, fmt.Errorf("export: listing gateways: %w", err)
		}
		snap.Gateways = append(snap.Gateways, gateways...)
		if len(gateways) < pageSize {
			break
		}
	}
	printVerbose("collected %d gateways", len(snap.Gateways))

	for page := 1; ; page++ {
		labels, err := client.Label.List(ctx, storeID, page, pageSize, "")
		if err != nil {
			return nil, fmt.Errorf("export: listing labels: %w", err)
		}
		snap.Labels = append(snap.Labels, labels.Items...)
		if len(labels.Items) < pageSize || labels.IsMore == 0 {
			break
		}
	}
	printVerbose("collected %d labels", len(snap.Labels))

	for page := 1; ; page++ {
		templates, err := client.Template.List(ctx, minew.TemplateQuery{
			StoreID:   storeID,
			Page:      page,
			Size:      pageSize,
			Screening: minew.TemplateScreeningAll,
		})
		if err != nil {
			return nil, fmt.Errorf("export: listing templates: %w", err)
		}
		snap.Templates = append(snap.Templates, templates...)
		if len(templates) < pageSize {
			break
		}
	}
	printVerbose("collected %d templates", len(snap.Templates))

	for page := 1; ; page++ {
		products, err := client.Data.List(ctx, storeID, page, pageSize, "")
		if err != nil {
			return nil, fmt.Errorf("export: listing product records: %w", err)
		}
		snap.Products = append(snap.Products, products.Items...)
		if len(products.Items) < pageSize || products.IsMore == 0 {
			break
		}
	}
	printVerbose("collected %d product records", len(snap.Products))

	for page := 1; ; page++ {
		bindings, err := client.Data.Bindings(ctx, storeID, page, pageSize)
		if err != nil {
			return nil, fmt.Errorf("export: listing bindings: %w", err)
		}
		snap.Bindings = append(snap.Bindings, bindings.Items...)
		if len(bindings.Items) < pageSize || bindings.IsMore == 0 {
			break
		}
	}

	for _, screening := range []minew.Screening{minew.ScreeningBrush, minew.ScreeningUpgrade} {
		warnings, err := client.Store.Warnings(ctx, storeID, screening)
		if err != nil {
			return nil, fmt.Errorf("export: listing %s warnings: %w", screening, err)
		}
		snap.Warnings = append(snap.Warnings, warnings...)
	}

	return snap, nil
}

// findStore looks the store record up in the account's open and closed
// store lists. A missing record does not fail the export.
func findStore(ctx context.Context, client *minew.Client, storeID string) *minew.Store {
	for _, active := range []int{minew.StoreOpen, minew.StoreClosed} {
		stores, err := client.Store.List(ctx, active, "")
		if err != nil {
			printVerbose("store lookup failed: %v", err)
			return nil
		}
		for i := range stores {
			if stores[i].ID.String() == storeID {
				return &stores[i]
			}
		}
	}
	return nil
}

// writeSnapshot writes the snapshot document under dest and returns the
// object name.
func writeSnapshot(ctx context.Context, dest string, snap *storeSnapshot) (string, error) {
	store, err := storage.Open(ctx, dest)
	if err != nil {
		return "", fmt.Errorf("failed to open %q: %w", dest, err)
	}

	name := fmt.Sprintf("store-%s/%s-%.8s.json", snap.StoreID, snap.CreatedAt.Format("20060102-150405"), snap.ID)
	w, err := store.Write(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return name, nil
}

func init() {
	exportCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")
	exportCmd.Flags().String("to", "", "Destination directory or s3://bucket/prefix (required)")
	exportCmd.Flags().Int("page-size", 100, "Page size used when walking list endpoints")
}
