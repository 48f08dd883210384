package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslkit/minew-go/pkg/cli"
	"github.com/eslkit/minew-go/pkg/minew"
	"github.com/eslkit/minew-go/pkg/storage"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage display templates",
	Long: `Manage the display templates labels render: list the store's
templates, preview them as images, and upload new designs.

Previews come back from the platform as base64 image data. 'preview'
prints that data to stdout for piping, decodes it to a file with -o,
or stores the decoded image with --save.`,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates in a store",
	Long: `List templates in a store.

Examples:
  minew template list --store 100001
  minew template list --store 100001 --screening 1
  minew template list --store 100001 --inch 2.13 --color BWR`,
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
		screening, err := cmd.Flags().GetInt("screening")
		if err != nil {
			return fmt.Errorf("failed to read 'screening' flag: %w", err)
		}
		inch, err := cmd.Flags().GetFloat64("inch")
		if err != nil {
			return fmt.Errorf("failed to read 'inch' flag: %w", err)
		}
		color, err := cmd.Flags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to read 'color' flag: %w", err)
		}
		fuzzy, err := cmd.Flags().GetString("fuzzy")
		if err != nil {
			return fmt.Errorf("failed to read 'fuzzy' flag: %w", err)
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			templates, err := client.Template.List(ctx, minew.TemplateQuery{
				StoreID:   storeID,
				Page:      page,
				Size:      size,
				Screening: screening,
				Inch:      inch,
				Color:     color,
				Fuzzy:     fuzzy,
			})
			if err != nil {
				return fmt.Errorf("template list failed: %w", err)
			}
			return outputResult(templates, getOutputFile(), isJSONOutput())
		})
	},
}

var templatePreviewCmd = &cobra.Command{
	Use:   "preview <demo_name>",
	Short: "Render a template preview image",
	Long: `Render a template preview image. Without --data the template is
rendered empty; with --data it is filled from a product data record.

The platform returns the image as base64. By default the base64 data is
printed to stdout for piping. With -o the decoded image is written to
that file. With --save the decoded image is stored as <demo_name>.png
under a directory or an s3://bucket/prefix destination.

Examples:
  minew template preview 2.13-BWR | base64 -d > preview.png
  minew template preview 2.13-BWR -o preview.png
  minew template preview 2.13-BWR --data 23 --store 100001 --save s3://previews/esl`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		demoName := args[0]

		dataID, err := cmd.Flags().GetString("data")
		if err != nil {
			return fmt.Errorf("failed to read 'data' flag: %w", err)
		}
		saveDest, err := cmd.Flags().GetString("save")
		if err != nil {
			return fmt.Errorf("failed to read 'save' flag: %w", err)
		}

		var storeID string
		if dataID != "" {
			if storeID, err = storeFlag(cmd); err != nil {
				return err
			}
		}

		return runAction(longTimeout, func(ctx context.Context, client *minew.Client) error {
			var encoded string
			var err error
			if dataID != "" {
				encoded, err = client.Template.PreviewWithData(ctx, demoName, dataID, storeID)
			} else {
				encoded, err = client.Template.Preview(ctx, demoName)
			}
			if err != nil {
				return fmt.Errorf("template preview failed: %w", err)
			}
			if encoded == "" {
				return fmt.Errorf("platform returned an empty preview for %q", demoName)
			}

			if saveDest == "" && getOutputFile() == "" {
				// Raw base64 on stdout, pipe-friendly.
				fmt.Println(encoded)
				return nil
			}

			image, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return fmt.Errorf("preview is not valid base64: %w", err)
			}

			if saveDest != "" {
				name := previewFileName(demoName)
				if err := savePreview(ctx, saveDest, name, image); err != nil {
					return err
				}
				cli.PrintSuccess("Preview saved to %s/%s (%s)", strings.TrimRight(saveDest, "/"), name, cli.FormatBytesInt(len(image)))
				return nil
			}

			if err := cli.OutputBytes(image, getOutputFile()); err != nil {
				return err
			}
			cli.PrintSuccess("Preview written to %s (%s)", getOutputFile(), cli.FormatBytesInt(len(image)))
			return nil
		})
	},
}

// savePreview writes a decoded preview image through a FileStore.
func savePreview(ctx context.Context, dest, name string, image []byte) error {
	store, err := storage.Open(ctx, dest)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", dest, err)
	}
	w, err := store.Write(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	if _, err := w.Write(image); err != nil {
		w.Close()
		return fmt.Errorf("failed to write preview: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}

// previewFileName turns a template name into a safe .png file name.
func previewFileName(demoName string) string {
	var b strings.Builder
	for _, r := range demoName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String() + ".png"
}

var templateAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Upload a template to a store",
	Long: `Upload a template to a store and print its ID. The template content is
the definition exported by the platform designer, read from the
--content-file argument.

Example:
  minew template add shelf-2.13 --store 100001 --content-file shelf.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}
		content, err := templateContent(cmd)
		if err != nil {
			return err
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			id, err := client.Template.Add(ctx, storeID, args[0], content)
			if err != nil {
				return fmt.Errorf("template add failed: %w", err)
			}
			cli.PrintSuccess("Template %q created with ID %s", args[0], id)
			return nil
		})
	},
}

var templateUpdateCmd = &cobra.Command{
	Use:   "update <template_id>",
	Short: "Replace a template's name and content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}
		name, err := cmd.Flags().GetString("name")
		if err != nil {
			return fmt.Errorf("failed to read 'name' flag: %w", err)
		}
		if name == "" {
			return fmt.Errorf("--name is required")
		}
		content, err := templateContent(cmd)
		if err != nil {
			return err
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Template.Update(ctx, args[0], storeID, name, content)
			if err != nil {
				return fmt.Errorf("template update failed: %w", err)
			}
			cli.PrintSuccess("Template %s updated: %s", args[0], msg)
			return nil
		})
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <template_id>",
	Short: "Remove a template from a store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storeID, err := storeFlag(cmd)
		if err != nil {
			return err
		}

		return runAction(defaultTimeout, func(ctx context.Context, client *minew.Client) error {
			msg, err := client.Template.Delete(ctx, args[0], storeID)
			if err != nil {
				return fmt.Errorf("template delete failed: %w", err)
			}
			cli.PrintSuccess("Template %s removed: %s", args[0], msg)
			return nil
		})
	},
}

// templateContent reads the template definition from --content-file.
func templateContent(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("content-file")
	if err != nil {
		return "", fmt.Errorf("failed to read 'content-file' flag: %w", err)
	}
	if path == "" {
		return "", fmt.Errorf("--content-file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template content: %w", err)
	}
	return string(data), nil
}

func init() {
	templateListCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")
	templateListCmd.Flags().Int("page", 1, "Page number")
	templateListCmd.Flags().Int("size", 10, "Page size")
	templateListCmd.Flags().Int("screening", minew.TemplateScreeningAll, "0 all, 1 system, 2 store templates")
	templateListCmd.Flags().Float64("inch", 0, "Filter by screen size in inches")
	templateListCmd.Flags().String("color", "", "Filter by color scheme, such as BWR")
	templateListCmd.Flags().String("fuzzy", "", "Fuzzy filter by template name")

	templatePreviewCmd.Flags().String("data", "", "Product data record ID to fill the template with")
	templatePreviewCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")
	templatePreviewCmd.Flags().String("save", "", "Store the decoded image under a directory or s3://bucket/prefix")

	templateAddCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")
	templateAddCmd.Flags().String("content-file", "", "File holding the template definition (required)")

	templateUpdateCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")
	templateUpdateCmd.Flags().String("name", "", "New template name (required)")
	templateUpdateCmd.Flags().String("content-file", "", "File holding the template definition (required)")

	templateDeleteCmd.Flags().String("store", "", "Store ID (defaults to the context's default_store)")

	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templatePreviewCmd)
	templateCmd.AddCommand(templateAddCmd)
	templateCmd.AddCommand(templateUpdateCmd)
	templateCmd.AddCommand(templateDeleteCmd)
}
