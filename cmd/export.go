package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"image-gallery/pkg/services"
)

// newExportCmd creates a new command for exporting gallery data
func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [format]",
		Short: "Export gallery data",
		Long: `Print the gallery manifest to standard output without writing any file.
Currently supported formats: json.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := initService(); err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			format := "json"
			if len(args) > 0 {
				format = args[0]
			}
			return exportData(format)
		},
	}
}

// exportData exports gallery data in the specified format
func exportData(format string) error {
	if format != "json" {
		return fmt.Errorf("unsupported export format: %s (supported formats: json)", format)
	}

	gallery, err := services.GetGallery()
	if err != nil {
		return err
	}

	return services.EncodeManifest(os.Stdout, gallery)
}
