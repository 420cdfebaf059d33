package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"image-gallery/pkg/services"
)

// newGenerateCmd creates a new command for generating the manifest
func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate the gallery manifest",
		Long: `Scan the image directory and write the gallery manifest, replacing any
previous one. Nothing is written if the image directory cannot be read.`,
		Example: `  # Scan ./images and write ./data/gallery.json
  image-gallery generate

  # Also render a static HTML index
  image-gallery generate --html public/index.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate()
		},
	}
}

// runGenerate writes the manifest and prints a summary line
func runGenerate() error {
	cfg, err := initService()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	gallery, err := services.Generate()
	if err != nil {
		return err
	}

	fmt.Printf("✓ %s generated with %d categories\n", filepath.Base(cfg.OutputFile), len(gallery.Categories))
	return nil
}
