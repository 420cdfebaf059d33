package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"image-gallery/pkg/services"
)

// newPublishCmd creates a new command for publishing the manifest to Cloud Storage
func newPublishCmd() *cobra.Command {
	var skipGenerate bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Generate the manifest and upload it to Cloud Storage",
		Long: `Generate the gallery manifest and upload it to the Google Cloud Storage bucket
given by BUCKET_NAME, under OBJECT_NAME. The rendered HTML index is uploaded
next to it when HTML_OUTPUT is set.`,
		Example: `  image-gallery publish --bucket my-gallery --object site/data/gallery.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initService()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := cfg.RequireBucket(); err != nil {
				return err
			}

			if !skipGenerate {
				gallery, err := services.Generate()
				if err != nil {
					return err
				}
				fmt.Printf("Generated manifest with %d categories\n", len(gallery.Categories))
			}

			service := services.Default()
			existing, err := service.ListPublished(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Objects currently in gs://%s:\n", cfg.BucketName)
			for _, name := range existing {
				fmt.Printf("  - %s\n", name)
			}

			if err := service.Publish(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("✓ Published %s to gs://%s\n", cfg.OutputFile, cfg.BucketName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipGenerate, "skip-generate", false, "Upload the existing manifest without regenerating it")

	return cmd
}
