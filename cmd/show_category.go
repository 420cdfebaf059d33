package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"image-gallery/pkg/models"
	"image-gallery/pkg/services"
)

// newShowCategoryCmd creates a new command for showing category details
func newShowCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-category [id]",
		Short: "Show images in a specific category",
		Long: `Show the images of a category identified by its id, newest first.
Nested categories use "::" between path segments, e.g. "animals::cats".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := initService(); err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			category, err := services.GetCategory(args[0])
			if err != nil {
				return err
			}
			showCategory(os.Stdout, category)
			return nil
		},
	}
}

// showCategory displays details about a specific category
func showCategory(w io.Writer, category models.Category) {
	fmt.Fprintf(w, "Category: %s\n", category.Title)
	fmt.Fprintf(w, "Path: %s\n", category.Path())
	fmt.Fprintf(w, "Images: %d\n", len(category.Images))
	fmt.Fprintln(w, "================")

	for i, image := range category.Images {
		fmt.Fprintf(w, "%d. %s\n", i+1, image.Title)
		fmt.Fprintf(w, "   File: %s\n", image.File)
	}

	if len(category.Subcategories) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Subcategories:")
		for _, sub := range category.Subcategories {
			fmt.Fprintf(w, "  - %s (%s)\n", sub.Title, sub.ID)
		}
	}
}
