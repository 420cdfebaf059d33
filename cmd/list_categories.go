package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"image-gallery/pkg/models"
	"image-gallery/pkg/services"
)

// newListCategoriesCmd creates a new command for listing categories
func newListCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-categories",
		Short: "List all image categories",
		Long:  `List all image categories in manifest order with the number of images in each.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := initService(); err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			gallery, err := services.GetGallery()
			if err != nil {
				return err
			}
			listCategories(os.Stdout, gallery)
			return nil
		},
	}
}

// listCategories displays all categories and their subcategories
func listCategories(w io.Writer, gallery models.Gallery) {
	fmt.Fprintln(w, "Image Categories:")
	fmt.Fprintln(w, "================")

	var printTree func(categories []models.Category, depth int)
	printTree = func(categories []models.Category, depth int) {
		indent := strings.Repeat("  ", depth)
		for _, category := range categories {
			fmt.Fprintf(w, "%s%s (%s)\n", indent, category.Title, category.ID)
			fmt.Fprintf(w, "%s  Images: %d\n", indent, category.ImageCount())
			printTree(category.Subcategories, depth+1)
		}
	}
	printTree(gallery.Categories, 0)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total: %d categories\n", len(gallery.Categories))
}
