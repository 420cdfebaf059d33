package models

import (
	"fmt"
	"strings"
)

// IDSeparator joins path segments in the id of a nested category
const IDSeparator = "::"

// Gallery is the root document written to the manifest file
type Gallery struct {
	Categories []Category `json:"categories"`
}

// Category represents one directory of the image tree
type Category struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Images        []Image    `json:"images,omitempty"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

// Image represents an image file inside a category directory
type Image struct {
	File  string `json:"file"`
	Title string `json:"title"`
}

// Index represents the rendered index page data
type Index struct {
	Title      string
	Categories []Category
	Sections   []Section
}

// Section is one category of the index page, flattened out of the tree
type Section struct {
	ID     string
	Anchor string
	Title  string
	Depth  int
	Images []IndexImage
}

// IndexImage is an image of the index page with its resolved source path
type IndexImage struct {
	Src   string
	Title string
}

// Name returns the directory name the category was built from
func (c Category) Name() string {
	if i := strings.LastIndex(c.ID, IDSeparator); i != -1 {
		return c.ID[i+len(IDSeparator):]
	}
	return c.ID
}

// Path returns the slash separated path of the category relative to the image root
func (c Category) Path() string {
	return strings.ReplaceAll(c.ID, IDSeparator, "/")
}

// ImageCount returns the number of images in the category and all of its subcategories
func (c Category) ImageCount() int {
	count := len(c.Images)
	for _, sub := range c.Subcategories {
		count += sub.ImageCount()
	}
	return count
}

// Find returns the category with the given id at any depth
func (g Gallery) Find(id string) (Category, error) {
	if c, ok := find(g.Categories, id); ok {
		return c, nil
	}
	return Category{}, fmt.Errorf("category not found: %s", id)
}

func find(categories []Category, id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
		// nested ids always extend their parent's id
		if strings.HasPrefix(id, c.ID+IDSeparator) {
			return find(c.Subcategories, id)
		}
	}
	return Category{}, false
}
