package services

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/eknkc/pug"
	"github.com/eknkc/pug/compiler"

	"image-gallery/pkg/models"
)

//go:embed templates/index.pug
var defaultIndexTemplate string

// IndexTitle is the heading of the rendered index page
const IndexTitle = "Gallery"

// NewIndex flattens the gallery into index page sections, parents before
// their subcategories. Image sources are resolved against imageBase.
func NewIndex(gallery models.Gallery, imageBase string) models.Index {
	index := models.Index{
		Title:      IndexTitle,
		Categories: gallery.Categories,
	}
	var walk func(categories []models.Category, depth int, parent string)
	walk = func(categories []models.Category, depth int, parent string) {
		for _, c := range categories {
			title := c.Title
			if parent != "" {
				title = parent + " / " + c.Title
			}

			section := models.Section{
				ID:     sectionID(c.ID),
				Anchor: "#" + sectionID(c.ID),
				Title:  title,
				Depth:  depth,
			}
			for _, img := range c.Images {
				section.Images = append(section.Images, models.IndexImage{
					Src:   path.Join(imageBase, c.Path(), img.File),
					Title: img.Title,
				})
			}
			if len(section.Images) > 0 {
				index.Sections = append(index.Sections, section)
			}
			walk(c.Subcategories, depth+1, title)
		}
	}
	walk(gallery.Categories, 0, "")
	return index
}

// RenderIndex renders the gallery as an HTML page. An empty templateFile
// selects the embedded default template.
func RenderIndex(w io.Writer, index models.Index, templateFile string) error {
	tpl, err := compileIndexTemplate(templateFile)
	if err != nil {
		return fmt.Errorf("failed to compile index template: %w", err)
	}

	if err := tpl.Execute(w, index); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}
	return nil
}

func compileIndexTemplate(templateFile string) (*template.Template, error) {
	if templateFile == "" {
		return pug.CompileString(defaultIndexTemplate, pug.Options{})
	}

	abs, err := filepath.Abs(templateFile)
	if err != nil {
		return nil, err
	}
	// includes resolve against the template's own directory
	return pug.CompileFile(filepath.Base(abs), pug.Options{
		Dir: compiler.FsDir(filepath.Dir(abs)),
	})
}

// WriteIndex renders the gallery index to a file
func WriteIndex(file string, index models.Index, templateFile string) error {
	var buf bytes.Buffer
	if err := RenderIndex(&buf, index, templateFile); err != nil {
		return err
	}
	return writeFileAtomic(file, buf.Bytes())
}

// sectionID turns a category id into an HTML id
func sectionID(id string) string {
	return strings.ReplaceAll(id, models.IDSeparator, "--")
}
