package services

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"image-gallery/pkg/models"
)

// Scanner builds a gallery from a directory tree of images
type Scanner struct {
	// Extensions holds the accepted image extensions, lower-case and without the dot
	Extensions map[string]bool
	Orderer    *Orderer

	// CaptureTime and CreationTime provide the sort key of an image.
	// They default to the EXIF and file system implementations.
	CaptureTime  func(path string) (time.Time, bool)
	CreationTime func(info fs.FileInfo) time.Time

	// ReadDir lists a directory sorted by name. It defaults to os.ReadDir.
	ReadDir func(name string) ([]fs.DirEntry, error)
}

// NewScanner creates a scanner accepting the given extensions and ordering
// categories by the given priority list
func NewScanner(extensions []string, priority []string) *Scanner {
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &Scanner{
		Extensions:   exts,
		Orderer:      NewOrderer(priority),
		CaptureTime:  CaptureTime,
		CreationTime: CreationTime,
		ReadDir:      os.ReadDir,
	}
}

// Scan builds the gallery for the image root. Any error enumerating a
// directory aborts the scan.
func (s *Scanner) Scan(root string) (models.Gallery, error) {
	entries, err := s.ReadDir(root)
	if err != nil {
		return models.Gallery{}, fmt.Errorf("failed to read image root: %w", err)
	}

	categories := []models.Category{}
	for _, entry := range entries {
		if !s.isCategoryDir(root, entry) {
			continue
		}

		category, err := s.BuildCategory(root, entry.Name())
		if err != nil {
			return models.Gallery{}, err
		}
		if category != nil {
			categories = append(categories, *category)
		}
	}

	s.Orderer.Sort(categories)

	return models.Gallery{Categories: categories}, nil
}

// BuildCategory builds the category for the directory rel below root.
// It returns nil when neither the directory nor any descendant holds images.
// Subcategories keep directory name order; Scan applies the priority order.
func (s *Scanner) BuildCategory(root, rel string) (*models.Category, error) {
	dir := filepath.Join(root, rel)
	entries, err := s.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var subcategories []models.Category
	for _, entry := range entries {
		if !s.isCategoryDir(dir, entry) {
			continue
		}

		sub, err := s.BuildCategory(root, filepath.Join(rel, entry.Name()))
		if err != nil {
			return nil, err
		}
		if sub != nil {
			subcategories = append(subcategories, *sub)
		}
	}

	images := s.listImages(dir, entries)

	if len(images) == 0 && len(subcategories) == 0 {
		return nil, nil
	}

	return &models.Category{
		ID:            categoryID(rel),
		Title:         TitleFromFolder(filepath.Base(rel)),
		Images:        images,
		Subcategories: subcategories,
	}, nil
}

// ListImages returns the images directly inside dir, newest first
func (s *Scanner) ListImages(dir string) ([]models.Image, error) {
	entries, err := s.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	return s.listImages(dir, entries), nil
}

func (s *Scanner) listImages(dir string, entries []fs.DirEntry) []models.Image {
	type candidate struct {
		name  string
		taken time.Time
	}

	var candidates []candidate
	for _, entry := range entries {
		name := entry.Name()
		if isHidden(name) || !s.isImage(name) {
			continue
		}

		path := filepath.Join(dir, name)
		info, ok := regularFile(path, entry)
		if !ok {
			continue
		}

		taken, ok := s.CaptureTime(path)
		if !ok {
			taken = s.CreationTime(info)
		}
		candidates = append(candidates, candidate{name: name, taken: taken})
	}

	if len(candidates) == 0 {
		return nil
	}

	// entries arrive sorted by name, so ties keep that order
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].taken.After(candidates[j].taken)
	})

	images := make([]models.Image, 0, len(candidates))
	for _, c := range candidates {
		images = append(images, models.Image{
			File:  c.name,
			Title: TitleFromFilename(c.name),
		})
	}
	return images
}

// isCategoryDir reports whether entry becomes a category. Symlinked
// directories are not followed, and names containing the id separator are
// skipped since their id would collide with a nested path.
func (s *Scanner) isCategoryDir(parent string, entry fs.DirEntry) bool {
	name := entry.Name()
	if isHidden(name) || !entry.IsDir() {
		return false
	}
	if strings.Contains(name, models.IDSeparator) {
		log.WithField("directory", filepath.Join(parent, name)).Warn("Skipping directory whose name contains the id separator")
		return false
	}
	return true
}

func (s *Scanner) isImage(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	return s.Extensions[strings.ToLower(ext[1:])]
}

// regularFile resolves symlinks and reports whether path is a regular file
func regularFile(path string, entry fs.DirEntry) (fs.FileInfo, bool) {
	if entry.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			log.WithField("file", path).Debug("Skipping broken symlink")
			return nil, false
		}
		return info, info.Mode().IsRegular()
	}
	if !entry.Type().IsRegular() {
		return nil, false
	}
	info, err := entry.Info()
	if err != nil {
		return nil, false
	}
	return info, true
}

func categoryID(rel string) string {
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", models.IDSeparator)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
