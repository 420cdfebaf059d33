package services

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"image-gallery/pkg/models"
)

var baseTime = time.Date(2023, 6, 1, 12, 0, 0, 0, time.Local)

// fixture creates files below root; a trailing slash creates a directory
func fixture(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if p[len(p)-1] == '/' {
			if err := os.MkdirAll(full, 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("not really an image"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// testScanner returns a scanner whose timestamps come from the given maps,
// keyed by file name
func testScanner(captured map[string]time.Time, created map[string]time.Time) *Scanner {
	s := NewScanner([]string{"jpg", "jpeg", "png", "gif", "webp"}, testPriority)
	s.CaptureTime = func(path string) (time.Time, bool) {
		t, ok := captured[filepath.Base(path)]
		return t, ok
	}
	s.CreationTime = func(info fs.FileInfo) time.Time {
		return created[info.Name()]
	}
	return s
}

func files(images []models.Image) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		out = append(out, img.File)
	}
	return out
}

func TestScanBuildsNestedTree(t *testing.T) {
	root := t.TempDir()
	fixture(t, root,
		"random/meme.png",
		"food/cake.jpg",
		"animals/cats/tabby.jpg",
		"animals/cats/kittens/small.gif",
		"animals/dogs/.hidden.jpg",
		"fanart/hero_one.webp",
		"cover.jpg",
	)

	gallery, err := testScanner(nil, nil).Scan(root)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if got, expected := ids(gallery.Categories), []string{"fanart", "animals", "food", "random"}; !reflect.DeepEqual(got, expected) {
		t.Fatalf("Expected top level %v, got %v", expected, got)
	}

	animals := gallery.Categories[1]
	if animals.Images != nil {
		t.Errorf("Expected animals to have no images, got %v", animals.Images)
	}
	if got, expected := ids(animals.Subcategories), []string{"animals::cats"}; !reflect.DeepEqual(got, expected) {
		t.Fatalf("Expected subcategories %v, got %v", expected, got)
	}

	cats := animals.Subcategories[0]
	if cats.Title != "Cats" {
		t.Errorf("Expected title Cats, got %q", cats.Title)
	}
	if got, expected := ids(cats.Subcategories), []string{"animals::cats::kittens"}; !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected subcategories %v, got %v", expected, got)
	}

	fanart := gallery.Categories[0]
	expectedImages := []models.Image{{File: "hero_one.webp", Title: "Hero One"}}
	if !reflect.DeepEqual(fanart.Images, expectedImages) {
		t.Errorf("Expected %v, got %v", expectedImages, fanart.Images)
	}
}

func TestScanPrunesEmptyBranches(t *testing.T) {
	root := t.TempDir()
	fixture(t, root,
		"empty/",
		"notes_only/notes.txt",
		"deep/a/b/c/",
		"deep/a/readme.md",
		"kept/x/y/photo.png",
	)

	gallery, err := testScanner(nil, nil).Scan(root)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if got, expected := ids(gallery.Categories), []string{"kept"}; !reflect.DeepEqual(got, expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	kept := gallery.Categories[0]
	if len(kept.Subcategories) != 1 || kept.Subcategories[0].ID != "kept::x" {
		t.Fatalf("Expected kept::x, got %v", ids(kept.Subcategories))
	}
	if y := kept.Subcategories[0].Subcategories; len(y) != 1 || y[0].ID != "kept::x::y" {
		t.Errorf("Expected kept::x::y, got %v", ids(y))
	}
}

func TestScanExcludesHiddenEntries(t *testing.T) {
	root := t.TempDir()
	fixture(t, root,
		".git/objects/blob.png",
		"sketches/.DS_Store",
		"sketches/.secret.png",
		"sketches/.drafts/wip.png",
		"sketches/line.png",
	)

	gallery, err := testScanner(nil, nil).Scan(root)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if got, expected := ids(gallery.Categories), []string{"sketches"}; !reflect.DeepEqual(got, expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	sketches := gallery.Categories[0]
	if got, expected := files(sketches.Images), []string{"line.png"}; !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if sketches.Subcategories != nil {
		t.Errorf("Expected no subcategories, got %v", ids(sketches.Subcategories))
	}
}

func TestScanFiltersExtensions(t *testing.T) {
	root := t.TempDir()
	fixture(t, root,
		"food/notes.txt",
		"food/pie.JPG",
		"food/soup.Jpeg",
		"food/tea.webp",
		"food/raw.psd",
		"food/noext",
	)

	gallery, err := testScanner(nil, nil).Scan(root)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if len(gallery.Categories) != 1 {
		t.Fatalf("Expected one category, got %v", ids(gallery.Categories))
	}
	got := files(gallery.Categories[0].Images)
	expected := []string{"pie.JPG", "soup.Jpeg", "tea.webp"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestListImagesOrdering(t *testing.T) {
	tests := []struct {
		name     string
		captured map[string]time.Time
		created  map[string]time.Time
		expected []string
	}{
		{
			name: "creation time only, newest first",
			created: map[string]time.Time{
				"a.png": baseTime,
				"b.png": baseTime.Add(2 * time.Hour),
				"c.png": baseTime.Add(time.Hour),
			},
			expected: []string{"b.png", "c.png", "a.png"},
		},
		{
			name: "capture time takes precedence over creation time",
			captured: map[string]time.Time{
				"a.png": time.Date(2022, 1, 1, 10, 0, 0, 0, time.Local),
			},
			created: map[string]time.Time{
				"a.png": baseTime.Add(10 * time.Hour),
				"b.png": time.Date(2021, 5, 5, 0, 0, 0, 0, time.Local),
				"c.png": time.Date(2022, 6, 1, 0, 0, 0, 0, time.Local),
			},
			expected: []string{"c.png", "a.png", "b.png"},
		},
		{
			name:     "ties keep name order",
			created:  map[string]time.Time{"a.png": baseTime, "b.png": baseTime, "c.png": baseTime},
			expected: []string{"a.png", "b.png", "c.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			fixture(t, dir, "a.png", "b.png", "c.png")

			images, err := testScanner(tt.captured, tt.created).ListImages(dir)
			if err != nil {
				t.Fatalf("ListImages returned error: %v", err)
			}
			if got := files(images); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := testScanner(nil, nil).Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("Expected an error for a missing root")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected a not-exist error, got %v", err)
	}
}

func TestScanEmptyRoot(t *testing.T) {
	gallery, err := testScanner(nil, nil).Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeManifest(&buf, gallery); err != nil {
		t.Fatal(err)
	}
	expected := "{\n  \"categories\": []\n}\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestScanIDsAreUnique(t *testing.T) {
	root := t.TempDir()
	fixture(t, root,
		"a/b/one.png",
		"a/b/c/two.png",
		"a/c/three.png",
		"b/four.png",
		"b/a/five.png",
	)

	gallery, err := testScanner(nil, nil).Scan(root)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	seen := map[string]bool{}
	var walk func([]models.Category)
	walk = func(categories []models.Category) {
		for _, c := range categories {
			if seen[c.ID] {
				t.Errorf("Duplicate id %q", c.ID)
			}
			seen[c.ID] = true
			walk(c.Subcategories)
		}
	}
	walk(gallery.Categories)

	for _, id := range []string{"a", "a::b", "a::b::c", "a::c", "b", "b::a"} {
		if !seen[id] {
			t.Errorf("Expected id %q in %v", id, seen)
		}
	}
}

func TestScanIsIdempotent(t *testing.T) {
	root := t.TempDir()
	fixture(t, root, "food/cake.jpg", "food/pie.png", "animals/cats/tabby.jpg", "misc/ünïcode_<b>.png")

	scanner := NewScanner([]string{"jpg", "png"}, testPriority)

	var outputs [2][]byte
	for i := range outputs {
		out := filepath.Join(t.TempDir(), "data", "gallery.json")
		gallery, err := scanner.Scan(root)
		if err != nil {
			t.Fatalf("Scan returned error: %v", err)
		}
		if err := WriteManifest(out, gallery); err != nil {
			t.Fatalf("WriteManifest returned error: %v", err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		outputs[i] = data
	}

	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Errorf("Expected identical output, got:\n%s\n---\n%s", outputs[0], outputs[1])
	}
	if !bytes.Contains(outputs[0], []byte(`"title": "Ünïcode <b>"`)) {
		t.Errorf("Expected literal non-ASCII title, got:\n%s", outputs[0])
	}
}

func TestScanSkipsSeparatorInDirectoryName(t *testing.T) {
	root := t.TempDir()
	fixture(t, root,
		"x::y/a.png",
		"x/y/b.png",
		"x/z::w/c.png",
	)

	gallery, err := testScanner(nil, nil).Scan(root)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if got, expected := ids(gallery.Categories), []string{"x"}; !reflect.DeepEqual(got, expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	x := gallery.Categories[0]
	if got, expected := ids(x.Subcategories), []string{"x::y"}; !reflect.DeepEqual(got, expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	if got, expected := files(x.Subcategories[0].Images), []string{"b.png"}; !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestScanAbortsOnNestedReadError(t *testing.T) {
	root := t.TempDir()
	fixture(t, root,
		"animals/dog.png",
		"animals/cats/tabby.png",
		"food/cake.png",
	)

	failing := filepath.Join(root, "animals", "cats")
	readErr := errors.New("permission denied")

	tests := []struct {
		name string
		scan func(s *Scanner) error
	}{
		{
			name: "scan",
			scan: func(s *Scanner) error {
				_, err := s.Scan(root)
				return err
			},
		},
		{
			name: "list images",
			scan: func(s *Scanner) error {
				_, err := s.ListImages(failing)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testScanner(nil, nil)
			s.ReadDir = func(name string) ([]fs.DirEntry, error) {
				if name == failing {
					return nil, readErr
				}
				return os.ReadDir(name)
			}

			err := tt.scan(s)
			if !errors.Is(err, readErr) {
				t.Fatalf("Expected the read error, got %v", err)
			}
		})
	}
}
