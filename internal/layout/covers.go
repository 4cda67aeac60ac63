package layout

import (
	"os"
	"path/filepath"
	"strings"
)

// CoverResolver maps a category name to a cover image on disk.
// Implementations must be deterministic for a given directory state.
type CoverResolver interface {
	// Resolve returns the cover image path for the category. When no
	// category-specific cover exists it falls back to the generic cover;
	// ok is false only when neither exists.
	Resolve(category string) (path string, ok bool)
}

// coverExtensions are tried in order when looking up cover files.
var coverExtensions = []string{".png", ".jpg", ".jpeg"}

// genericCoverNames are the accepted base names for the fallback cover.
var genericCoverNames = []string{"cover", "capa"}

// DirCovers resolves covers from a flat directory of images keyed by
// slugged category name (e.g. "Pet Food" -> pet_food.png).
type DirCovers struct {
	dir string
}

// NewDirCovers returns a resolver over dir. A missing directory is not an
// error: every lookup simply misses, and the catalogue renders without
// cover pages.
func NewDirCovers(dir string) *DirCovers {
	return &DirCovers{dir: dir}
}

// Resolve implements CoverResolver.
func (d *DirCovers) Resolve(category string) (string, bool) {
	if d.dir == "" {
		return "", false
	}
	for _, ext := range coverExtensions {
		path := filepath.Join(d.dir, Slug(category)+ext)
		if fileIsNonEmpty(path) {
			return path, true
		}
	}
	for _, name := range genericCoverNames {
		for _, ext := range coverExtensions {
			path := filepath.Join(d.dir, name+ext)
			if fileIsNonEmpty(path) {
				return path, true
			}
		}
	}
	return "", false
}

// MapCovers is an in-memory CoverResolver for tests.
type MapCovers struct {
	Covers  map[string]string
	Generic string
}

// Resolve implements CoverResolver.
func (m *MapCovers) Resolve(category string) (string, bool) {
	if path, ok := m.Covers[category]; ok {
		return path, true
	}
	if m.Generic != "" {
		return m.Generic, true
	}
	return "", false
}

// Slug normalizes a category name to its cover file base name:
// lower-cased, spaces collapsed to underscores.
func Slug(category string) string {
	s := strings.ToLower(strings.TrimSpace(category))
	return strings.Join(strings.Fields(s), "_")
}

func fileIsNonEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}
