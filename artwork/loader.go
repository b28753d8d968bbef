package artwork

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadShapesDir reads every .svg file in dir, sorted by file name, and
// returns the raw payloads. The sort keeps catalog indices stable across
// loads of the same directory.
func LoadShapesDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("artwork: read shapes dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".svg") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoShapes, dir)
	}
	sort.Strings(names)

	shapes := make([]string, len(names))
	for i, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("artwork: read shape %s: %w", name, err)
		}
		shapes[i] = string(data)
	}
	return shapes, nil
}

// LoadCatalogDir builds a catalog straight from a shapes directory.
func LoadCatalogDir(dir string) (*Catalog, error) {
	shapes, err := LoadShapesDir(dir)
	if err != nil {
		return nil, err
	}
	return NewCatalog(shapes)
}
