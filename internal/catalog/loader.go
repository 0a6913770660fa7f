package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk YAML shape.
type catalogFile struct {
	Entries []Entry `yaml:"entries"`
}

// LoadFile reads a catalog from a YAML file, replacing the built-in entries.
// The file is validated with the same rules as the defaults.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	if len(file.Entries) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no entries", path)
	}

	return New(file.Entries)
}

// Load returns the catalog for the given path, or the built-in defaults when
// the path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
