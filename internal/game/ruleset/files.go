// Package ruleset loads the career, talent, skill, and faction tables that
// drive character creation and world generation.
package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlFiles returns the *.yaml and *.yml files in dir, sorted by name.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// loadLists parses every YAML file in dir as a list of T.
func loadLists[T any](dir, kind string) ([]*T, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	var out []*T
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var list []T
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parsing %s file %s: %w", kind, path, err)
		}
		for i := range list {
			out = append(out, &list[i])
		}
	}
	return out, nil
}
