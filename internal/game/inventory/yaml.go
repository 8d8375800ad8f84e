package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// validatable is satisfied by every *Def type in this package.
type validatable interface {
	Validate() error
}

// loadDefs reads all *.yaml and *.yml files from dir, parses each as a list of
// T, validates every element, and returns them in file-name order.
func loadDefs[T any, PT interface {
	*T
	validatable
}](dir, op string) ([]*T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: cannot read directory %q: %w", op, dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []*T
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: cannot read file %q: %w", op, path, err)
		}
		var defs []T
		if err := yaml.Unmarshal(data, &defs); err != nil {
			return nil, fmt.Errorf("%s: cannot parse file %q: %w", op, path, err)
		}
		for i := range defs {
			d := &defs[i]
			if err := PT(d).Validate(); err != nil {
				return nil, fmt.Errorf("%s: invalid entry %d in %q: %w", op, i, path, err)
			}
			out = append(out, d)
		}
	}
	return out, nil
}
