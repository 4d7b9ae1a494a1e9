package apps

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of an application catalog:
//
//	apps:
//	  - id: paintbrush
//	    title: Paintbrush
//	    default_size: {width: 640, height: 480}
//	    min_size: {width: 320, height: 240}
//	    resizable: true
type catalogFile struct {
	Apps []Descriptor `yaml:"apps"`
}

// ParseCatalog decodes catalog YAML. Unknown keys are rejected so typos in a
// hand-edited catalog surface as errors instead of silently using defaults.
func ParseCatalog(data []byte) ([]Descriptor, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse app catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Apps))
	for i, d := range file.Apps {
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("apps[%d]: duplicate app id %q", i, d.ID)
		}
		seen[d.ID] = struct{}{}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("apps[%d]: %w", i, err)
		}
	}
	return file.Apps, nil
}

// LoadCatalog reads the catalog file at path.
func LoadCatalog(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}
	descriptors, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return descriptors, nil
}

// Load builds a registry from the builtin apps plus the catalog file at path.
// An empty path yields the builtin registry.
func Load(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return Builtin(), nil
	}
	extra, err := LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return NewRegistry(append(BuiltinApps(), extra...)...)
}
