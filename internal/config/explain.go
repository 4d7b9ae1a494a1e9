package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a dotted YAML path and its source.
//
// Any key of the config file works, at any depth:
//
//	desktop.width
//	desktop.cascade.size.height
//	logging
//	web.listen
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	// A parent set in the file (e.g. "desktop: {width: 800}") does not make
	// its unmentioned children file-sourced.
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	var root yaml.Node
	if err := root.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	node := &root
	for _, key := range strings.Split(path, ".") {
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				next = node.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		node = next
	}

	var value any
	if err := node.Decode(&value); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return value, nil
}
