package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source records where an effective setting came from.
type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

func (s Source) String() string {
	if s.Kind == SourceFile && s.File != "" {
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	}
	return string(SourceDefault)
}

// ValidationError reports an invalid setting by its YAML path, with the file
// position when the value came from a file.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LoadResult is an effective config plus where each file-provided value came from.
type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML path -> file position
	File    string            // loaded file, empty when defaults were used
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "progman", "config.yaml"), nil
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	res, err := LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadFromPath decodes path over DefaultConfig and validates the result. A
// missing file is not an error; the defaults are returned.
func LoadFromPath(path string) (*LoadResult, error) {
	cfg := DefaultConfig()
	res := &LoadResult{Config: cfg, Sources: map[string]Source{}}

	canon, err := canonicalPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(canon)
	if errors.Is(err, os.ErrNotExist) {
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", canon, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}
	if err := decodeStrictYAML(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", canon, err)
	}
	res.Sources = collectSources(&doc, canon)
	res.File = canon

	cfg.Catalog.Path = resolvePath(canon, cfg.Catalog.Path)
	cfg.Logging.File = resolvePath(canon, cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, res.Sources)
	}
	return res, nil
}

// decodeStrictYAML decodes onto out, keeping any field the document does not
// mention. Unknown keys are errors.
func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// Best-effort; the file may not exist yet.
		return abs, nil
	}
	return real, nil
}

// resolvePath expands a leading ~ and makes p relative to the directory of
// baseFile. Empty stays empty.
func resolvePath(baseFile, p string) string {
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(baseFile), p)
}

func collectSources(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	var walk func(n *yaml.Node, prefix string)
	walk = func(n *yaml.Node, prefix string) {
		if n.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			path := key.Value
			if prefix != "" {
				path = prefix + "." + path
			}
			out[path] = Source{Kind: SourceFile, File: file, Line: val.Line, Column: val.Column}
			walk(val, path)
		}
	}
	walk(node, "")
	return out
}

func attachSourceContext(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
