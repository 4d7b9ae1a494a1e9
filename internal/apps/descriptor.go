package apps

import (
	"fmt"
	"strings"

	"github.com/1broseidon/progman/internal/geometry"
)

// Descriptor is the static description of one launchable application.
// Descriptors are values; the registry hands out copies and never mutates
// what it holds.
type Descriptor struct {
	ID          string        `yaml:"id" json:"id"`
	Title       string        `yaml:"title" json:"title"`
	Icon        string        `yaml:"icon" json:"icon"`
	ExeName     string        `yaml:"exe_name" json:"exe_name"`
	DefaultSize geometry.Size `yaml:"default_size" json:"default_size"`
	MinSize     geometry.Size `yaml:"min_size" json:"min_size"`
	Resizable   bool          `yaml:"resizable" json:"resizable"`
	Menus       []Menu        `yaml:"menus,omitempty" json:"menus,omitempty"`
}

// HasMenuBar reports whether the application shows a menu bar.
func (d Descriptor) HasMenuBar() bool {
	return len(d.Menus) > 0
}

// Validate checks the descriptor's sizing constraints.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("app id is required")
	}
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("app %q: title is required", d.ID)
	}
	if d.MinSize.Width <= 0 || d.MinSize.Height <= 0 {
		return fmt.Errorf("app %q: min_size must be positive, got %dx%d", d.ID, d.MinSize.Width, d.MinSize.Height)
	}
	if !d.DefaultSize.Fits(d.MinSize) {
		return fmt.Errorf("app %q: default_size %dx%d is smaller than min_size %dx%d",
			d.ID, d.DefaultSize.Width, d.DefaultSize.Height, d.MinSize.Width, d.MinSize.Height)
	}
	for i, m := range d.Menus {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("app %q: menus[%d]: %w", d.ID, i, err)
		}
	}
	return nil
}

func (d Descriptor) clone() Descriptor {
	if d.Menus == nil {
		return d
	}
	menus := make([]Menu, len(d.Menus))
	for i, m := range d.Menus {
		items := make([]MenuItem, len(m.Items))
		copy(items, m.Items)
		m.Items = items
		menus[i] = m
	}
	d.Menus = menus
	return d
}
