package apps

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Menu is one drop-down of an application's menu bar.
type Menu struct {
	Label       string     `yaml:"label" json:"label"`
	Accelerator string     `yaml:"accelerator,omitempty" json:"accelerator,omitempty"`
	Items       []MenuItem `yaml:"items" json:"items"`
}

// Validate checks every item in the menu.
func (m Menu) Validate() error {
	if m.Label == "" {
		return fmt.Errorf("menu label is required")
	}
	for i, item := range m.Items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%s: items[%d]: %w", m.Label, i, err)
		}
	}
	return nil
}

// ItemKind tags a MenuItem variant.
type ItemKind int

const (
	ItemAction ItemKind = iota
	ItemSeparator
)

// String returns the kind name.
func (k ItemKind) String() string {
	switch k {
	case ItemAction:
		return "action"
	case ItemSeparator:
		return "separator"
	default:
		return "unknown"
	}
}

// MenuItem is either a separator or an actionable entry. Only action items
// carry a label, accelerator, shortcut, action name, or disabled flag.
type MenuItem struct {
	Kind        ItemKind
	Label       string
	Accelerator string
	Shortcut    string
	Action      string
	Disabled    bool
}

// Separator returns a separator item.
func Separator() MenuItem {
	return MenuItem{Kind: ItemSeparator}
}

// Action returns an enabled action item.
func Action(label, action, shortcut string) MenuItem {
	return MenuItem{Kind: ItemAction, Label: label, Action: action, Shortcut: shortcut}
}

// IsSeparator reports whether the item is a separator.
func (i MenuItem) IsSeparator() bool {
	return i.Kind == ItemSeparator
}

// Validate enforces the variant shape.
func (i MenuItem) Validate() error {
	switch i.Kind {
	case ItemSeparator:
		if i.Label != "" || i.Accelerator != "" || i.Shortcut != "" || i.Action != "" || i.Disabled {
			return fmt.Errorf("separator must not carry label, accelerator, shortcut, action or disabled")
		}
	case ItemAction:
		if i.Label == "" {
			return fmt.Errorf("action item label is required")
		}
	default:
		return fmt.Errorf("unknown item kind %d", i.Kind)
	}
	return nil
}

// menuItemYAML is the on-disk shape shared by both variants:
//
//	- separator: true
//	- label: Open...
//	  shortcut: Ctrl+O
//	  action: open
type menuItemYAML struct {
	Separator   bool   `yaml:"separator,omitempty" json:"separator,omitempty"`
	Label       string `yaml:"label,omitempty" json:"label,omitempty"`
	Accelerator string `yaml:"accelerator,omitempty" json:"accelerator,omitempty"`
	Shortcut    string `yaml:"shortcut,omitempty" json:"shortcut,omitempty"`
	Action      string `yaml:"action,omitempty" json:"action,omitempty"`
	Disabled    bool   `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

func (i MenuItem) wire() menuItemYAML {
	if i.Kind == ItemSeparator {
		return menuItemYAML{Separator: true}
	}
	return menuItemYAML{
		Label:       i.Label,
		Accelerator: i.Accelerator,
		Shortcut:    i.Shortcut,
		Action:      i.Action,
		Disabled:    i.Disabled,
	}
}

func (w menuItemYAML) item() MenuItem {
	kind := ItemAction
	if w.Separator {
		kind = ItemSeparator
	}
	return MenuItem{
		Kind:        kind,
		Label:       w.Label,
		Accelerator: w.Accelerator,
		Shortcut:    w.Shortcut,
		Action:      w.Action,
		Disabled:    w.Disabled,
	}
}

func (i *MenuItem) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: menu item must be a mapping", value.Line)
	}
	var w menuItemYAML
	if err := value.Decode(&w); err != nil {
		return err
	}
	item := w.item()
	if err := item.Validate(); err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*i = item
	return nil
}

func (i MenuItem) MarshalYAML() (interface{}, error) {
	return i.wire(), nil
}

// MarshalJSON emits the same flat shape used on disk.
func (i MenuItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.wire())
}

// UnmarshalJSON accepts the flat shape produced by MarshalJSON.
func (i *MenuItem) UnmarshalJSON(data []byte) error {
	var w menuItemYAML
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	item := w.item()
	if err := item.Validate(); err != nil {
		return err
	}
	*i = item
	return nil
}
