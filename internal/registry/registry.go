// Package registry declares the tool-facing surface Toolbelt registers
// with an agent host: one operation per wrapper, with its input schema.
package registry

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tools.yaml
var manifestYAML []byte

// Tool is one externally invocable operation.
type Tool struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Params      []Param `yaml:"params"`
}

// Param is one field of a tool's input schema.
type Param struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"` // string, number, boolean
	Required    bool   `yaml:"required"`
	Description string `yaml:"description"`
}

// Manifest is the full tool registration document.
type Manifest struct {
	Tools []Tool `yaml:"tools"`
}

// Load parses and validates the embedded manifest.
func Load() (*Manifest, error) {
	return Parse(manifestYAML)
}

// Parse unmarshals YAML bytes into a validated Manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("registry: parse manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Get returns the named tool, or nil.
func (m *Manifest) Get(name string) *Tool {
	for i := range m.Tools {
		if m.Tools[i].Name == name {
			return &m.Tools[i]
		}
	}
	return nil
}

// Names returns all tool names, sorted.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Tools))
	for i, t := range m.Tools {
		names[i] = t.Name
	}
	sort.Strings(names)
	return names
}

// validate checks manifest consistency.
func (m *Manifest) validate() error {
	var errs []string
	if len(m.Tools) == 0 {
		errs = append(errs, "at least one tool is required")
	}
	seen := make(map[string]bool)
	for i, t := range m.Tools {
		if t.Name == "" {
			errs = append(errs, fmt.Sprintf("tools[%d].name is required", i))
			continue
		}
		if seen[t.Name] {
			errs = append(errs, fmt.Sprintf("duplicate tool name %q", t.Name))
		}
		seen[t.Name] = true
		if t.Description == "" {
			errs = append(errs, fmt.Sprintf("tool %q: description is required", t.Name))
		}
		for _, p := range t.Params {
			switch p.Type {
			case "string", "number", "boolean":
			default:
				errs = append(errs, fmt.Sprintf("tool %q: param %q has unknown type %q", t.Name, p.Name, p.Type))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("registry: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Format renders the manifest as an indented listing for `tb tools`.
func (m *Manifest) Format() string {
	var b strings.Builder
	for _, name := range m.Names() {
		t := m.Get(name)
		fmt.Fprintf(&b, "%s - %s\n", t.Name, t.Description)
		for _, p := range t.Params {
			req := ""
			if p.Required {
				req = ", required"
			}
			fmt.Fprintf(&b, "  %s (%s%s): %s\n", p.Name, p.Type, req, p.Description)
		}
	}
	return b.String()
}
