// Package seed loads sample workspaces through the content services so every
// ordering and depth rule applies to seeded data too.
package seed

import (
	"bytes"
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFiles embed.FS

// DefaultFixture is the fixture loaded when none is named
const DefaultFixture = "default"

// Fixture is a set of workspaces to create for one user
type Fixture struct {
	Workspaces []WorkspaceFixture `yaml:"workspaces"`
}

// WorkspaceFixture lists a workspace's content in display order
type WorkspaceFixture struct {
	Name    string        `yaml:"name"`
	Content []ItemFixture `yaml:"content"`
}

// ItemFixture is a note (kind "note") or a container (kind "todo_list" or
// "checklist")
type ItemFixture struct {
	Kind  string        `yaml:"kind"`
	Name  string        `yaml:"name"`
	Title string        `yaml:"title"`
	Body  string        `yaml:"body"`
	Nodes []NodeFixture `yaml:"nodes"`
}

// NodeFixture is a container item with its children in order
type NodeFixture struct {
	Title    string        `yaml:"title"`
	Done     bool          `yaml:"done"`
	Children []NodeFixture `yaml:"children"`
}

// LoadFixture reads an embedded fixture by name
func LoadFixture(name string) (*Fixture, error) {
	filename := fmt.Sprintf("fixtures/%s.yaml", name)
	data, err := fixtureFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes fixture YAML, rejecting unknown fields
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixture: %w", err)
	}
	return &f, nil
}
