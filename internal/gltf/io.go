package gltf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultIndent is the number of spaces per nesting level in written documents.
const DefaultIndent = 3

// ErrInvalidTemplate is returned by ValidateTemplate when the document cannot seed a voxel scene.
var ErrInvalidTemplate = errors.New("invalid template")

// Parse decodes a glTF JSON document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("gltf: %w", err)
	}
	return &doc, nil
}

// Load reads and parses the glTF file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gltf: %w", err)
	}
	return Parse(data)
}

// ValidateTemplate checks that doc has a root node plus at least one material and one mesh
// with a primitive, which the voxel builder reuses for every generated instance.
func (doc *Document) ValidateTemplate() error {
	switch {
	case len(doc.Nodes) == 0:
		return fmt.Errorf("gltf: %w: no root node", ErrInvalidTemplate)
	case len(doc.Materials) == 0:
		return fmt.Errorf("gltf: %w: no material", ErrInvalidTemplate)
	case len(doc.Meshes) == 0:
		return fmt.Errorf("gltf: %w: no mesh", ErrInvalidTemplate)
	case len(doc.Meshes[0].Primitives) == 0:
		return fmt.Errorf("gltf: %w: mesh 0 has no primitives", ErrInvalidTemplate)
	}
	return nil
}

// Marshal renders doc as indented JSON. indent <= 0 means DefaultIndent.
func Marshal(doc *Document, indent int) ([]byte, error) {
	if indent <= 0 {
		indent = DefaultIndent
	}
	data, err := json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
	if err != nil {
		return nil, fmt.Errorf("gltf: %w", err)
	}
	return data, nil
}

// Save writes doc to path. A failed write may leave a partial file behind.
func Save(doc *Document, path string, indent int) error {
	data, err := Marshal(doc, indent)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("gltf: %w", err)
	}
	return nil
}
