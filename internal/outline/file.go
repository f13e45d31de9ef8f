// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/inspection-protocol/pkg/types"
)

// FromFile builds an outline from its serialized form. Sections keep their
// stored items rather than being reseeded; defaults only apply to sections
// added afterwards. A missing or duplicated section name is an error.
func FromFile(f types.OutlineFile, defaults []string) (*Outline, error) {
	o := New(defaults)
	for i, s := range f.Sections {
		if s.Name == "" {
			return nil, fmt.Errorf("section %d: %w", i, ErrEmptyName)
		}
		if _, ok := o.items[s.Name]; ok {
			return nil, fmt.Errorf("section %d: %w: %q", i, ErrSectionExists, s.Name)
		}
		o.order = append(o.order, s.Name)
		o.items[s.Name] = append([]string{}, s.Items...)
	}
	return o, nil
}

// ToFile returns the serialized form of the outline under title.
func (o *Outline) ToFile(title string) types.OutlineFile {
	f := types.OutlineFile{Title: title, Sections: []types.OutlineSection{}}
	for _, s := range o.Sections() {
		items := s.Items
		if items == nil {
			items = []string{}
		}
		f.Sections = append(f.Sections, types.OutlineSection{Name: s.Name, Items: items})
	}
	return f
}

// Marshal encodes the outline and title as YAML.
func (o *Outline) Marshal(title string) ([]byte, error) {
	f := o.ToFile(title)
	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("marshaling outline: %w", err)
	}
	return data, nil
}

// Unmarshal decodes YAML produced by Marshal (or written by hand) into a
// title and outline.
func Unmarshal(data []byte, defaults []string) (string, *Outline, error) {
	var f types.OutlineFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return "", nil, fmt.Errorf("parsing outline: %w", err)
	}
	o, err := FromFile(f, defaults)
	if err != nil {
		return "", nil, err
	}
	return f.Title, o, nil
}

// LoadFile reads a YAML outline file.
func LoadFile(path string, defaults []string) (string, *Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading outline: %w", err)
	}
	return Unmarshal(data, defaults)
}

// SaveFile writes the outline and title to path as YAML.
func SaveFile(path, title string, o *Outline) error {
	data, err := o.Marshal(title)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing outline: %w", err)
	}
	return nil
}
