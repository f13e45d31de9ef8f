// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline holds the editable hierarchy of named sections and their
// inspection items. An Outline is not safe for concurrent use; callers that
// share one across goroutines serialize access themselves.
package outline

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyName is returned when adding a section with an empty name.
	ErrEmptyName = errors.New("section name is empty")

	// ErrSectionExists is returned when adding a section whose name is taken.
	// The existing section and its items are left as they were.
	ErrSectionExists = errors.New("section already exists")

	// ErrSectionNotFound is returned by item operations on an unknown section.
	ErrSectionNotFound = errors.New("section not found")

	// ErrEmptyText is returned when adding an item with empty text.
	ErrEmptyText = errors.New("item text is empty")

	// ErrIndexOutOfRange is returned when deleting an item at an invalid position.
	ErrIndexOutOfRange = errors.New("item index out of range")
)

// Section is a read-only copy of one section and its items.
type Section struct {
	Name  string
	Items []string
}

// Outline is an insertion-ordered mapping from section name to items.
type Outline struct {
	order    []string
	items    map[string][]string
	defaults []string
}

// New returns an empty outline. Every section added later starts with its own
// copy of defaults.
func New(defaults []string) *Outline {
	return &Outline{
		items:    make(map[string][]string),
		defaults: append([]string(nil), defaults...),
	}
}

// Defaults returns a copy of the items new sections are seeded with.
func (o *Outline) Defaults() []string {
	return append([]string(nil), o.defaults...)
}

// AddSection appends a section named name, seeded with the default items.
func (o *Outline) AddSection(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, ok := o.items[name]; ok {
		return fmt.Errorf("%w: %q", ErrSectionExists, name)
	}
	o.order = append(o.order, name)
	o.items[name] = o.Defaults()
	return nil
}

// DeleteSection removes the section and all its items. It reports whether the
// section existed.
func (o *Outline) DeleteSection(name string) bool {
	if _, ok := o.items[name]; !ok {
		return false
	}
	delete(o.items, name)
	for i, n := range o.order {
		if n == name {
			o.order = append(o.order[:i:i], o.order[i+1:]...)
			break
		}
	}
	return true
}

// AddItem appends text to the named section.
func (o *Outline) AddItem(section, text string) error {
	items, ok := o.items[section]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSectionNotFound, section)
	}
	if text == "" {
		return ErrEmptyText
	}
	o.items[section] = append(items, text)
	return nil
}

// DeleteItem removes the item at index from the named section.
func (o *Outline) DeleteItem(section string, index int) error {
	items, ok := o.items[section]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSectionNotFound, section)
	}
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(items))
	}
	// Copy into a fresh slice so earlier snapshots sharing the backing array stay intact.
	kept := make([]string, 0, len(items)-1)
	kept = append(kept, items[:index]...)
	kept = append(kept, items[index+1:]...)
	o.items[section] = kept
	return nil
}

// Clone returns an independent deep copy of the outline, defaults included.
func (o *Outline) Clone() *Outline {
	c := New(o.defaults)
	c.order = append(c.order, o.order...)
	for name, items := range o.items {
		c.items[name] = append([]string{}, items...)
	}
	return c
}

// Len returns the number of sections.
func (o *Outline) Len() int {
	return len(o.order)
}

// Names returns the section names in order.
func (o *Outline) Names() []string {
	names := make([]string, len(o.order))
	copy(names, o.order)
	return names
}

// Section returns a copy of the named section.
func (o *Outline) Section(name string) (Section, bool) {
	items, ok := o.items[name]
	if !ok {
		return Section{}, false
	}
	return Section{Name: name, Items: append([]string(nil), items...)}, true
}

// Sections returns a deep copy of every section in order. Mutating the result
// does not affect the outline.
func (o *Outline) Sections() []Section {
	out := make([]Section, len(o.order))
	for i, name := range o.order {
		out[i] = Section{Name: name, Items: append([]string(nil), o.items[name]...)}
	}
	return out
}
