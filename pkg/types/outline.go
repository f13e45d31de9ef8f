// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutlineSection is one named group of inspection items in an outline file.
type OutlineSection struct {
	// Name is the section heading; unique within an outline.
	Name string `json:"name" yaml:"name"`

	// Items lists the inspection checks in rendering order.
	Items []string `json:"items" yaml:"items"`
}

// OutlineFile is the serialized form of an outline, as read by the generate
// command and stored by the SQLite session backend.
type OutlineFile struct {
	// Title is the document title.
	Title string `json:"title" yaml:"title"`

	// Sections lists the outline's sections in order.
	Sections []OutlineSection `json:"sections" yaml:"sections"`
}
