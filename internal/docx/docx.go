// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx renders a declarative list of blocks (headings, paragraphs,
// tables) into a WordprocessingML (.docx) package. Output is deterministic:
// the same Document always yields the same bytes.
package docx

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTable is returned by Render when a table's rows do not match its
// column widths.
var ErrInvalidTable = errors.New("invalid table")

// Length is a distance in twentieths of a point (twips), the unit Word uses
// for widths and margins.
type Length int64

const twipsPerInch = 1440

// Cm converts centimeters to twips, rounded to the nearest twip.
func Cm(v float64) Length {
	return Length(math.Round(v * twipsPerInch / 2.54))
}

// Inch converts inches to twips.
func Inch(v float64) Length {
	return Length(math.Round(v * twipsPerInch))
}

// Cm returns l in centimeters.
func (l Length) Cm() float64 {
	return float64(l) * 2.54 / twipsPerInch
}

// Alignment is a paragraph or table justification value.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
	AlignBoth   Alignment = "both"
)

// PageSetup describes page size and margins for the single document section.
type PageSetup struct {
	Width, Height            Length
	Top, Right, Bottom, Left Length
	Header, Footer           Length
}

// Letter returns US Letter portrait with 1 inch margins.
func Letter() PageSetup {
	return PageSetup{
		Width: Inch(8.5), Height: Inch(11),
		Top: Inch(1), Right: Inch(1), Bottom: Inch(1), Left: Inch(1),
		Header: Inch(0.5), Footer: Inch(0.5),
	}
}

// A4 returns A4 portrait with 2.54 cm margins.
func A4() PageSetup {
	return PageSetup{
		Width: Cm(21), Height: Cm(29.7),
		Top: Inch(1), Right: Inch(1), Bottom: Inch(1), Left: Inch(1),
		Header: Inch(0.5), Footer: Inch(0.5),
	}
}

// WithMargins returns p with all four margins set to m.
func (p PageSetup) WithMargins(m Length) PageSetup {
	p.Top, p.Right, p.Bottom, p.Left = m, m, m, m
	return p
}

// BlockKind distinguishes the block types a Document is built from.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading
	KindTable
)

func (k BlockKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindTable:
		return "table"
	default:
		return fmt.Sprintf("BlockKind(%d)", int(k))
	}
}

// Block is one body element. Level applies to headings (0 is the document
// title); Table applies to table blocks.
type Block struct {
	Kind  BlockKind
	Level int
	Text  string
	Align Alignment
	Table *Table
}

// Heading returns a heading block. Level 0 uses the Title style, level n the
// Heading n style.
func Heading(level int, text string, align Alignment) Block {
	return Block{Kind: KindHeading, Level: level, Text: text, Align: align}
}

// Paragraph returns a plain paragraph block. An empty text yields a blank line.
func Paragraph(text string, align Alignment) Block {
	return Block{Kind: KindParagraph, Text: text, Align: align}
}

// TableBlock wraps t as a block.
func TableBlock(t Table) Block {
	return Block{Kind: KindTable, Table: &t}
}

// Cell is one table cell holding a single paragraph.
type Cell struct {
	Text  string
	Bold  bool
	Fill  string // hex shading colour without '#', e.g. "F2F2F2"; empty for none
	Align Alignment
}

// Table is a grid with a header row followed by data rows. Every row must
// have exactly len(Widths) cells.
type Table struct {
	Style  string
	Align  Alignment
	Widths []Length
	Header []Cell
	Rows   [][]Cell
}

// Columns returns the number of columns.
func (t Table) Columns() int {
	return len(t.Widths)
}

func (t Table) validate() error {
	if len(t.Widths) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidTable)
	}
	if len(t.Header) != len(t.Widths) {
		return fmt.Errorf("%w: header has %d cells, want %d", ErrInvalidTable, len(t.Header), len(t.Widths))
	}
	for i, r := range t.Rows {
		if len(r) != len(t.Widths) {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidTable, i, len(r), len(t.Widths))
		}
	}
	return nil
}

// Document is the full description of a .docx file.
type Document struct {
	Page         PageSetup
	DefaultAlign Alignment
	Blocks       []Block
}

// Tables returns the table blocks in order.
func (d Document) Tables() []Table {
	var out []Table
	for _, b := range d.Blocks {
		if b.Kind == KindTable && b.Table != nil {
			out = append(out, *b.Table)
		}
	}
	return out
}
