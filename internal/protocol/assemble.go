// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package protocol turns an outline into an inspection protocol document.
// Assemble builds the declarative block list; Generator renders it to bytes.
package protocol

import (
	"github.com/pdiddy/inspection-protocol/internal/docx"
	"github.com/pdiddy/inspection-protocol/internal/outline"
)

// Assemble returns the document for title and sections: a title block, then
// for each section a heading, a table with one header row and one row per
// item, and a blank spacer paragraph. It does not modify sections.
func Assemble(title string, sections []outline.Section, l Layout) docx.Document {
	doc := docx.Document{
		Page:         l.Page,
		DefaultAlign: l.Align,
		Blocks:       make([]docx.Block, 0, 1+3*len(sections)),
	}
	doc.Blocks = append(doc.Blocks, docx.Heading(0, title, l.Align))

	for _, s := range sections {
		doc.Blocks = append(doc.Blocks,
			docx.Heading(1, s.Name, l.Align),
			docx.TableBlock(sectionTable(s.Items, l)),
			docx.Paragraph("", ""),
		)
	}
	return doc
}

func sectionTable(items []string, l Layout) docx.Table {
	t := docx.Table{
		Style:  TableStyle,
		Align:  l.Align,
		Widths: l.Widths[:],
		Header: make([]docx.Cell, len(l.Headers)),
		Rows:   make([][]docx.Cell, 0, len(items)),
	}
	for i, h := range l.Headers {
		t.Header[i] = docx.Cell{Text: h, Bold: true, Fill: HeaderFill, Align: l.Align}
	}
	for _, item := range items {
		row := make([]docx.Cell, len(l.Widths))
		for i := range row {
			row[i] = docx.Cell{Align: l.Align}
		}
		row[DescriptionColumn].Text = item
		t.Rows = append(t.Rows, row)
	}
	return t
}
