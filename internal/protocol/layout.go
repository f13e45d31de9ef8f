// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package protocol

import (
	"fmt"

	"github.com/pdiddy/inspection-protocol/internal/docx"
	"github.com/pdiddy/inspection-protocol/internal/locale"
	"github.com/pdiddy/inspection-protocol/pkg/types"
)

const (
	// FileName is the name the artifact is offered for download under.
	FileName = "inspection_protocol.docx"

	// ContentType is the generic binary type used for delivery.
	ContentType = "application/octet-stream"

	// HeaderFill is the light shading behind the header row.
	HeaderFill = "F2F2F2"

	// TableStyle is the bordered grid style every section table uses.
	TableStyle = "TableGrid"
)

// ColumnWidthsCm are the fixed column widths in table order:
// client sign-off, remarks, pass/fail, test description.
var ColumnWidthsCm = [4]float64{4, 4, 4, 8}

// MarginCm is the margin on all four sides of the page.
const MarginCm = 2.0

// DescriptionColumn is the index of the column holding the item text.
const DescriptionColumn = 3

// Layout is the fixed visual template an outline is rendered with.
type Layout struct {
	Page    docx.PageSetup
	Align   docx.Alignment
	Headers [4]string
	Widths  [4]docx.Length
}

// NewLayout returns the protocol template for the given catalog and paper size.
func NewLayout(c locale.Catalog, size types.PageSize) (Layout, error) {
	var page docx.PageSetup
	switch size {
	case types.PageLetter, "":
		page = docx.Letter()
	case types.PageA4:
		page = docx.A4()
	default:
		return Layout{}, fmt.Errorf("unsupported page size %q: use letter or a4", size)
	}

	l := Layout{
		Page:    page.WithMargins(docx.Cm(MarginCm)),
		Align:   docx.AlignRight,
		Headers: c.Headers,
	}
	for i, w := range ColumnWidthsCm {
		l.Widths[i] = docx.Cm(w)
	}
	return l, nil
}
