// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMissingPart is returned by Parse when the package lacks a required part.
var ErrMissingPart = errors.New("missing package part")

// Parse reads a .docx package produced by Render back into a Document. It
// understands the subset of WordprocessingML that Render emits: styled
// paragraphs, single-paragraph table cells, cell shading, bold runs, and the
// section's page setup.
func Parse(data []byte) (Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("opening package: %w", err)
	}

	documentXML, err := readPart(zr, PartDocument)
	if err != nil {
		return Document{}, err
	}
	doc, err := parseBody(documentXML)
	if err != nil {
		return Document{}, err
	}

	stylesXML, err := readPart(zr, PartStyles)
	if err != nil {
		return Document{}, err
	}
	var styles rStyles
	if err := xml.Unmarshal(stylesXML, &styles); err != nil {
		return Document{}, fmt.Errorf("parsing styles: %w", err)
	}
	for _, s := range styles.Styles {
		if s.ID == "Normal" && s.Jc != nil {
			doc.DefaultAlign = Alignment(s.Jc.Val)
		}
	}
	return doc, nil
}

func readPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
}

// parseBody walks the direct children of w:body in order, so interleaved
// paragraphs and tables keep their sequence.
func parseBody(data []byte) (Document, error) {
	var doc Document
	dec := xml.NewDecoder(bytes.NewReader(data))
	inBody := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Document{}, fmt.Errorf("parsing document: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !inBody {
				inBody = t.Name.Local == "body"
				continue
			}
			switch t.Name.Local {
			case "p":
				var p rParagraph
				if err := dec.DecodeElement(&p, &t); err != nil {
					return Document{}, fmt.Errorf("parsing paragraph: %w", err)
				}
				doc.Blocks = append(doc.Blocks, p.block())
			case "tbl":
				var rt rTable
				if err := dec.DecodeElement(&rt, &t); err != nil {
					return Document{}, fmt.Errorf("parsing table: %w", err)
				}
				doc.Blocks = append(doc.Blocks, TableBlock(rt.table()))
			case "sectPr":
				var s rSectPr
				if err := dec.DecodeElement(&s, &t); err != nil {
					return Document{}, fmt.Errorf("parsing section properties: %w", err)
				}
				doc.Page = s.page()
			default:
				if err := dec.Skip(); err != nil {
					return Document{}, fmt.Errorf("parsing document: %w", err)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "body" {
				inBody = false
			}
		}
	}
	return doc, nil
}

type rVal struct {
	Val string `xml:"val,attr"`
}

type rRun struct {
	Bold *struct{} `xml:"rPr>b"`
	Text []string  `xml:"t"`
}

type rParagraph struct {
	Style *rVal  `xml:"pPr>pStyle"`
	Jc    *rVal  `xml:"pPr>jc"`
	Runs  []rRun `xml:"r"`
}

func (p rParagraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t)
		}
	}
	return b.String()
}

func (p rParagraph) bold() bool {
	for _, r := range p.Runs {
		if r.Bold != nil {
			return true
		}
	}
	return false
}

func (p rParagraph) align() Alignment {
	if p.Jc == nil {
		return ""
	}
	return Alignment(p.Jc.Val)
}

func (p rParagraph) block() Block {
	if p.Style != nil {
		switch {
		case p.Style.Val == "Title":
			return Heading(0, p.text(), p.align())
		case strings.HasPrefix(p.Style.Val, "Heading"):
			if n, err := strconv.Atoi(strings.TrimPrefix(p.Style.Val, "Heading")); err == nil {
				return Heading(n, p.text(), p.align())
			}
		}
	}
	return Paragraph(p.text(), p.align())
}

type rWidth struct {
	W int64 `xml:"w,attr"`
}

type rShd struct {
	Fill string `xml:"fill,attr"`
}

type rCell struct {
	Shd *rShd        `xml:"tcPr>shd"`
	P   []rParagraph `xml:"p"`
}

func (c rCell) cell() Cell {
	out := Cell{}
	if c.Shd != nil {
		out.Fill = c.Shd.Fill
	}
	for i, p := range c.P {
		if i == 0 {
			out.Align = p.align()
		}
		out.Text += p.text()
		out.Bold = out.Bold || p.bold()
	}
	return out
}

type rRow struct {
	Cells []rCell `xml:"tc"`
}

type rTable struct {
	Style *rVal    `xml:"tblPr>tblStyle"`
	Jc    *rVal    `xml:"tblPr>jc"`
	Cols  []rWidth `xml:"tblGrid>gridCol"`
	Rows  []rRow   `xml:"tr"`
}

func (rt rTable) table() Table {
	t := Table{}
	if rt.Style != nil {
		t.Style = rt.Style.Val
	}
	if rt.Jc != nil {
		t.Align = Alignment(rt.Jc.Val)
	}
	for _, c := range rt.Cols {
		t.Widths = append(t.Widths, Length(c.W))
	}
	for i, r := range rt.Rows {
		var cells []Cell
		for _, c := range r.Cells {
			cells = append(cells, c.cell())
		}
		if i == 0 {
			t.Header = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

type rSectPr struct {
	PgSz struct {
		W int64 `xml:"w,attr"`
		H int64 `xml:"h,attr"`
	} `xml:"pgSz"`
	PgMar struct {
		Top    int64 `xml:"top,attr"`
		Right  int64 `xml:"right,attr"`
		Bottom int64 `xml:"bottom,attr"`
		Left   int64 `xml:"left,attr"`
		Header int64 `xml:"header,attr"`
		Footer int64 `xml:"footer,attr"`
	} `xml:"pgMar"`
}

func (s rSectPr) page() PageSetup {
	return PageSetup{
		Width: Length(s.PgSz.W), Height: Length(s.PgSz.H),
		Top: Length(s.PgMar.Top), Right: Length(s.PgMar.Right),
		Bottom: Length(s.PgMar.Bottom), Left: Length(s.PgMar.Left),
		Header: Length(s.PgMar.Header), Footer: Length(s.PgMar.Footer),
	}
}

type rStyles struct {
	Styles []struct {
		ID string `xml:"styleId,attr"`
		Jc *rVal  `xml:"pPr>jc"`
	} `xml:"style"`
}
