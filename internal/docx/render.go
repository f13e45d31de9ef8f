// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"bytes"
	_ "embed"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"text/template"
	"time"
)

const (
	nsW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// Part names inside the package, in the order they are written.
const (
	PartContentTypes = "[Content_Types].xml"
	PartRels         = "_rels/.rels"
	PartDocument     = "word/document.xml"
	PartDocumentRels = "word/_rels/document.xml.rels"
	PartStyles       = "word/styles.xml"
)

// entryTime is stamped on every zip entry so output does not depend on the clock.
var entryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

const contentTypesXML = xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const relsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

//go:embed styles.xml
var stylesSource string

var stylesTemplate = template.Must(template.New("styles").Parse(stylesSource))

// Render writes doc as a .docx package to w.
func Render(w io.Writer, doc Document) error {
	documentXML, err := marshalDocument(doc)
	if err != nil {
		return err
	}
	stylesXML, err := renderStyles(doc)
	if err != nil {
		return err
	}

	parts := []struct {
		name string
		data []byte
	}{
		{PartContentTypes, []byte(contentTypesXML)},
		{PartRels, []byte(relsXML)},
		{PartDocument, documentXML},
		{PartDocumentRels, []byte(documentRelsXML)},
		{PartStyles, stylesXML},
	}

	zw := zip.NewWriter(w)
	for _, p := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: entryTime,
		})
		if err != nil {
			return fmt.Errorf("creating %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing package: %w", err)
	}
	return nil
}

func renderStyles(doc Document) ([]byte, error) {
	align := doc.DefaultAlign
	if align == "" {
		align = AlignLeft
	}
	var buf bytes.Buffer
	if err := stylesTemplate.Execute(&buf, struct{ DefaultAlign Alignment }{align}); err != nil {
		return nil, fmt.Errorf("rendering styles: %w", err)
	}
	return buf.Bytes(), nil
}

func marshalDocument(doc Document) ([]byte, error) {
	body := xBody{SectPr: sectPr(doc.Page)}
	for i, b := range doc.Blocks {
		switch b.Kind {
		case KindHeading:
			body.Content = append(body.Content, paragraph(b.Text, headingStyle(b.Level), b.Align, false))
		case KindParagraph:
			body.Content = append(body.Content, paragraph(b.Text, "", b.Align, false))
		case KindTable:
			if b.Table == nil {
				return nil, fmt.Errorf("block %d: %w: missing table", i, ErrInvalidTable)
			}
			if err := b.Table.validate(); err != nil {
				return nil, fmt.Errorf("block %d: %w", i, err)
			}
			body.Content = append(body.Content, table(*b.Table))
		default:
			return nil, fmt.Errorf("block %d: unknown kind %v", i, b.Kind)
		}
	}

	data, err := xml.Marshal(xDocument{XmlnsW: nsW, Body: body})
	if err != nil {
		return nil, fmt.Errorf("marshaling document: %w", err)
	}
	return append([]byte(xmlHeader), data...), nil
}

func headingStyle(level int) string {
	if level <= 0 {
		return "Title"
	}
	return "Heading" + strconv.Itoa(level)
}

func paragraph(text, style string, align Alignment, bold bool) xParagraph {
	p := xParagraph{}
	if style != "" || align != "" {
		p.PPr = &xPPr{}
		if style != "" {
			p.PPr.Style = &xVal{Val: style}
		}
		if align != "" {
			p.PPr.Jc = &xVal{Val: string(align)}
		}
	}
	if text != "" {
		r := xRun{Text: xText{Space: "preserve", Value: text}}
		if bold {
			r.RPr = &xRPr{Bold: &xEmpty{}, BoldCS: &xEmpty{}}
		}
		p.Runs = append(p.Runs, r)
	}
	return p
}

func table(t Table) xTable {
	xt := xTable{
		TblPr: xTblPr{
			Width: xWidth{W: 0, Type: "auto"},
			Look:  xLook{Val: "04A0", FirstRow: "1", LastRow: "0", FirstColumn: "1", LastColumn: "0", NoHBand: "0", NoVBand: "1"},
		},
	}
	if t.Style != "" {
		xt.TblPr.Style = &xVal{Val: t.Style}
	}
	if t.Align != "" {
		xt.TblPr.Jc = &xVal{Val: string(t.Align)}
	}
	for _, w := range t.Widths {
		xt.Grid.Cols = append(xt.Grid.Cols, xGridCol{W: int64(w)})
	}

	xt.Rows = append(xt.Rows, row(t.Header, t.Widths, true))
	for _, r := range t.Rows {
		xt.Rows = append(xt.Rows, row(r, t.Widths, false))
	}
	return xt
}

func row(cells []Cell, widths []Length, header bool) xRow {
	xr := xRow{}
	if header {
		xr.TrPr = &xTrPr{TblHeader: &xEmpty{}}
	}
	for i, c := range cells {
		xc := xCell{
			TcPr: xTcPr{Width: xWidth{W: int64(widths[i]), Type: "dxa"}},
			P:    paragraph(c.Text, "", c.Align, c.Bold),
		}
		if c.Fill != "" {
			xc.TcPr.Shd = &xShd{Val: "clear", Color: "auto", Fill: c.Fill}
		}
		xr.Cells = append(xr.Cells, xc)
	}
	return xr
}

func sectPr(p PageSetup) xSectPr {
	return xSectPr{
		PgSz: xPgSz{W: int64(p.Width), H: int64(p.Height)},
		PgMar: xPgMar{
			Top: int64(p.Top), Right: int64(p.Right), Bottom: int64(p.Bottom), Left: int64(p.Left),
			Header: int64(p.Header), Footer: int64(p.Footer), Gutter: 0,
		},
	}
}

// WordprocessingML element types. Names carry the "w:" prefix verbatim; the
// namespace is declared once on the root element.

type xDocument struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	Body    xBody    `xml:"w:body"`
}

type xBody struct {
	Content []any
	SectPr  xSectPr `xml:"w:sectPr"`
}

type xEmpty struct{}

type xVal struct {
	Val string `xml:"w:val,attr"`
}

type xParagraph struct {
	XMLName xml.Name `xml:"w:p"`
	PPr     *xPPr    `xml:"w:pPr"`
	Runs    []xRun   `xml:"w:r"`
}

type xPPr struct {
	Style *xVal `xml:"w:pStyle"`
	Jc    *xVal `xml:"w:jc"`
}

type xRun struct {
	RPr  *xRPr `xml:"w:rPr"`
	Text xText `xml:"w:t"`
}

type xRPr struct {
	Bold   *xEmpty `xml:"w:b"`
	BoldCS *xEmpty `xml:"w:bCs"`
}

type xText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

type xTable struct {
	XMLName xml.Name `xml:"w:tbl"`
	TblPr   xTblPr   `xml:"w:tblPr"`
	Grid    xGrid    `xml:"w:tblGrid"`
	Rows    []xRow   `xml:"w:tr"`
}

type xTblPr struct {
	Style *xVal  `xml:"w:tblStyle"`
	Width xWidth `xml:"w:tblW"`
	Jc    *xVal  `xml:"w:jc"`
	Look  xLook  `xml:"w:tblLook"`
}

type xLook struct {
	Val         string `xml:"w:val,attr"`
	FirstRow    string `xml:"w:firstRow,attr"`
	LastRow     string `xml:"w:lastRow,attr"`
	FirstColumn string `xml:"w:firstColumn,attr"`
	LastColumn  string `xml:"w:lastColumn,attr"`
	NoHBand     string `xml:"w:noHBand,attr"`
	NoVBand     string `xml:"w:noVBand,attr"`
}

type xWidth struct {
	W    int64  `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type xGrid struct {
	Cols []xGridCol `xml:"w:gridCol"`
}

type xGridCol struct {
	W int64 `xml:"w:w,attr"`
}

type xRow struct {
	TrPr  *xTrPr  `xml:"w:trPr"`
	Cells []xCell `xml:"w:tc"`
}

type xTrPr struct {
	TblHeader *xEmpty `xml:"w:tblHeader"`
}

type xCell struct {
	TcPr xTcPr      `xml:"w:tcPr"`
	P    xParagraph `xml:"w:p"`
}

type xTcPr struct {
	Width xWidth `xml:"w:tcW"`
	Shd   *xShd  `xml:"w:shd"`
}

type xShd struct {
	Val   string `xml:"w:val,attr"`
	Color string `xml:"w:color,attr"`
	Fill  string `xml:"w:fill,attr"`
}

type xSectPr struct {
	PgSz  xPgSz  `xml:"w:pgSz"`
	PgMar xPgMar `xml:"w:pgMar"`
}

type xPgSz struct {
	W int64 `xml:"w:w,attr"`
	H int64 `xml:"w:h,attr"`
}

type xPgMar struct {
	Top    int64 `xml:"w:top,attr"`
	Right  int64 `xml:"w:right,attr"`
	Bottom int64 `xml:"w:bottom,attr"`
	Left   int64 `xml:"w:left,attr"`
	Header int64 `xml:"w:header,attr"`
	Footer int64 `xml:"w:footer,attr"`
	Gutter int64 `xml:"w:gutter,attr"`
}
