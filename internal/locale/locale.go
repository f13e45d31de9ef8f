// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locale holds the display strings used when seeding outlines and
// rendering inspection protocols.
package locale

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownLocale is returned by Lookup for a name with no catalog.
var ErrUnknownLocale = errors.New("unknown locale")

// DefaultName is the catalog used when no locale is configured.
const DefaultName = "he"

// Catalog is the set of localizable strings for one language.
type Catalog struct {
	// Name is the catalog key (e.g. "he").
	Name string

	// Title is the default document title offered in the title field.
	Title string

	// Direction is the HTML text direction for the editing page: "rtl" or "ltr".
	Direction string

	// Headers are the four table column headers in table order:
	// client sign-off, remarks, pass/fail, test description.
	Headers [4]string

	// DefaultItems seed every newly added section, in this order:
	// flooring, finish and paint, aluminum, electrical and lighting.
	DefaultItems []string
}

var catalogs = map[string]Catalog{
	"he": {
		Name:      "he",
		Title:     "פרוטוקול מסירת מבנה בית כנסת - בדיקות נדרשות",
		Direction: "rtl",
		Headers: [4]string{
			"אישור לקוח לתיקון הערות",
			"הערות",
			"תקין ומתפקד",
			"תיאור הבדיקה",
		},
		DefaultItems: []string{
			"ריצוף",
			"חזות הגמר והצביעה",
			"אלומיניום",
			"חשמל ותאורה",
		},
	},
	"en": {
		Name:      "en",
		Title:     "Building Handover Protocol - Required Inspections",
		Direction: "ltr",
		Headers: [4]string{
			"Client sign-off on remarks",
			"Remarks",
			"Pass / fail",
			"Test description",
		},
		DefaultItems: []string{
			"Flooring",
			"Finish and paint",
			"Aluminum",
			"Electrical and lighting",
		},
	},
}

// Lookup returns the catalog registered under name. An empty name selects
// DefaultName. The returned catalog owns its DefaultItems slice.
func Lookup(name string) (Catalog, error) {
	if name == "" {
		name = DefaultName
	}
	c, ok := catalogs[name]
	if !ok {
		return Catalog{}, fmt.Errorf("%w %q (available: %v)", ErrUnknownLocale, name, Names())
	}
	c.DefaultItems = append([]string(nil), c.DefaultItems...)
	return c, nil
}

// Names returns the registered catalog names, sorted.
func Names() []string {
	names := make([]string, 0, len(catalogs))
	for n := range catalogs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
