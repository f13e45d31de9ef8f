// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"fmt"
	"strings"
)

// Markdown renders a title and sections as a Markdown outline: the title as
// a level-1 heading, each section as a level-2 heading followed by a bullet
// list of its items.
func Markdown(title string, sections []Section) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Name)
		for _, item := range s.Items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
		if len(s.Items) > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
