package render

import "strings"

// Text draws boxes as plain text, one blank line between boxes.
func Text(boxes []Box) string {
	if boxes == nil {
		return EmptyMessage + "\n"
	}
	var b strings.Builder
	for i, box := range boxes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(box.Title)
		b.WriteString("\n")
		for _, r := range box.Rows {
			b.WriteString("  ")
			if r.Check != nil {
				if r.Check.Done {
					b.WriteString("[x] ")
				} else {
					b.WriteString("[ ] ")
				}
			}
			b.WriteString(r.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}
