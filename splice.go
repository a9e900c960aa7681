package diagramsync

import (
	"regexp"
	"strings"
)

// SectionHeading opens the managed section of the page body.
const SectionHeading = "<h2>Diagrams</h2>"

// managedSection captures everything after SectionHeading up to the next h1/h2
// or the end of the body. A single newline ending the body stays outside the
// capture so splicing never eats it.
var managedSection = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(SectionHeading) + `(.*?)(?:<h2>|<h1>|\n?\z)`)

// Splice replaces the content of the Diagrams section in body with the content
// of fragment, or appends fragment when body has no such section.
// Text outside the section is left untouched.
//
// Replaced content is written after a newline. A section that already holds
// the fragment's content, with or without that newline, is left as is, so an
// appended section is stable on the next splice.
func Splice(body, fragment string) string {
	loc := managedSection.FindStringSubmatchIndex(body)
	if loc == nil {
		return body + "\n" + fragment
	}
	start, end := loc[2], loc[3]
	content := strings.TrimPrefix(fragment, SectionHeading)
	if current := body[start:end]; current == content || current == "\n"+content {
		return body
	}
	return body[:start] + "\n" + content + body[end:]
}
