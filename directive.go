package diagramsync

import "regexp"

var pageIDDirective = regexp.MustCompile(`@confluence-page-id:\s*([0-9A-Za-z\-_]+)`)

// ParsePageID returns the page id named by an "@confluence-page-id: <id>"
// directive in a diagram source, and false when there is none.
// The first directive wins.
func ParsePageID(source string) (string, bool) {
	m := pageIDDirective.FindStringSubmatch(source)
	if m == nil {
		return "", false
	}
	return m[1], true
}
