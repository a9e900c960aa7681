package diagramsync

import (
	"fmt"
	"strings"
)

// plantumlcloud macro constants.
const (
	macroName     = "plantumlcloud"
	macroToolbar  = "bottom"
	macroRevision = 1
)

// Macro is one plantumlcloud structured macro referencing an uploaded SVG.
type Macro struct {
	Filename string // attachment name of the SVG
	Size     Size
	Data     string // EncodeSource output
}

// String renders the macro in storage format.
func (m Macro) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<ac:structured-macro ac:name="%s">`, macroName)
	writeParam(&b, "toolbar", macroToolbar)
	writeParam(&b, "filename", m.Filename)
	writeParam(&b, "originalHeight", fmt.Sprint(m.Size.Height))
	writeParam(&b, "data", m.Data)
	writeParam(&b, "compressed", "true")
	writeParam(&b, "originalWidth", fmt.Sprint(m.Size.Width))
	writeParam(&b, "revision", fmt.Sprint(macroRevision))
	b.WriteString(`</ac:structured-macro>`)
	return b.String()
}

func writeParam(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, `<ac:parameter ac:name="%s">%s</ac:parameter>`, name, value)
}
