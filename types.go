package diagramsync

// Page is a Confluence page as read from the v2 API.
type Page struct {
	ID      string
	Title   string
	Status  string
	SpaceID string
	Body    string // storage representation
	Version int
}

// PageUpdate carries the fields sent when replacing a page body.
// Version is the number last read; the client sends Version+1.
type PageUpdate struct {
	ID      string
	Title   string
	SpaceID string
	Body    string
	Version int
}

// Attachment is the metadata returned after an upload.
type Attachment struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	MediaType string `json:"mediaType"`
	FileSize  int64  `json:"fileSize"`
}

// Diagram is one PlantUML source file selected for synchronization.
type Diagram struct {
	Path   string // source file path
	Name   string // base name without extension
	Source string // raw file content
	PageID string // page receiving the attachments
}

// Size is a pixel size derived from a rendered SVG.
type Size struct {
	Width  int
	Height int
}

// Result is the outcome of one synchronization run.
type Result struct {
	PageID   string
	Diagrams int
	Updated  bool
	Version  int // version after the run
}
