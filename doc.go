// Package diagramsync keeps the "Diagrams" section of a Confluence page in
// sync with a directory of PlantUML sources.
//
// # Quick Start
//
// Create a client and a renderer, then run a Syncer:
//
//	client, err := diagramsync.NewClient(diagramsync.Credentials{
//	    BaseURL: "https://example.atlassian.net/wiki",
//	    User:    "me@example.com",
//	    Token:   os.Getenv("CONFLUENCE_TOKEN"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	syncer, err := diagramsync.NewSyncer(diagramsync.Settings{
//	    PageID:      "123456",
//	    DiagramsDir: "docs/diagrams",
//	}, client, diagramsync.NewPlantUMLRenderer("java", "plantuml.jar"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := syncer.Sync(ctx)
//
// # Pipeline
//
// One run goes through these stages, strictly in order:
//
//  1. Fetch the page (storage-format body and version)
//  2. For each *.puml / *.plantuml file, sorted by name:
//     render SVG and PNG with the PlantUML jar, upload both as attachments,
//     read the SVG size and emit a plantumlcloud macro
//  3. Splice the new section into the body (replace or append)
//  4. Update the page with version+1, only if the body changed
//
// Any error aborts the run before the update, so the page is never partially
// written.
//
// # Target Pages
//
// A source may send its attachments to another page with a directive:
//
//	' @confluence-page-id: 987654
//
// The macro is still embedded in the configured page.
//
// # Errors
//
// Errors match one of ErrConfig, ErrRemote, ErrRender, ErrFormat or ErrIO.
// Use errors.As with *RemoteError or *RenderError for details such as the
// HTTP status code or the converter's stderr.
package diagramsync
