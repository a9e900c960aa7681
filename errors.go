package diagramsync

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
// Every error returned by this package matches exactly one of them via errors.Is.
var (
	ErrConfig = errors.New("missing required configuration")
	ErrRemote = errors.New("confluence request failed")
	ErrRender = errors.New("diagram rendering failed")
	ErrFormat = errors.New("unexpected rendered output format")
	ErrIO     = errors.New("local file access failed")
)

// maxErrorBody caps how much of a response body is kept in a RemoteError.
const maxErrorBody = 512

// RemoteError describes a failed call to the Confluence API.
// StatusCode is zero when the request never got a response.
type RemoteError struct {
	Op         string // "fetch page", "update page", "upload attachment"
	PageID     string
	Attachment string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteError) Error() string {
	target := "page " + e.PageID
	if e.Attachment != "" {
		target = fmt.Sprintf("%s to page %s", e.Attachment, e.PageID)
	}
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, target, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s: %s: status %d: %s", e.Op, target, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%s: %s: status %d", e.Op, target, e.StatusCode)
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Is reports ErrRemote as a match so callers can branch on the error kind.
func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// RenderError describes a failed PlantUML invocation for one output format.
type RenderError struct {
	Source string
	Format Format
	Stderr string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("rendering %s to %s: %v: %s", e.Source, e.Format, e.Err, e.Stderr)
	}
	return fmt.Sprintf("rendering %s to %s: %v", e.Source, e.Format, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) Is(target error) bool { return target == ErrRender }

// SourceDirError reports that the diagrams directory could not be listed.
type SourceDirError struct {
	Dir string
	Err error
}

func (e *SourceDirError) Error() string {
	return fmt.Sprintf("listing diagrams in %s: %v", e.Dir, e.Err)
}

func (e *SourceDirError) Unwrap() error { return e.Err }

func (e *SourceDirError) Is(target error) bool { return target == ErrIO }
