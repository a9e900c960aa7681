package diagramsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/phuslu/log"
)

// Credentials identify the Confluence site and account used for every request.
type Credentials struct {
	BaseURL string // e.g. https://example.atlassian.net/wiki
	User    string // account email
	Token   string // API token
}

// PageClient is the subset of the Confluence API the sync pipeline needs.
type PageClient interface {
	GetPage(ctx context.Context, id string) (*Page, error)
	UpdatePage(ctx context.Context, update PageUpdate) (*Page, error)
	AttachmentUploader
}

// AttachmentUploader uploads a local file as a page attachment.
type AttachmentUploader interface {
	UploadAttachment(ctx context.Context, pageID, filePath, fileName string) (*Attachment, error)
}

// Compile-time interface implementation check.
var _ PageClient = (*Client)(nil)

// Client talks to the Confluence Cloud REST API v2.
// It keeps no state besides its credentials and transport; reuse it within a
// run but do not share it between goroutines.
type Client struct {
	creds  Credentials
	http   *retryablehttp.Client
	logger *log.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client (tests, proxies).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http.HTTPClient = hc
	}
}

// WithClientLogger sets the logger used for request tracing.
func WithClientLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client. All three credential values are required.
func NewClient(creds Credentials, opts ...ClientOption) (*Client, error) {
	switch {
	case creds.BaseURL == "":
		return nil, fmt.Errorf("%w: confluence base URL", ErrConfig)
	case creds.User == "":
		return nil, fmt.Errorf("%w: confluence user", ErrConfig)
	case creds.Token == "":
		return nil, fmt.Errorf("%w: confluence token", ErrConfig)
	}
	creds.BaseURL = strings.TrimRight(creds.BaseURL, "/")

	hc := retryablehttp.NewClient()
	hc.RetryMax = 0
	hc.Logger = nil
	hc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{creds: creds, http: hc, logger: discardLogger()}
	for _, opt := range opts {
		opt(c)
	}

	hc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, _ int) {
		c.logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("confluence request")
	}
	hc.ResponseLogHook = func(_ retryablehttp.Logger, resp *http.Response) {
		c.logger.Debug().Str("url", resp.Request.URL.String()).Int("status", resp.StatusCode).Msg("confluence response")
	}
	return c, nil
}

// pagePayload mirrors the v2 page representation for both reads and writes.
type pagePayload struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Title   string `json:"title"`
	SpaceID string `json:"spaceId"`
	Body    struct {
		Storage *storageBody `json:"storage,omitempty"`
		// write side
		Representation string `json:"representation,omitempty"`
		Value          string `json:"value,omitempty"`
	} `json:"body"`
	Version struct {
		Number int `json:"number"`
	} `json:"version"`
}

type storageBody struct {
	Representation string `json:"representation"`
	Value          string `json:"value"`
}

// checkRead rejects a fetched page that lacks the storage body or the version.
// Writing back from such a read would replace the whole page.
func (p *pagePayload) checkRead() error {
	switch {
	case p.Body.Storage == nil:
		return errors.New("response has no storage body")
	case p.Version.Number < 1:
		return errors.New("response has no version number")
	}
	return nil
}

func (p *pagePayload) toPage() *Page {
	page := &Page{
		ID:      p.ID,
		Title:   p.Title,
		Status:  p.Status,
		SpaceID: p.SpaceID,
		Version: p.Version.Number,
	}
	if p.Body.Storage != nil {
		page.Body = p.Body.Storage.Value
	}
	return page
}

// GetPage fetches a page with its storage-format body.
func (c *Client) GetPage(ctx context.Context, id string) (*Page, error) {
	const op = "fetch page"

	endpoint := c.pageURL(id) + "?body-format=storage"
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &RemoteError{Op: op, PageID: id, Err: err}
	}

	var payload pagePayload
	if err := c.do(req, &payload); err != nil {
		return nil, remoteError(op, id, "", err)
	}
	if err := payload.checkRead(); err != nil {
		return nil, &RemoteError{Op: op, PageID: id, StatusCode: http.StatusOK, Err: err}
	}
	return payload.toPage(), nil
}

// UpdatePage replaces a page body. The service rejects the write when
// update.Version is no longer the latest version.
func (c *Client) UpdatePage(ctx context.Context, update PageUpdate) (*Page, error) {
	const op = "update page"

	var payload pagePayload
	payload.ID = update.ID
	payload.Status = "current"
	payload.Title = update.Title
	payload.SpaceID = update.SpaceID
	payload.Body.Representation = "storage"
	payload.Body.Value = update.Body
	payload.Version.Number = update.Version + 1

	data, err := json.Marshal(&payload)
	if err != nil {
		return nil, &RemoteError{Op: op, PageID: update.ID, Err: err}
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, c.pageURL(update.ID), data)
	if err != nil {
		return nil, &RemoteError{Op: op, PageID: update.ID, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	var updated pagePayload
	if err := c.do(req, &updated); err != nil {
		return nil, remoteError(op, update.ID, "", err)
	}
	return updated.toPage(), nil
}

// UploadAttachment posts filePath as a multipart "file" part named fileName.
func (c *Client) UploadAttachment(ctx context.Context, pageID, filePath, fileName string) (*Attachment, error) {
	const op = "upload attachment"

	body, contentType, err := multipartFile(filePath, fileName)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("page", pageID).Str("file", fileName).Msg("uploading attachment")

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.pageURL(pageID)+"/attachments", body)
	if err != nil {
		return nil, &RemoteError{Op: op, PageID: pageID, Attachment: fileName, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Atlassian-Token", "no-check")

	var resp struct {
		Attachment
		Results []Attachment `json:"results"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, remoteError(op, pageID, fileName, err)
	}
	if len(resp.Results) > 0 {
		return &resp.Results[0], nil
	}
	return &resp.Attachment, nil
}

// multipartFile returns a body that streams filePath as a single "file"
// part. Each call of the returned func reopens the file and writes the part
// through a pipe, so the request body can be rebuilt without holding the
// file in memory. The file is checked once up front so that an unreadable
// source fails with ErrIO before any request is sent.
func multipartFile(filePath, fileName string) (retryablehttp.ReaderFunc, string, error) {
	f, err := os.Open(filePath) // #nosec G304 -- renderer output in the diagrams directory
	if err != nil {
		return nil, "", fmt.Errorf("%w: opening attachment %s: %v", ErrIO, filePath, err)
	}
	_ = f.Close()

	boundary := multipart.NewWriter(io.Discard).Boundary()
	contentType := "multipart/form-data; boundary=" + boundary

	body := func() (io.Reader, error) {
		pr, pw := io.Pipe()
		go func() {
			pw.CloseWithError(writeFilePart(pw, boundary, filePath, fileName))
		}()
		return pr, nil
	}
	return body, contentType, nil
}

// writeFilePart writes the multipart body for one file. The returned error
// ends the pipe; nil closes it normally.
func writeFilePart(w io.Writer, boundary, filePath, fileName string) error {
	f, err := os.Open(filePath) // #nosec G304 -- renderer output in the diagrams directory
	if err != nil {
		return fmt.Errorf("%w: opening attachment %s: %v", ErrIO, filePath, err)
	}
	defer func() { _ = f.Close() }()

	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(boundary); err != nil {
		return err
	}
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("%w: reading attachment %s: %v", ErrIO, filePath, err)
	}
	return mw.Close()
}

// statusError is an internal carrier for non-2xx responses; it is converted
// to a RemoteError by the calling operation.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string { return fmt.Sprintf("status %d", e.code) }

// do sends req with credentials and decodes a 2xx JSON body into out.
func (c *Client) do(req *retryablehttp.Request, out any) error {
	req.SetBasicAuth(c.creds.User, c.creds.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func remoteError(op, pageID, attachment string, err error) *RemoteError {
	re := &RemoteError{Op: op, PageID: pageID, Attachment: attachment}
	if se, ok := err.(*statusError); ok {
		re.StatusCode = se.code
		re.Body = se.body
		return re
	}
	re.Err = err
	return re
}

func (c *Client) pageURL(id string) string {
	return c.creds.BaseURL + "/api/v2/pages/" + url.PathEscape(id)
}
