package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	// defaultUserAgent is sent when no user agent is configured. Some
	// podcast hosts reject requests without a browser-looking UA.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// defaultTimeout bounds every request; a stalled origin must not
	// hang a run indefinitely.
	defaultTimeout = 30 * time.Second

	// downloadChunkSize is the copy buffer size for streaming
	// downloads.
	downloadChunkSize = 8 * 1024
)

// Client wraps HTTP operations for feed, audio, and image retrieval.
//
// Client provides:
//   - A configurable User-Agent header on every request
//   - Per-request timeout handling
//   - Conditional GET with validator tokens
//   - Streaming file download with progress tracking and partial-file
//     cleanup on failure
//
// Example usage:
//
//	client := NewClient("", 0) // defaults
//
//	// Conditional feed fetch
//	resp, err := client.GetConditional(ctx, feedURL, etag, lastModified)
//
//	// Download audio with progress
//	err = client.DownloadFile(ctx, audioURL, "/podcasts/Show/Ep.mp3", func(written, total int64) {
//	    if total > 0 {
//	        fmt.Printf("%.1f%%\r", float64(written)/float64(total)*100)
//	    }
//	})
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// An empty userAgent falls back to a conventional desktop string; a
// zero timeout falls back to 30 seconds.
func NewClient(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	// Zero or negative means the total is unknown and progress is
	// indeterminate.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// The request includes the configured User-Agent header.
//
// Returns an error if:
//   - The request fails
//   - The response status is not success-class
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// ConditionalResponse is the outcome of GetConditional.
type ConditionalResponse struct {
	// Body is the response body. Empty when NotModified is true.
	Body []byte

	// ETag is the entity tag the origin sent with this response, if
	// any.
	ETag string

	// LastModified is the Last-Modified header the origin sent with
	// this response, if any.
	LastModified string

	// NotModified is true when the origin answered 304 and the cached
	// content is still current.
	NotModified bool
}

// GetConditional performs a GET request carrying conditional-fetch
// headers built from previously stored validator tokens.
//
// If-None-Match is sent when etag is non-empty and If-Modified-Since
// when lastModified is non-empty; on a first fetch both are empty and
// the request is an ordinary GET.
//
// A 304 response yields NotModified=true with no body. Any other
// non-success status is an error.
func (c *Client) GetConditional(ctx context.Context, url, etag, lastModified string) (*ConditionalResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastModified != "" {
		req.Header.Set("If-Modified-Since", lastModified)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return &ConditionalResponse{NotModified: true}, nil
	}

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &ConditionalResponse{
		Body:         body,
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
	}, nil
}

// DownloadFile downloads a file to the specified path with optional
// progress callback.
//
// The body is streamed to disk in 8 KiB chunks, avoiding loading the
// entire file into memory. Success requires a success-class status AND
// the full body written without I/O error; when the origin declares a
// Content-Length, a shorter body counts as failure.
//
// On ANY failure after the destination file has been created, the
// partial file is removed before the error is returned. Callers can
// rely on destPath either holding the complete download or not
// existing.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (bytesWritten, totalBytes);
//     totalBytes is -1 when the origin declares no Content-Length.
//     Pass nil to disable progress tracking.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	written, err := io.CopyBuffer(writer, resp.Body, make([]byte, downloadChunkSize))
	if err == nil && resp.ContentLength > 0 && written < resp.ContentLength {
		err = fmt.Errorf("short body: got %d of %d bytes", written, resp.ContentLength)
	}

	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		os.Remove(destPath)
		return err
	}

	return nil
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}
