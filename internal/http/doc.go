// Package http provides the HTTP client used for feed, audio, and
// cover-image retrieval.
//
// The Client in this package handles:
//   - User-Agent headers (podcast hosts may reject bare clients)
//   - Per-request timeouts
//   - Conditional GET carrying If-None-Match / If-Modified-Since
//   - Streaming downloads with progress tracking
//
// # Basic Usage
//
//	client := http.NewClient("", 0)
//
//	// Conditional feed fetch
//	resp, err := client.GetConditional(ctx, feedURL, etag, lastModified)
//	if resp.NotModified { /* nothing new */ }
//
//	// Download audio with progress callback
//	client.DownloadFile(ctx, audioURL, "/podcasts/Show/Ep.mp3", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// DownloadFile never leaves a partial file behind: any failure after
// the destination has been created removes it before returning.
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for
// progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
