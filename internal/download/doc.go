// Package download runs the episode pipeline: select what to fetch,
// download it, tag it.
//
// The Selector turns a feed snapshot into download targets, skipping
// entries without an audio link or a usable file name and episodes
// already on disk. The Manager drives a whole run in two phases,
//
//	manager := download.NewManager(settings)
//	if err := manager.Initialize(ctx); err != nil { ... }
//	if err := manager.StartDownloads(ctx); err != nil { ... }
//
// with GetProgress available for polling from a UI goroutine in
// between. Downloads are strictly sequential; one failed episode is
// logged and the run moves on.
package download
