// Package ioutils provides file system and image processing utilities.
//
// # File Operations
//
//	// Ensure the show directory exists
//	err := ioutils.EnsureDir("/podcasts/My Show")
//
//	// Existence check used for download deduplication
//	if ioutils.FileExists("/podcasts/My Show/Ep One.mp3") { /* skip */ }
//
// # Image Processing
//
// The ImageService prepares cover art for embedding:
//
//	svc := ioutils.NewImageService()
//
//	// Resize to fit within 1000x1000 and re-encode as JPEG
//	resized, _ := svc.ResizeImage(ctx, imageData, 1000, 1000)
//
//	// Convert to JPEG without resizing
//	jpegData, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
