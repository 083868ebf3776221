// Package cache persists conditional-fetch validators between runs.
//
// Each feed URL maps to the {etag, modified} pair returned by the last
// successful fetch. On the next run those tokens are sent back as
// If-None-Match / If-Modified-Since, letting the origin answer 304
// instead of resending an unchanged feed.
//
// # Usage
//
//	store := cache.NewFileStore("podcasts/.castfetch-cache.json")
//	c := cache.New(store)
//
//	v := c.Validator(feedURL)          // zero value on first run
//	// ... conditional fetch using v ...
//	c.Update(feedURL, cache.Validator{ // write-through persist
//	    ETag:         resp.ETag,
//	    LastModified: resp.LastModified,
//	})
//
// An unchanged fetch (304) must not call Update; the store file is only
// rewritten when the origin actually sent new content.
//
// The store file is shared state without locking: two runs writing the
// same file race, and the last writer wins. That costs at most one
// redundant refetch, never a lost episode.
package cache
