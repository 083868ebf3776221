package feed

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/castfetch/castfetch/internal/cache"
	httpclient "github.com/castfetch/castfetch/internal/http"
	"github.com/castfetch/castfetch/internal/model"
)

// Fetcher retrieves feed snapshots over HTTP, conditioning each fetch
// on the validators recorded by previous runs.
type Fetcher struct {
	client *httpclient.Client
	cache  *cache.Cache
	parser *Parser
}

// NewFetcher creates a Fetcher using the given HTTP client and feed
// cache.
func NewFetcher(client *httpclient.Client, feedCache *cache.Cache) *Fetcher {
	return &Fetcher{
		client: client,
		cache:  feedCache,
		parser: NewParser(),
	}
}

// FetchIfChanged fetches and parses the feed at url.
//
// When the origin answers 304 Not Modified the stored validators are
// left untouched and (nil, false, nil) is returned; there is nothing
// new to download. Fresh content records the response validators
// before parsing, so a malformed body still conditions the next run on
// the snapshot the origin already served.
func (f *Fetcher) FetchIfChanged(ctx context.Context, url string) (*model.Show, bool, error) {
	validator := f.cache.Validator(url)
	if !validator.IsZero() {
		log.Debugf("conditional fetch %s (etag=%q, modified=%q)", url, validator.ETag, validator.LastModified)
	}

	resp, err := f.client.GetConditional(ctx, url, validator.ETag, validator.LastModified)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch feed: %w", err)
	}

	if resp.NotModified {
		return nil, false, nil
	}

	if err := f.cache.Update(url, cache.Validator{ETag: resp.ETag, LastModified: resp.LastModified}); err != nil {
		log.WithError(err).Warn("failed to persist feed cache")
	}

	show, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, true, err
	}

	log.Debugf("feed %q parsed with %d entries", show.Title, len(show.Episodes))
	return show, true, nil
}
