// Package feed fetches and parses podcast RSS feeds.
//
// The Fetcher performs conditional HTTP fetches against the validator
// cache, so an unchanged feed costs one 304 round trip and no parsing.
// The Parser normalizes the gofeed document into the model types,
// applying all optional-field fallbacks (episode author and image
// default to the show's, malformed dates to the zero time) so that
// downstream packages see fully resolved episodes.
//
// # Usage
//
//	fetcher := feed.NewFetcher(client, feedCache)
//
//	show, changed, err := fetcher.FetchIfChanged(ctx, rssURL)
//	if err != nil { ... }
//	if !changed {
//	    return // nothing new since the last run
//	}
//	for _, episode := range show.Episodes { ... }
package feed
