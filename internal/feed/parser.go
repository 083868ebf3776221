package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"

	"github.com/castfetch/castfetch/internal/model"
)

// audioMIMEType is the enclosure type selected for download. Entries
// whose enclosures all carry other types are skipped by the selector.
const audioMIMEType = "audio/mpeg"

// Parser turns raw feed XML into a model.Show.
//
// Every optional entry field is defaulted at parse time: episode
// author falls back to the show author, episode image to the show
// image, and malformed publish dates to the zero time. Downstream code
// never re-applies these fallbacks.
type Parser struct {
	gofeedParser *gofeed.Parser
}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Parse parses feed XML into a Show.
//
// Malformed XML returns an error; callers treat that as a degenerate
// snapshot and continue the run with zero episodes. A feed that parses
// with no items is valid and yields a Show with an empty episode list.
func (p *Parser) Parse(data []byte) (*model.Show, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	show := &model.Show{
		Title:       feed.Title,
		Author:      showAuthor(feed),
		Description: feed.Description,
		Link:        feed.Link,
		ImageURL:    showImage(feed),
	}

	show.Episodes = make([]*model.Episode, 0, len(feed.Items))
	for _, item := range feed.Items {
		show.Episodes = append(show.Episodes, p.normalizeItem(item, show))
	}

	return show, nil
}

// normalizeItem maps one feed entry onto an Episode, resolving all
// optional-field fallbacks against the show.
func (p *Parser) normalizeItem(item *gofeed.Item, show *model.Show) *model.Episode {
	episode := &model.Episode{
		Title:       item.Title,
		GUID:        item.GUID,
		Author:      cmp.Or(itemAuthor(item), show.Author),
		Description: item.Description,
		Link:        item.Link,
		ImageURL:    cmp.Or(itemImage(item), show.ImageURL),
	}

	if item.PublishedParsed != nil {
		episode.Published = *item.PublishedParsed
	} else if item.Published != "" {
		parsed, err := dateparse.ParseAny(item.Published)
		if err != nil {
			log.Debugf("unparseable publish date %q on %q", item.Published, item.Title)
		} else {
			episode.Published = parsed
		}
	}

	if item.ITunesExt != nil {
		episode.Duration = parseITunesDuration(item.ITunesExt.Duration)
	}

	// Scan all enclosures for the audio payload; feeds occasionally
	// list an image enclosure ahead of the audio one.
	for _, enclosure := range item.Enclosures {
		if enclosure == nil || enclosure.Type != audioMIMEType {
			continue
		}
		episode.AudioURL = enclosure.URL
		if enclosure.Length != "" {
			if length, err := strconv.ParseInt(enclosure.Length, 10, 64); err == nil {
				episode.AudioLength = length
			}
		}
		break
	}

	return episode
}

func showAuthor(feed *gofeed.Feed) string {
	if feed.ITunesExt != nil && feed.ITunesExt.Author != "" {
		return feed.ITunesExt.Author
	}
	if feed.Author != nil {
		return feed.Author.Name
	}
	return ""
}

func showImage(feed *gofeed.Feed) string {
	if feed.Image != nil && feed.Image.URL != "" {
		return feed.Image.URL
	}
	if feed.ITunesExt != nil {
		return feed.ITunesExt.Image
	}
	return ""
}

func itemAuthor(item *gofeed.Item) string {
	if item.ITunesExt != nil && item.ITunesExt.Author != "" {
		return item.ITunesExt.Author
	}
	if item.Author != nil {
		return item.Author.Name
	}
	return ""
}

func itemImage(item *gofeed.Item) string {
	if item.ITunesExt != nil && item.ITunesExt.Image != "" {
		return item.ITunesExt.Image
	}
	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}

// parseITunesDuration parses the itunes:duration forms "SS", "MM:SS"
// and "HH:MM:SS" into seconds. Anything else yields 0.
func parseITunesDuration(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return 0
	}

	seconds := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0
		}
		seconds = seconds*60 + n
	}

	return seconds
}
