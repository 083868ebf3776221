package cache

import (
	log "github.com/sirupsen/logrus"
)

// Cache holds the feed validators for the current run.
//
// The mapping is loaded once at construction and written through to
// the Store on every Update, so a crash between episodes never loses a
// recorded validator. Lookups never touch the store.
type Cache struct {
	store      Store
	validators map[string]Validator
}

// New creates a Cache over the given store.
//
// A store that cannot be loaded (e.g. a damaged JSON file) degrades to
// an empty cache with a logged warning rather than blocking the run;
// the damaged file is rewritten on the next successful fetch.
func New(store Store) *Cache {
	validators, err := store.Load()
	if err != nil {
		log.WithError(err).Warn("feed cache unreadable, starting with an empty cache")
		validators = make(map[string]Validator)
	}

	return &Cache{
		store:      store,
		validators: validators,
	}
}

// Validator returns the stored validator for a feed URL. The zero
// Validator means the URL has no recorded state.
func (c *Cache) Validator(url string) Validator {
	return c.validators[url]
}

// Update records a new validator for a feed URL and immediately
// persists the full mapping.
func (c *Cache) Update(url string, v Validator) error {
	c.validators[url] = v
	return c.store.Save(c.validators)
}
