package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Validator is the conditional-fetch token pair remembered for a feed
// URL. Both fields are opaque strings taken verbatim from the origin's
// response headers and echoed back on the next request.
type Validator struct {
	// ETag is the entity tag from the last successful fetch.
	ETag string `json:"etag"`

	// LastModified is the Last-Modified header from the last
	// successful fetch.
	LastModified string `json:"modified"`
}

// IsZero reports whether the validator carries no tokens, i.e. the
// feed has never been fetched successfully.
func (v Validator) IsZero() bool {
	return v.ETag == "" && v.LastModified == ""
}

// Store persists the URL to validator mapping between runs.
//
// Implementations are not required to coordinate concurrent writers;
// the last writer wins.
type Store interface {
	// Load reads the full mapping. A store that has never been written
	// returns an empty map, not an error.
	Load() (map[string]Validator, error)

	// Save rewrites the full mapping.
	Save(map[string]Validator) error
}

// FileStore is a Store backed by a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at the given path. The file is not
// touched until the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the JSON file. A missing file yields an empty mapping; a
// present but unreadable or non-JSON file yields an error.
func (s *FileStore) Load() (map[string]Validator, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]Validator), nil
		}
		return nil, err
	}

	validators := make(map[string]Validator)
	if err := json.Unmarshal(data, &validators); err != nil {
		return nil, err
	}

	return validators, nil
}

// Save rewrites the JSON file with the full mapping, creating parent
// directories as needed.
func (s *FileStore) Save(validators map[string]Validator) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(validators, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// MemoryStore is an in-memory Store. It backs --no-cache runs and
// tests; contents are lost when the process exits.
type MemoryStore struct {
	validators map[string]Validator
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{validators: make(map[string]Validator)}
}

// Load returns a copy of the stored mapping.
func (s *MemoryStore) Load() (map[string]Validator, error) {
	out := make(map[string]Validator, len(s.validators))
	for url, v := range s.validators {
		out[url] = v
	}
	return out, nil
}

// Save replaces the stored mapping with a copy of the given one.
func (s *MemoryStore) Save(validators map[string]Validator) error {
	s.validators = make(map[string]Validator, len(validators))
	for url, v := range validators {
		s.validators[url] = v
	}
	return nil
}
