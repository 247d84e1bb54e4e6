// Package urlcache is a disk cache for remote imports. Each entry stores the
// fetched body next to a JSON sidecar carrying the validators (ETag,
// Last-Modified) needed for conditional refetches. The layout is private to
// this package; consumers only see hit/expired lookups.
package urlcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Entry is the result of a cache lookup.
type Entry struct {
	Hit          bool
	Expired      bool
	Content      string
	ETag         string
	LastModified string
}

type metadata struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// Cache stores fetched URL bodies on disk with a fixed TTL.
type Cache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// New creates a cache rooted at dir. Entries older than ttl report Expired.
func New(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl, now: time.Now}
}

// DefaultDir returns the conventional cache location under the user cache dir.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "mdweave", "urls"), nil
}

// Lookup returns the cached entry for url. A miss is reported as !Hit; an
// entry past its TTL is returned with Expired set so the caller can attempt
// a conditional refetch with the stored validators.
func (c *Cache) Lookup(url string) Entry {
	metaBytes, err := os.ReadFile(c.metaPath(url))
	if err != nil {
		return Entry{}
	}
	var meta metadata
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return Entry{}
	}
	body, err := os.ReadFile(c.bodyPath(url))
	if err != nil {
		return Entry{}
	}

	return Entry{
		Hit:          true,
		Expired:      c.now().After(meta.FetchedAt.Add(c.ttl)),
		Content:      string(body),
		ETag:         meta.ETag,
		LastModified: meta.LastModified,
	}
}

// Store writes a fetched body and its validators.
func (c *Cache) Store(url, content, etag, lastModified string) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	meta := metadata{
		URL:          url,
		ETag:         etag,
		LastModified: lastModified,
		FetchedAt:    c.now(),
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.bodyPath(url), []byte(content), 0o644); err != nil {
		return err
	}
	return os.WriteFile(c.metaPath(url), metaBytes, 0o644)
}

// Touch resets an entry's age after a 304 Not Modified revalidation.
func (c *Cache) Touch(url string) error {
	metaBytes, err := os.ReadFile(c.metaPath(url))
	if err != nil {
		return err
	}
	var meta metadata
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return err
	}
	meta.FetchedAt = c.now()
	updated, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(c.metaPath(url), updated, 0o644)
}

func (c *Cache) key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:16])
}

func (c *Cache) metaPath(url string) string {
	return filepath.Join(c.dir, c.key(url)+".json")
}

func (c *Cache) bodyPath(url string) string {
	return filepath.Join(c.dir, c.key(url)+".body")
}
