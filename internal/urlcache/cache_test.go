package urlcache

import (
	"testing"
	"time"
)

func TestLookupMiss(t *testing.T) {
	c := New(t.TempDir(), time.Minute)
	if entry := c.Lookup("https://example.com/a.md"); entry.Hit {
		t.Error("expected miss for empty cache")
	}
}

func TestStoreThenLookup(t *testing.T) {
	c := New(t.TempDir(), time.Minute)
	url := "https://example.com/a.md"

	if err := c.Store(url, "# body", `"etag-1"`, "Wed, 01 Jan 2025 00:00:00 GMT"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	entry := c.Lookup(url)
	if !entry.Hit {
		t.Fatal("expected hit after store")
	}
	if entry.Expired {
		t.Error("fresh entry should not be expired")
	}
	if entry.Content != "# body" {
		t.Errorf("Content = %q", entry.Content)
	}
	if entry.ETag != `"etag-1"` {
		t.Errorf("ETag = %q", entry.ETag)
	}
	if entry.LastModified != "Wed, 01 Jan 2025 00:00:00 GMT" {
		t.Errorf("LastModified = %q", entry.LastModified)
	}
}

func TestExpiryAndTouch(t *testing.T) {
	c := New(t.TempDir(), time.Minute)
	url := "https://example.com/a.md"

	current := time.Now()
	c.now = func() time.Time { return current }

	if err := c.Store(url, "body", "", ""); err != nil {
		t.Fatal(err)
	}

	current = current.Add(2 * time.Minute)
	if entry := c.Lookup(url); !entry.Expired {
		t.Error("entry past TTL should report Expired")
	}

	if err := c.Touch(url); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if entry := c.Lookup(url); entry.Expired {
		t.Error("touched entry should be fresh again")
	}
}

func TestDistinctURLsDoNotCollide(t *testing.T) {
	c := New(t.TempDir(), time.Minute)
	if err := c.Store("https://example.com/a.md", "A", "", ""); err != nil {
		t.Fatal(err)
	}
	if err := c.Store("https://example.com/b.md", "B", "", ""); err != nil {
		t.Fatal(err)
	}

	if got := c.Lookup("https://example.com/a.md").Content; got != "A" {
		t.Errorf("a.md content = %q", got)
	}
	if got := c.Lookup("https://example.com/b.md").Content; got != "B" {
		t.Errorf("b.md content = %q", got)
	}
}
