package cache

import (
	"testing"
	"time"
)

func TestRequestKey_Deterministic(t *testing.T) {
	url := "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi?term=BRCA1"

	if RequestKey(url) != RequestKey(url) {
		t.Error("Expected identical keys for identical URLs")
	}
	if RequestKey(url) == RequestKey(url+"&retmax=10") {
		t.Error("Expected different keys for different URLs")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get("k")
	if !found || string(val) != "value" {
		t.Errorf("Expected cached value, got %q found=%v", val, found)
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("Expected value to be deleted")
	}
}

func TestMemoryCache_ZeroTTLUsesDefault(t *testing.T) {
	c := NewMemoryCache(30*time.Millisecond, time.Minute)

	// Zero TTL is what the layered promotion path passes
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get("k"); !found {
		t.Fatal("Expected a hit before the default TTL expires")
	}

	time.Sleep(60 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("Expected entry to expire after the default TTL")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	key := RequestKey("https://example.org/efetch")
	if err := c.Set(key, []byte(`<PubmedArticleSet/>`), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get(key)
	if !found || string(val) != `<PubmedArticleSet/>` {
		t.Errorf("Expected cached value, got %q found=%v", val, found)
	}
}

func TestDiskCache_Expiration(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, found := c.Get("k"); found {
		t.Error("Expected expired entry to be a miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh layered cache over the same dir has a cold memory layer
	c2 := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := c2.Get("k")
	if !found || string(val) != "v" {
		t.Fatalf("Expected disk hit, got %q found=%v", val, found)
	}

	// Now present in memory too
	if _, found := c2.memory.Get("k"); !found {
		t.Error("Expected disk hit to be promoted to memory")
	}
}
