package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRU[int](2, time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache must miss")
	}
	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("got %d ok=%v", v, ok)
	}

	// "a" was just used, so "b" is evicted when "c" arrives.
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry should be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry should survive eviction")
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[int](10, -time.Second) // everything already expired
	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry must miss")
	}
}

func TestLRUClear(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("size = %d after clear", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("cleared cache must miss")
	}
}
