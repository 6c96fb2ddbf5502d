package cache

import (
	"testing"
	"time"
)

func TestRunCache_EntriesLiveForTheRun(t *testing.T) {
	c := NewRun()

	key := Key("frames/f0.jpg")
	if err := c.Set(key, []byte("settings menu"), 0); err != nil {
		t.Fatal(err)
	}

	got, ok := c.Get(key)
	if !ok || string(got) != "settings menu" {
		t.Fatalf("Get = %q, %v", got, ok)
	}

	// No TTL expiry within a run: a zero-TTL entry must survive.
	time.Sleep(10 * time.Millisecond)
	if _, ok := c.Get(key); !ok {
		t.Error("run-scoped entry expired")
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("entry survived Clear")
	}
}

func TestMemory_SetZeroTTLUsesDefault(t *testing.T) {
	c := NewMemory(5*time.Millisecond, 0)

	key := Key("frames/f1.jpg")
	if err := c.Set(key, []byte("submit"), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(key); !ok {
		t.Fatal("entry missing right after Set")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Error("zero-TTL entry should have taken the cache default and expired")
	}
}

func TestKey_DistinctPerPath(t *testing.T) {
	a, b := Key("frames/f0.jpg"), Key("frames/f1.jpg")
	if a == b {
		t.Error("distinct paths produced the same key")
	}
	if a != Key("frames/f0.jpg") {
		t.Error("key is not stable for the same path")
	}
}
