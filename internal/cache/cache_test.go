package cache_test

import (
	"testing"
	"time"

	"github.com/sriganeshautocars/ganesh-cars-backend/internal/cache"
)

func TestSetGet(t *testing.T) {
	c := cache.New(time.Minute)

	c.Set("k", "v")

	got, ok := c.Get("k")

	if !ok || got != "v" {
		t.Fatalf("Get = (%v, %v), want (v, true)", got, ok)
	}
}

func TestGetMissing(t *testing.T) {
	c := cache.New(time.Minute)

	if _, ok := c.Get("absent"); ok {
		t.Fatal("expected miss for absent key")
	}
}

func TestExpiry(t *testing.T) {
	c := cache.New(10 * time.Millisecond)

	c.Set("k", "v")

	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestClear(t *testing.T) {
	c := cache.New(time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected Clear to drop all entries")
	}
}
