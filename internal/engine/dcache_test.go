package engine

import (
	"testing"
)

func TestSnapshotCollectsGenericClasses(t *testing.T) {
	e := New(buildDemo(t))

	payload, err := e.Snapshot("demo")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if payload.Universe != "demo" || payload.Schema != diskCacheSchemaVersion {
		t.Fatalf("payload header = %+v", payload)
	}
	if len(payload.Classes) != 2 {
		t.Fatalf("classes = %+v, want Base and Child", payload.Classes)
	}
	// Module attrs are walked in sorted order.
	if payload.Classes[0].Qualified != "m.Base" || payload.Classes[0].Args[0] != "T" {
		t.Fatalf("Base snapshot = %+v", payload.Classes[0])
	}
	if payload.Classes[1].Qualified != "m.Child" || payload.Classes[1].Args[0] != "int" {
		t.Fatalf("Child snapshot = %+v", payload.Classes[1])
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	c, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := HashBytes([]byte(demoManifest))

	var miss DiskPayload
	if ok, err := c.Get(key, &miss); err != nil || ok {
		t.Fatalf("Get on empty cache: ok=%v err=%v", ok, err)
	}

	e := New(buildDemo(t))
	payload, err := e.Snapshot("demo")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if err := c.Put(key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got DiskPayload
	ok, err := c.Get(key, &got)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Universe != "demo" || len(got.Classes) != len(payload.Classes) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestDiskCacheSchemaMismatchIsMiss(t *testing.T) {
	c, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := HashBytes([]byte("x"))
	stale := &DiskPayload{Schema: diskCacheSchemaVersion + 1, Universe: "old"}
	if err := c.Put(key, stale); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var got DiskPayload
	ok, err := c.Get(key, &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("stale schema payload treated as a hit")
	}
}

func TestNilDiskCacheIsInert(t *testing.T) {
	var c *DiskCache
	if err := c.Put(Digest{}, &DiskPayload{}); err != nil {
		t.Fatalf("Put on nil cache: %v", err)
	}
	if ok, err := c.Get(Digest{}, &DiskPayload{}); err != nil || ok {
		t.Fatalf("Get on nil cache: ok=%v err=%v", ok, err)
	}
	if c.Dir() != "" {
		t.Fatalf("Dir on nil cache = %q", c.Dir())
	}
}
