package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"tycore/internal/diag"
	"tycore/internal/generic"
	"tycore/internal/hint"
)

// Increment when the DiskPayload format changes; stale payloads are treated
// as cache misses.
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 content hash, used to key cached propagation results
// to the exact manifest they were computed from.
type Digest [sha256.Size]byte

// HashBytes digests raw manifest content.
func HashBytes(data []byte) Digest {
	return sha256.Sum256(data)
}

// HashFile digests a manifest file on disk.
func HashFile(path string) (Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Digest{}, err
	}
	return HashBytes(data), nil
}

// DiskCache persists propagation snapshots under a cache directory.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedArgs is one class's propagated argument tuple, rendered to strings.
type CachedArgs struct {
	Qualified string
	Args      []string
}

// DiskPayload is the serialized form of one propagation snapshot.
type DiskPayload struct {
	Schema      uint16
	Universe    string
	CreatedUnix int64
	Classes     []CachedArgs
}

// OpenDiskCache initializes and returns a disk cache at the standard
// XDG location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes a disk cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "args", hexKey+".mp")
}

// Put serializes and atomically writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload from the disk cache. A missing file or a payload
// written by another schema version is a miss, not an error.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// Snapshot propagates type arguments for every generic class in the
// universe and packages the results for the disk cache. Classes without a
// generic ancestry are skipped.
func (e *Engine) Snapshot(universeName string) (*DiskPayload, error) {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Universe:    universeName,
		CreatedUnix: time.Now().Unix(),
	}
	for _, modName := range e.universe.ModuleNames() {
		if modName == hint.BuiltinsModuleName {
			continue
		}
		mod, _ := e.universe.LookupModule(modName)
		for _, attr := range mod.AttrNames() {
			h, _ := mod.Attr(attr)
			cls, ok := h.(*hint.Class)
			if !ok {
				continue
			}
			args, err := e.prop.Args(cls)
			if err != nil {
				var ge *generic.Error
				if errors.As(err, &ge) && (ge.Code == diag.GenericNotGeneric || ge.Code == diag.GenericNoArgs) {
					continue
				}
				return nil, err
			}
			rendered := make([]string, len(args))
			for i, a := range args {
				rendered[i] = a.String()
			}
			payload.Classes = append(payload.Classes, CachedArgs{
				Qualified: cls.Qualified(),
				Args:      rendered,
			})
		}
	}
	return payload, nil
}
