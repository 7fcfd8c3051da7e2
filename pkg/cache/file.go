package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache is the CLI's cache. Each entry is a JSON file holding the data,
// its expiry and its key kind, sharded into subdirectories by the first two
// hex characters of the hashed key.
type FileCache struct {
	dir string
}

// NewFileCache opens a file cache in dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

type fileEntry struct {
	Kind      string    `json:"kind,omitempty"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// KeyKind returns the kind segment of a key built by a Keyer ("graph",
// "analysis" or "artifact"), ignoring any scope prefix.
func KeyKind(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// Get returns the entry for key. Expired and corrupt entries are removed
// and reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set stores data under key. A zero ttl never expires.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Kind: KeyKind(key), Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (c *FileCache) Close() error { return nil }

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Stat summarizes the entries of one kind.
type Stat struct {
	Entries int
	Bytes   int64
	Expired int
}

// Stats groups the stored entries by kind. Entries written without a kind
// are reported under "".
func (c *FileCache) Stats() (map[string]Stat, error) {
	now := time.Now()
	stats := make(map[string]Stat)
	err := c.walk(func(path string, size int64) {
		entry, err := readEntry(path)
		if err != nil {
			return
		}
		s := stats[entry.Kind]
		s.Entries++
		s.Bytes += size
		if entry.expired(now) {
			s.Expired++
		}
		stats[entry.Kind] = s
	})
	return stats, err
}

// Prune removes expired and unreadable entries and returns how many were
// removed.
func (c *FileCache) Prune() (int, error) {
	now := time.Now()
	count := 0
	err := c.walk(func(path string, _ int64) {
		entry, err := readEntry(path)
		if err == nil && !entry.expired(now) {
			return
		}
		if os.Remove(path) == nil {
			count++
		}
	})
	return count, err
}

// Clear removes every entry and returns how many were removed.
func (c *FileCache) Clear() (int, error) {
	count := 0
	err := c.walk(func(path string, _ int64) {
		if os.Remove(path) == nil {
			count++
		}
	})
	return count, err
}

// walk calls fn for every entry file, then removes shard directories left
// empty. A missing cache directory has no entries.
func (c *FileCache) walk(fn func(path string, size int64)) error {
	shards, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		sub := filepath.Join(c.dir, shard.Name())
		entries, err := os.ReadDir(sub)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			fn(filepath.Join(sub, e.Name()), info.Size())
		}
		_ = os.Remove(sub) // only succeeds when empty
	}
	return nil
}

func readEntry(path string) (fileEntry, error) {
	var entry fileEntry
	raw, err := os.ReadFile(path)
	if err != nil {
		return entry, err
	}
	err = json.Unmarshal(raw, &entry)
	return entry, err
}

func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
