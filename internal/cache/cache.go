package cache

import (
	"log"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const cleanupInterval = 10 * time.Minute

// Store is a TTL cache with optional file persistence across restarts.
// Values are stored as-is; callers that rely on persistence must register
// their concrete types with encoding/gob.
type Store struct {
	mem  *gocache.Cache
	path string
}

// New constructs a Store. When path is non-empty, previously persisted
// entries are loaded and Close writes the current contents back.
func New(path string, defaultTTL time.Duration) *Store {
	mem := gocache.New(defaultTTL, cleanupInterval)
	if path != "" {
		if err := mem.LoadFile(path); err != nil && !os.IsNotExist(err) {
			log.Printf("cache: load %s: %v", path, err)
		}
	}
	return &Store{mem: mem, path: path}
}

// Get returns the cached value for key if present and not expired.
func (s *Store) Get(key string) (any, bool) {
	return s.mem.Get(key)
}

// Set stores value under key for ttl. A zero ttl uses the default.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	s.mem.Set(key, value, ttl)
	s.persist()
}

// Delete removes key if present.
func (s *Store) Delete(key string) {
	s.mem.Delete(key)
	s.persist()
}

// Close persists the cache when a path was configured.
func (s *Store) Close() error {
	if s.path == "" {
		return nil
	}
	return s.mem.SaveFile(s.path)
}

func (s *Store) persist() {
	if s.path == "" {
		return
	}
	if err := s.mem.SaveFile(s.path); err != nil {
		log.Printf("cache: save %s: %v", s.path, err)
	}
}
