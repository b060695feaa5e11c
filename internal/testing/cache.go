package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ProgramCache keeps recently loaded program binaries in memory so test
// suites that build many contexts read each file once.
type ProgramCache struct {
	mu sync.Mutex

	// Key: absolute path of the program file
	programs *lru.Cache[string, []byte]

	// Metrics
	hits   uint64
	misses uint64
}

// ProgramCacheConfig holds configuration for the cache
type ProgramCacheConfig struct {
	// MaxPrograms is the number of binaries to keep in memory
	MaxPrograms int
}

// CacheStats holds cache performance metrics
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	HitRate float64
	Len     int
}

// NewProgramCache creates a new program cache
func NewProgramCache(config ProgramCacheConfig) (*ProgramCache, error) {
	if config.MaxPrograms <= 0 {
		config.MaxPrograms = 32
	}
	programs, err := lru.New[string, []byte](config.MaxPrograms)
	if err != nil {
		return nil, err
	}
	return &ProgramCache{programs: programs}, nil
}

var (
	sharedCacheOnce sync.Once
	sharedCache     *ProgramCache
)

// SharedProgramCache returns the process-wide cache used by ContextBuilder.
func SharedProgramCache() *ProgramCache {
	sharedCacheOnce.Do(func() {
		// Only fails for a non-positive size.
		sharedCache, _ = NewProgramCache(ProgramCacheConfig{})
	})
	return sharedCache
}

// Load returns the contents of the program file at path. The returned slice
// is shared and must not be modified.
func (c *ProgramCache) Load(path string) ([]byte, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve program path %s: %w", path, err)
	}

	c.mu.Lock()
	if elf, found := c.programs.Get(key); found {
		c.hits++
		c.mu.Unlock()
		return elf, nil
	}
	c.misses++
	c.mu.Unlock()

	elf, err := os.ReadFile(key)
	if err != nil {
		return nil, fmt.Errorf("read program %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.programs.Add(key, elf)
	return elf, nil
}

// Len returns the number of cached programs.
func (c *ProgramCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.programs.Len()
}

// Purge removes all cached programs
func (c *ProgramCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.programs.Purge()
}

// Stats returns cache statistics
func (c *ProgramCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return CacheStats{
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
		Len:     c.programs.Len(),
	}
}
