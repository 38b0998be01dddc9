package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/matsen/paperview/internal/paper"
)

// Cache memoizes cleaned tables for the life of the process.
// Entries are keyed by absolute path, size and modification time, so a file
// that changes on disk is read again.
type Cache struct {
	mu     sync.Mutex
	tables *gocache.Cache
	logger *zap.Logger
}

// NewCache creates an empty table cache. A nil logger discards output.
func NewCache(logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		tables: gocache.New(gocache.NoExpiration, 0),
		logger: logger,
	}
}

// Load returns the cached table for path, reading the file on first use.
func (c *Cache) Load(path string) (*paper.Table, error) {
	key, err := cacheKey(path)
	if err != nil {
		return nil, err
	}

	if v, ok := c.tables.Get(key); ok {
		return v.(*paper.Table), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have filled the entry while we waited.
	if v, ok := c.tables.Get(key); ok {
		return v.(*paper.Table), nil
	}

	table, stats, err := LoadWithStats(path)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("loaded data file",
		zap.String("path", path),
		zap.Int("rows_read", stats.RowsRead),
		zap.Int("kept", stats.Kept),
		zap.Int("missing_title", stats.MissingTitle),
		zap.Int("missing_date", stats.MissingDate),
		zap.Int("bad_date", stats.BadDate))

	c.tables.Set(key, table, gocache.NoExpiration)
	return table, nil
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	return c.tables.ItemCount()
}

// Flush drops every cached table.
func (c *Cache) Flush() {
	c.tables.Flush()
}

func cacheKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("opening data file: %w", err)
	}
	return fmt.Sprintf("paperview:v1:%s:%d:%d", abs, info.Size(), info.ModTime().UnixNano()), nil
}
