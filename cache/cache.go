package cache

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// ErrMiss is returned by Get when no entry exists for a key
var ErrMiss = errors.New("cache miss")

// Kind names the type of a cached artefact
type Kind string

const (
	KindCrop     Kind = "crop"
	KindOCR      Kind = "ocr"
	KindPageText Kind = "page-ocr"
)

// Key addresses one cached artefact
type Key struct {
	Registry string
	Page     int
	Kind     Kind
	// Geometry describes the cropped region, e.g. a column id with its
	// rectangle in pixels. Any change in geometry yields a new entry.
	Geometry string
}

// Digest returns the hex-encoded BLAKE2b-256 hash of the key
func (k Key) Digest() string {
	h, _ := blake2b.New256(nil) // only fails for oversized keys
	for _, part := range []string{k.Registry, strconv.Itoa(k.Page), string(k.Kind), k.Geometry} {
		h.Write([]byte(strconv.Itoa(len(part))))
		h.Write([]byte{':'})
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Cache is a directory of content-addressed entries
type Cache struct {
	dir    string
	logger *slog.Logger
}

// Option configures a Cache
type Option func(*Cache)

// WithLogger sets the logger used for hit/miss tracing
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New opens a cache rooted at dir, creating the directory if needed
func New(dir string, opts ...Option) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	c := &Cache{
		dir:    dir,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dir returns the cache root
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) path(key Key) string {
	d := key.Digest()
	// Two-level fan-out keeps directories small on long registers.
	return filepath.Join(c.dir, string(key.Kind), d[:2], d)
}

// Get returns the stored entry or ErrMiss
func (c *Cache) Get(ctx context.Context, key Key) ([]byte, error) {
	if c == nil {
		return nil, ErrMiss
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return data, nil
}

// Put stores an entry. The file is written to a temporary name first and
// renamed into place, so readers never see a partial entry.
func (c *Cache) Put(ctx context.Context, key Key, data []byte) error {
	if c == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	target := c.path(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create cache entry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to commit cache entry: %w", err)
	}
	return nil
}

// GetOrCompute returns the cached entry for key, computing and storing it on a miss.
// A failed compute is not cached.
func (c *Cache) GetOrCompute(ctx context.Context, key Key, compute func(context.Context) ([]byte, error)) ([]byte, error) {
	data, err := c.Get(ctx, key)
	if err == nil {
		c.log().Debug("cache hit", "kind", key.Kind, "page", key.Page)
		return data, nil
	}
	if !errors.Is(err, ErrMiss) {
		return nil, err
	}

	data, err = compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Put(ctx, key, data); err != nil {
		// The computed value is still good; a later run recomputes it.
		c.log().Warn("failed to store cache entry", "kind", key.Kind, "page", key.Page, "err", err)
	}
	return data, nil
}

func (c *Cache) log() *slog.Logger {
	if c == nil || c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}
