package ocr

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tsawler/grundbuch/cache"
)

// Cached wraps an engine with the on-disk cache. Results are keyed by the
// registry, the page index and the input ID, which callers set to a
// description of the cropped geometry.
type Cached struct {
	engine   Engine
	cache    *cache.Cache
	registry string
}

// NewCached returns engine wrapped with c. A nil cache disables caching.
func NewCached(engine Engine, c *cache.Cache, registry string) *Cached {
	return &Cached{engine: engine, cache: c, registry: registry}
}

// Name implements Engine
func (c *Cached) Name() string { return c.engine.Name() + "+cache" }

// Recognize implements Engine
func (c *Cached) Recognize(ctx context.Context, in Input) (Result, error) {
	key := cache.Key{Registry: c.registry, Page: in.PageIndex, Kind: cache.KindOCR, Geometry: in.ID}
	data, err := c.cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]byte, error) {
		res, err := c.engine.Recognize(ctx, in)
		if err != nil {
			return nil, err
		}
		return json.Marshal(res)
	})
	if err != nil {
		return Result{}, err
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return Result{}, fmt.Errorf("corrupt OCR cache entry for page %d: %w", in.PageIndex, err)
	}
	res.InputID = in.ID
	return res, nil
}
