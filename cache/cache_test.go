package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_Digest(t *testing.T) {
	a := Key{Registry: "AG/Musterdorf/12", Page: 3, Kind: KindOCR, Geometry: "lfd-nr 10,20,30,40"}
	b := a
	assert.Equal(t, a.Digest(), b.Digest())
	assert.Len(t, a.Digest(), 64)

	b.Geometry = "lfd-nr 10,20,30,41"
	assert.NotEqual(t, a.Digest(), b.Digest())

	// Field boundaries are part of the hash
	c := Key{Registry: "a", Geometry: "bc"}
	d := Key{Registry: "ab", Geometry: "c"}
	assert.NotEqual(t, c.Digest(), d.Digest())
}

func TestCache_GetPut(t *testing.T) {
	ctx := context.Background()
	c, err := New(t.TempDir())
	require.NoError(t, err)

	key := Key{Registry: "r", Page: 1, Kind: KindCrop, Geometry: "g"}
	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Put(ctx, key, []byte("png")))
	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)
}

func TestCache_GetOrCompute(t *testing.T) {
	ctx := context.Background()
	c, err := New(t.TempDir())
	require.NoError(t, err)

	key := Key{Registry: "r", Page: 2, Kind: KindOCR, Geometry: "g"}
	calls := 0
	compute := func(context.Context) ([]byte, error) {
		calls++
		return []byte("lines"), nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetOrCompute(ctx, key, compute)
		require.NoError(t, err)
		assert.Equal(t, []byte("lines"), got)
	}
	assert.Equal(t, 1, calls, "later calls must be served from disk")
}

func TestCache_GetOrComputeError(t *testing.T) {
	ctx := context.Background()
	c, err := New(t.TempDir())
	require.NoError(t, err)

	key := Key{Kind: KindOCR}
	boom := errors.New("tesseract crashed")
	_, err = c.GetOrCompute(ctx, key, func(context.Context) ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss, "failures are not cached")
}

func TestCache_Nil(t *testing.T) {
	var c *Cache
	ctx := context.Background()
	key := Key{Kind: KindCrop}

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, c.Put(ctx, key, []byte("x")))

	got, err := c.GetOrCompute(ctx, key, func(context.Context) ([]byte, error) { return []byte("x"), nil })
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}

func TestNew_EmptyDir(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
