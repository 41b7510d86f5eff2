package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/grundbuch/cache"
)

type countingEngine struct {
	calls int
	err   error
}

func (e *countingEngine) Name() string { return "counting" }

func (e *countingEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	e.calls++
	if e.err != nil {
		return Result{}, e.err
	}
	return Result{InputID: in.ID, PlainText: "12", Lines: []Line{{Text: "12", Bounds: Region{Width: 5, Height: 5}}}}, nil
}

func TestCached_Recognize(t *testing.T) {
	c, err := cache.New(t.TempDir())
	require.NoError(t, err)

	inner := &countingEngine{}
	engine := NewCached(inner, c, "AG Musterstadt/Musterdorf/42")
	in := Input{ID: "lfd-nr@10,20,30,40", PageIndex: 2}

	for i := 0; i < 2; i++ {
		res, err := engine.Recognize(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "12", res.Lines[0].Text)
		assert.Equal(t, in.ID, res.InputID)
	}
	assert.Equal(t, 1, inner.calls)

	// A different geometry is a different unit of work
	in.ID = "lfd-nr@10,20,30,41"
	_, err = engine.Recognize(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, "counting+cache", engine.Name())
}

func TestCached_NilCachePassesThrough(t *testing.T) {
	inner := &countingEngine{}
	engine := NewCached(inner, nil, "r")
	for i := 0; i < 2; i++ {
		_, err := engine.Recognize(context.Background(), Input{ID: "x"})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, inner.calls)
}

func TestCached_Error(t *testing.T) {
	boom := errors.New("boom")
	engine := NewCached(&countingEngine{err: boom}, nil, "r")
	_, err := engine.Recognize(context.Background(), Input{})
	assert.ErrorIs(t, err, boom)
}
