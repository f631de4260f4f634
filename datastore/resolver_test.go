package datastore

import (
	"context"
	"errors"
	"testing"

	"github.com/insightmesh/insightmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(n int) []core.Row {
	out := make([]core.Row, n)
	for i := range out {
		out[i] = core.Row{"v": i}
	}
	return out
}

func TestResolver_InlineDataWins(t *testing.T) {
	store := New()
	store.Set("named", core.NewDataset(rows(2)))
	store.Set(DefaultDataKey, core.NewDataset(rows(3)))
	loaderCalled := false
	r := NewResolver(store, func(context.Context, string) (*core.Dataset, error) {
		loaderCalled = true
		return core.NewDataset(rows(4)), nil
	})

	ds, err := r.Resolve(context.Background(), map[string]any{
		"data":      rows(1),
		"data_key":  "named",
		"file_path": "x.csv",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len(), "inline data must win over every other source")
	assert.False(t, loaderCalled)
}

func TestResolver_ExplicitKeyBeatsDefault(t *testing.T) {
	store := New()
	store.Set("named", core.NewDataset(rows(2)))
	store.Set(DefaultDataKey, core.NewDataset(rows(3)))
	r := NewResolver(store, nil)

	ds, err := r.Resolve(context.Background(), map[string]any{"data_key": "named"})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestResolver_DefaultKeyBeatsLoad(t *testing.T) {
	store := New()
	store.Set(DefaultDataKey, core.NewDataset(rows(3)))
	loaderCalled := false
	r := NewResolver(store, func(context.Context, string) (*core.Dataset, error) {
		loaderCalled = true
		return core.NewDataset(rows(4)), nil
	})

	ds, err := r.Resolve(context.Background(), map[string]any{"file_path": "x.csv"})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.False(t, loaderCalled)
}

func TestResolver_LoadFallbackCachesResult(t *testing.T) {
	store := New()
	r := NewResolver(store, func(_ context.Context, path string) (*core.Dataset, error) {
		assert.Equal(t, "x.csv", path)
		return core.NewDataset(rows(4)), nil
	})

	ds, err := r.Resolve(context.Background(), map[string]any{"file_path": "x.csv"})
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())

	cached, ok := store.Get(DefaultDataKey)
	require.True(t, ok, "loaded dataset must be cached under the default key")
	cds, ok := core.AsDataset(cached)
	require.True(t, ok)
	assert.Equal(t, 4, cds.Len())
}

func TestResolver_EmptyDatasetFallsThrough(t *testing.T) {
	store := New()
	store.Set("named", core.NewDataset(nil)) // empty: must not satisfy
	store.Set(DefaultDataKey, core.NewDataset(rows(2)))
	r := NewResolver(store, nil)

	ds, err := r.Resolve(context.Background(), map[string]any{"data_key": "named"})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len(), "empty explicit entry must fall through to default")
}

func TestResolver_NoDataAvailable(t *testing.T) {
	r := NewResolver(New(), nil)
	_, err := r.Resolve(context.Background(), map[string]any{})
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindValidation))
	assert.Contains(t, err.Error(), "no data available")
}

func TestResolver_LoadFailure(t *testing.T) {
	r := NewResolver(New(), func(context.Context, string) (*core.Dataset, error) {
		return nil, errors.New("parse error")
	})
	_, err := r.Resolve(context.Background(), map[string]any{"file_path": "bad.csv"})
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindExecution))
}
