package datastore

import (
	"context"
	"fmt"

	"github.com/insightmesh/insightmesh/core"
)

// LoaderFunc loads a dataset from a file path. The router injects an
// implementation backed by the registered loader agent so resolution can
// fall through to an on-demand load without the resolver knowing about
// agents at all.
type LoaderFunc func(ctx context.Context, filePath string) (*core.Dataset, error)

// Resolver decides which dataset a task should operate on. Strategies are
// tried in a fixed priority order and the first one yielding a non-empty
// dataset wins:
//
//  1. a dataset embedded inline in the parameters ("data")
//  2. a cache entry named by an explicit "data_key" parameter
//  3. the well-known default cache key ("loaded_data")
//  4. an on-demand load from a "file_path" parameter, cached under the
//     default key afterwards
//
// The ordering lets later stages run against ad-hoc data without re-running
// the load stage, while still defaulting sensibly in a strict linear
// pipeline. If no strategy yields data the resolution fails.
type Resolver struct {
	store core.DataStore
	load  LoaderFunc
}

// NewResolver builds a resolver over the given cache. load may be nil, in
// which case strategy 4 is unavailable.
func NewResolver(store core.DataStore, load LoaderFunc) *Resolver {
	return &Resolver{store: store, load: load}
}

// Resolve applies the priority order to the task parameters.
func (r *Resolver) Resolve(ctx context.Context, params map[string]any) (*core.Dataset, error) {
	// 1. Inline dataset embedded in the parameters.
	if raw, ok := params["data"]; ok {
		if ds, ok := core.AsDataset(raw); ok && !ds.Empty() {
			return ds, nil
		}
	}

	// 2. Explicit cache key.
	if key, ok := params["data_key"].(string); ok && key != "" {
		if raw, ok := r.store.Get(key); ok {
			if ds, ok := core.AsDataset(raw); ok && !ds.Empty() {
				return ds, nil
			}
		}
	}

	// 3. Default cache key.
	if raw, ok := r.store.Get(DefaultDataKey); ok {
		if ds, ok := core.AsDataset(raw); ok && !ds.Empty() {
			return ds, nil
		}
	}

	// 4. Load on demand from a file path.
	if path, ok := params["file_path"].(string); ok && path != "" && r.load != nil {
		ds, err := r.load(ctx, path)
		if err != nil {
			return nil, core.WrapError(core.KindExecution,
				fmt.Sprintf("loading %q", path), err)
		}
		if ds != nil && !ds.Empty() {
			r.store.Set(DefaultDataKey, ds)
			return ds, nil
		}
	}

	return nil, core.NewError(core.KindValidation, "no data available for task")
}
