// Package loader is the per-request batching layer between the resolver
// and the store. Within one resolution pass, duplicate lookups for the
// same key collapse into a single store round trip; results are cached
// for the lifetime of the pass only. A Loader must never outlive its
// request — mutations between requests have to be visible immediately.
package loader

import (
	"context"
	"net/url"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"musty/backend/internal/entity"
	"musty/backend/internal/store"
)

// Loader coalesces and caches store lookups for one resolution pass
type Loader struct {
	store store.Store

	sf    singleflight.Group
	mu    sync.Mutex
	cache map[string]any
}

// New creates a loader scoped to a single resolution pass
func New(st store.Store) *Loader {
	return &Loader{
		store: st,
		cache: make(map[string]any),
	}
}

// User loads one user by id; nil when absent
func (l *Loader) User(ctx context.Context, id string) (*entity.User, error) {
	return loadOne(ctx, l, "user/"+id, l.store.Users().Get, id)
}

// Post loads one post by id; nil when absent
func (l *Loader) Post(ctx context.Context, id string) (*entity.Post, error) {
	return loadOne(ctx, l, "post/"+id, l.store.Posts().Get, id)
}

// Topic loads one topic by id; nil when absent
func (l *Loader) Topic(ctx context.Context, id string) (*entity.Topic, error) {
	return loadOne(ctx, l, "topic/"+id, l.store.Topics().Get, id)
}

// Users loads all users matching the filter
func (l *Loader) Users(ctx context.Context, filter store.Filter) ([]*entity.User, error) {
	return loadMany(ctx, l, filterKey("user", filter), l.store.Users().Find, filter)
}

// Posts loads all posts matching the filter
func (l *Loader) Posts(ctx context.Context, filter store.Filter) ([]*entity.Post, error) {
	return loadMany(ctx, l, filterKey("post", filter), l.store.Posts().Find, filter)
}

// Comments loads all comments matching the filter
func (l *Loader) Comments(ctx context.Context, filter store.Filter) ([]*entity.Comment, error) {
	return loadMany(ctx, l, filterKey("comment", filter), l.store.Comments().Find, filter)
}

// Topics loads all topics matching the filter
func (l *Loader) Topics(ctx context.Context, filter store.Filter) ([]*entity.Topic, error) {
	return loadMany(ctx, l, filterKey("topic", filter), l.store.Topics().Find, filter)
}

func loadOne[T any](ctx context.Context, l *Loader, key string, get func(context.Context, string) (*T, error), id string) (*T, error) {
	v, err := l.load(key, func() (any, error) {
		return get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

func loadMany[T any](ctx context.Context, l *Loader, key string, find func(context.Context, store.Filter) ([]*T, error), filter store.Filter) ([]*T, error) {
	v, err := l.load(key, func() (any, error) {
		return find(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*T), nil
}

// load serves the key from the pass cache, or lets exactly one caller hit
// the store while concurrent callers for the same key wait on its result.
// Errors are not cached: a failed lookup may be retried within the pass.
func (l *Loader) load(key string, fetch func() (any, error)) (any, error) {
	l.mu.Lock()
	if v, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return v, nil
	}
	l.mu.Unlock()

	v, err, _ := l.sf.Do(key, func() (any, error) {
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[key] = v
		l.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// filterKey canonicalizes a filter into a cache key; map iteration order
// must not produce distinct keys for equal filters.
func filterKey(kind string, filter store.Filter) string {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	key := kind + "?"
	for i, k := range keys {
		if i > 0 {
			key += "&"
		}
		key += url.QueryEscape(k) + "=" + url.QueryEscape(filter[k])
	}
	return key
}
