// Package store defines the persistence contract the resolver and
// service layers are written against. Implementations live in the
// memstore and neostore subpackages.
package store

import (
	"context"

	"musty/backend/internal/entity"
)

// Filter selects entities whose fields equal the given values. Keys are
// the wire-level field names: "email", "postedByID", "topicID", "postID".
type Filter map[string]string

// Collection is the uniform per-kind persistence contract.
//
// Get returns nil with no error when the id does not exist. Find returns
// an empty slice when nothing matches; implementations return entities in
// a stable order (creation order), which the resolver's list results
// preserve. Create assigns the id and returns the stored copy. Update
// persists changes to an existing entity. Each call is atomic for its
// single entity; there are no cross-call transactions.
type Collection[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	Find(ctx context.Context, filter Filter) ([]*T, error)
	Create(ctx context.Context, e *T) (*T, error)
	Update(ctx context.Context, e *T) (*T, error)
}

// Store bundles the four entity collections
type Store interface {
	Users() Collection[entity.User]
	Posts() Collection[entity.Post]
	Comments() Collection[entity.Comment]
	Topics() Collection[entity.Topic]
}
