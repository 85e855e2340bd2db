// Package memstore is an in-memory store.Store. It is the default
// backend and the substrate the unit tests run against. Find returns
// entities in creation order, so composed list results are stable.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"musty/backend/internal/entity"
	"musty/backend/internal/store"
)

// Store keeps all four collections behind a single mutex
type Store struct {
	users    *collection[entity.User]
	posts    *collection[entity.Post]
	comments *collection[entity.Comment]
	topics   *collection[entity.Topic]
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		users: newCollection[entity.User]("user",
			func(u *entity.User) *string { return &u.ID },
			func(u *entity.User) map[string]string {
				return map[string]string{"id": u.ID, "email": u.Email, "name": u.Name}
			},
			cloneUser),
		posts: newCollection[entity.Post]("post",
			func(p *entity.Post) *string { return &p.ID },
			func(p *entity.Post) map[string]string {
				return map[string]string{"id": p.ID, "postedByID": p.PostedByID, "topicID": p.TopicID}
			},
			clonePost),
		comments: newCollection[entity.Comment]("comment",
			func(c *entity.Comment) *string { return &c.ID },
			func(c *entity.Comment) map[string]string {
				return map[string]string{"id": c.ID, "commentedByID": c.CommentedByID, "postID": c.PostID}
			},
			cloneComment),
		topics: newCollection[entity.Topic]("topic",
			func(t *entity.Topic) *string { return &t.ID },
			func(t *entity.Topic) map[string]string {
				return map[string]string{"id": t.ID, "title": t.Title}
			},
			cloneTopic),
	}
}

// Users implements store.Store
func (s *Store) Users() store.Collection[entity.User] { return s.users }

// Posts implements store.Store
func (s *Store) Posts() store.Collection[entity.Post] { return s.posts }

// Comments implements store.Store
func (s *Store) Comments() store.Collection[entity.Comment] { return s.comments }

// Topics implements store.Store
func (s *Store) Topics() store.Collection[entity.Topic] { return s.topics }

// collection holds one entity kind. Items are handed out as clones so a
// caller mutating a read copy cannot change stored state before Update.
type collection[T any] struct {
	mu     sync.RWMutex
	kind   string
	items  map[string]*T
	order  []string
	id     func(*T) *string
	fields func(*T) map[string]string
	clone  func(*T) *T
}

func newCollection[T any](kind string, id func(*T) *string, fields func(*T) map[string]string, clone func(*T) *T) *collection[T] {
	return &collection[T]{
		kind:   kind,
		items:  make(map[string]*T),
		id:     id,
		fields: fields,
		clone:  clone,
	}
}

// Get returns the entity or nil when the id is unknown
func (c *collection[T]) Get(_ context.Context, id string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	return c.clone(e), nil
}

// Find returns all entities matching every filter entry, in creation order
func (c *collection[T]) Find(_ context.Context, filter store.Filter) ([]*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matches := make([]*T, 0)
	for _, id := range c.order {
		e := c.items[id]
		if c.matches(e, filter) {
			matches = append(matches, c.clone(e))
		}
	}
	return matches, nil
}

// Create assigns a fresh id and stores the entity
func (c *collection[T]) Create(_ context.Context, e *T) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := c.clone(e)
	id := c.id(stored)
	if *id == "" {
		*id = uuid.NewString()
	}
	c.items[*id] = stored
	c.order = append(c.order, *id)
	return c.clone(stored), nil
}

// Update replaces an existing entity
func (c *collection[T]) Update(_ context.Context, e *T) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := *c.id(e)
	if _, ok := c.items[id]; !ok {
		return nil, fmt.Errorf("cannot update %s %s: not stored", c.kind, id)
	}
	c.items[id] = c.clone(e)
	return c.clone(e), nil
}

func (c *collection[T]) matches(e *T, filter store.Filter) bool {
	if len(filter) == 0 {
		return true
	}
	fields := c.fields(e)
	for key, want := range filter {
		if fields[key] != want {
			return false
		}
	}
	return true
}

func cloneUser(u *entity.User) *entity.User {
	out := *u
	// Non-nil copies so an empty list round-trips as [] rather than null.
	out.Followers = append(make([]string, 0, len(u.Followers)), u.Followers...)
	out.Following = append(make([]string, 0, len(u.Following)), u.Following...)
	return &out
}

func clonePost(p *entity.Post) *entity.Post {
	out := *p
	return &out
}

func cloneComment(c *entity.Comment) *entity.Comment {
	out := *c
	return &out
}

func cloneTopic(t *entity.Topic) *entity.Topic {
	out := *t
	return &out
}
