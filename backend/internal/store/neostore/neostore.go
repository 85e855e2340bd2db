// Package neostore is a Neo4j-backed store.Store. Each entity kind is a
// node label; one session is opened per operation. Find orders results
// by the createdAt property so list composition is stable.
package neostore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"musty/backend/internal/entity"
	"musty/backend/internal/store"
)

// Store wraps a Neo4j driver
type Store struct {
	driver   neo4j.DriverWithContext
	users    *nodeCollection[entity.User]
	posts    *nodeCollection[entity.Post]
	comments *nodeCollection[entity.Comment]
	topics   *nodeCollection[entity.Topic]
}

// New creates a Neo4j-backed store
func New(driver neo4j.DriverWithContext) *Store {
	return &Store{
		driver:   driver,
		users:    &nodeCollection[entity.User]{driver: driver, label: "User", id: userID, toProps: userProps, fromNode: userFromNode},
		posts:    &nodeCollection[entity.Post]{driver: driver, label: "Post", id: postID, toProps: postProps, fromNode: postFromNode},
		comments: &nodeCollection[entity.Comment]{driver: driver, label: "Comment", id: commentID, toProps: commentProps, fromNode: commentFromNode},
		topics:   &nodeCollection[entity.Topic]{driver: driver, label: "Topic", id: topicID, toProps: topicProps, fromNode: topicFromNode},
	}
}

// Close closes the underlying driver
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// Users implements store.Store
func (s *Store) Users() store.Collection[entity.User] { return s.users }

// Posts implements store.Store
func (s *Store) Posts() store.Collection[entity.Post] { return s.posts }

// Comments implements store.Store
func (s *Store) Comments() store.Collection[entity.Comment] { return s.comments }

// Topics implements store.Store
func (s *Store) Topics() store.Collection[entity.Topic] { return s.topics }

// nodeCollection maps one entity kind onto a node label
type nodeCollection[T any] struct {
	driver   neo4j.DriverWithContext
	label    string
	id       func(*T) *string
	toProps  func(*T) map[string]any
	fromNode func(neo4j.Node) *T
}

// Get returns the entity or nil when no node carries the id
func (c *nodeCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := fmt.Sprintf("MATCH (n:%s {id: $id}) RETURN n LIMIT 1", c.label)

	result, err := session.Run(ctx, query, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", c.label, err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to read %s record: %w", c.label, err)
		}
		return nil, nil
	}

	node, err := nodeValue(result.Record())
	if err != nil {
		return nil, err
	}
	return c.fromNode(node), nil
}

// Find returns every node whose properties equal the filter values,
// ordered by creation time.
func (c *nodeCollection[T]) Find(ctx context.Context, filter store.Filter) ([]*T, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	where, params, err := filterClause(filter)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("MATCH (n:%s)%s RETURN n ORDER BY n.createdAt", c.label, where)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", c.label, err)
	}

	matches := make([]*T, 0)
	for result.Next(ctx) {
		node, err := nodeValue(result.Record())
		if err != nil {
			return nil, err
		}
		matches = append(matches, c.fromNode(node))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s records: %w", c.label, err)
	}
	return matches, nil
}

// Create assigns a fresh id and creates the node
func (c *nodeCollection[T]) Create(ctx context.Context, e *T) (*T, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	stored := *e
	id := c.id(&stored)
	if *id == "" {
		*id = uuid.NewString()
	}
	props := c.toProps(&stored)
	props["createdAt"] = time.Now().UnixNano()

	query := fmt.Sprintf("CREATE (n:%s) SET n = $props RETURN n", c.label)

	result, err := session.Run(ctx, query, map[string]any{"props": props})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", c.label, err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to read created %s: %w", c.label, err)
		}
		return nil, fmt.Errorf("create %s returned no record", c.label)
	}

	node, err := nodeValue(result.Record())
	if err != nil {
		return nil, err
	}
	return c.fromNode(node), nil
}

// Update overwrites the properties of an existing node
func (c *nodeCollection[T]) Update(ctx context.Context, e *T) (*T, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	id := *c.id(e)
	query := fmt.Sprintf("MATCH (n:%s {id: $id}) SET n += $props RETURN n", c.label)

	result, err := session.Run(ctx, query, map[string]any{
		"id":    id,
		"props": c.toProps(e),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", c.label, err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to read updated %s: %w", c.label, err)
		}
		return nil, fmt.Errorf("cannot update %s %s: not stored", c.label, id)
	}

	node, err := nodeValue(result.Record())
	if err != nil {
		return nil, err
	}
	return c.fromNode(node), nil
}

// filterClause turns a filter into a WHERE clause with bind parameters.
// Keys are iterated in sorted order so identical filters produce the same
// query text.
func filterClause(filter store.Filter) (string, map[string]any, error) {
	if len(filter) == 0 {
		return "", map[string]any{}, nil
	}

	keys := make([]string, 0, len(filter))
	for key := range filter {
		if !isPropName(key) {
			return "", nil, fmt.Errorf("invalid filter field: %q", key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	params := make(map[string]any, len(keys))
	for _, key := range keys {
		clauses = append(clauses, fmt.Sprintf("n.%s = $%s", key, key))
		params[key] = filter[key]
	}
	return " WHERE " + strings.Join(clauses, " AND "), params, nil
}

// isPropName restricts filter keys to plain identifiers; filter values go
// through bind parameters, keys are interpolated into the query text.
func isPropName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
