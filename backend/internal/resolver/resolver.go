// Package resolver assembles denormalized view shapes from the
// normalized store. Every operation runs as one resolution pass: it
// creates a fresh loader, fans related-entity lookups out concurrently,
// and returns only once every lookup has settled.
package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"musty/backend/internal/entity"
	"musty/backend/internal/loader"
	"musty/backend/internal/store"
	"musty/backend/pkg/apperrors"
)

// Resolver owns shape composition over a store
type Resolver struct {
	store store.Store
}

// New creates a resolver
func New(st store.Store) *Resolver {
	return &Resolver{store: st}
}

// Users returns all users
func (r *Resolver) Users(ctx context.Context) ([]*entity.User, error) {
	ld := loader.New(r.store)
	return ld.Users(ctx, nil)
}

// Posts returns every post composed with author, comments and topic
func (r *Resolver) Posts(ctx context.Context) ([]*entity.PostView, error) {
	ld := loader.New(r.store)

	posts, err := ld.Posts(ctx, nil)
	if err != nil {
		return nil, err
	}
	return r.composePosts(ctx, ld, posts, true)
}

// Post returns one post composed with author, comments and topic
func (r *Resolver) Post(ctx context.Context, id string) (*entity.PostView, error) {
	ld := loader.New(r.store)

	post, err := ld.Post(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperrors.NotFound("post not found")
	}
	return r.composePost(ctx, ld, post, true)
}

// Profile returns a user and the posts they authored. The post views in
// this variant carry author and comments but no topic.
func (r *Resolver) Profile(ctx context.Context, id string) (*entity.ProfileView, error) {
	ld := loader.New(r.store)

	user, err := ld.User(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}

	posts, err := ld.Posts(ctx, store.Filter{"postedByID": id})
	if err != nil {
		return nil, err
	}
	views, err := r.composePosts(ctx, ld, posts, false)
	if err != nil {
		return nil, err
	}
	return &entity.ProfileView{User: user, Posts: views}, nil
}

// Topic returns a topic and the posts filed under it, each composed with
// author and comments.
func (r *Resolver) Topic(ctx context.Context, id string) (*entity.TopicView, error) {
	ld := loader.New(r.store)

	topic, err := ld.Topic(ctx, id)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, apperrors.NotFound("topic not found")
	}

	posts, err := ld.Posts(ctx, store.Filter{"topicID": id})
	if err != nil {
		return nil, err
	}
	views, err := r.composePosts(ctx, ld, posts, false)
	if err != nil {
		return nil, err
	}
	return &entity.TopicView{Topic: topic, Posts: views}, nil
}

// Topics returns all topics, each with its post list. The posts are
// matched on postedByID equal to the topic id — the join key the
// upstream service shipped with, kept for wire compatibility even though
// topicID looks like the intended key.
func (r *Resolver) Topics(ctx context.Context) ([]*entity.TopicView, error) {
	ld := loader.New(r.store)

	topics, err := ld.Topics(ctx, nil)
	if err != nil {
		return nil, err
	}

	views := make([]*entity.TopicView, len(topics))
	g, gctx := errgroup.WithContext(ctx)
	for i, topic := range topics {
		i, topic := i, topic
		g.Go(func() error {
			posts, err := ld.Posts(gctx, store.Filter{"postedByID": topic.ID})
			if err != nil {
				return err
			}
			postViews, err := r.composePosts(gctx, ld, posts, false)
			if err != nil {
				return err
			}
			views[i] = &entity.TopicView{Topic: topic, Posts: postViews}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

// ComposePost bundles an already-loaded post with its relations as part
// of the caller's resolution pass. Used by the mutation layer, which
// mirrors the single-post query shape when creating a post.
func (r *Resolver) ComposePost(ctx context.Context, post *entity.Post) (*entity.PostView, error) {
	return r.composePost(ctx, loader.New(r.store), post, true)
}

// composePost issues the related-entity loads for one post together and
// waits for all of them. A missing author or topic resolves to nil, not
// an error; only store failures propagate.
func (r *Resolver) composePost(ctx context.Context, ld *loader.Loader, post *entity.Post, withTopic bool) (*entity.PostView, error) {
	view := &entity.PostView{Post: post}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		postedBy, err := ld.User(gctx, post.PostedByID)
		view.PostedBy = postedBy
		return err
	})
	g.Go(func() error {
		comments, err := ld.Comments(gctx, store.Filter{"postID": post.ID})
		view.Comments = comments
		return err
	})
	if withTopic {
		g.Go(func() error {
			topic, err := ld.Topic(gctx, post.TopicID)
			view.Topic = topic
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

// composePosts composes a list of posts concurrently, preserving the
// order the store returned them in.
func (r *Resolver) composePosts(ctx context.Context, ld *loader.Loader, posts []*entity.Post, withTopic bool) ([]*entity.PostView, error) {
	views := make([]*entity.PostView, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	for i, post := range posts {
		i, post := i, post
		g.Go(func() error {
			view, err := r.composePost(gctx, ld, post, withTopic)
			if err != nil {
				return err
			}
			views[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}
