// Package service validates and applies mutations. Every failure is
// terminal for its operation and surfaces as a typed apperrors.Error;
// nothing here retries or recovers.
package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"musty/backend/internal/auth"
	"musty/backend/internal/entity"
	"musty/backend/internal/resolver"
	"musty/backend/internal/store"
	"musty/backend/pkg/apperrors"
)

// Display layouts for the generated date strings.
const (
	joinedLayout     = "Jan 2006"
	datePostedLayout = "Jan Mon 2006"
)

var validate = validator.New()

// Service applies entity creation and linking operations
type Service struct {
	store    store.Store
	resolver *resolver.Resolver
	verifier auth.Verifier
	now      func() time.Time
}

// New creates a mutation service
func New(st store.Store, verifier auth.Verifier) *Service {
	return &Service{
		store:    st,
		resolver: resolver.New(st),
		verifier: verifier,
		now:      time.Now,
	}
}

// CreateUser registers a user. The email must be well-formed and not
// already registered; followers and following start empty.
func (s *Service) CreateUser(ctx context.Context, name, email, password, pronoun string) (*entity.User, error) {
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, apperrors.Validation("invalid email")
	}

	existing, err := s.store.Users().Find(ctx, store.Filter{"email": email})
	if err != nil {
		return nil, apperrors.Store("failed to look up email", err)
	}
	if len(existing) > 0 {
		return nil, apperrors.Conflict("user already exists")
	}

	user := &entity.User{
		Name:      name,
		Email:     email,
		Password:  password,
		Pronoun:   pronoun,
		Joined:    s.now().Format(joinedLayout),
		Followers: []string{},
		Following: []string{},
	}
	created, err := s.store.Users().Create(ctx, user)
	if err != nil {
		return nil, apperrors.Store("failed to create user", err)
	}
	return created, nil
}

// CreatePost stores a post and returns it composed the way the
// single-post query would. PostedByID and TopicID are not checked for
// existence; a dangling reference resolves to nil on read.
func (s *Service) CreatePost(ctx context.Context, caption, postedByID, topicID string) (*entity.PostView, error) {
	post := &entity.Post{
		Caption:    caption,
		PostedByID: postedByID,
		TopicID:    topicID,
		DatePosted: s.now().Format(datePostedLayout),
	}
	created, err := s.store.Posts().Create(ctx, post)
	if err != nil {
		return nil, apperrors.Store("failed to create post", err)
	}
	return s.resolver.ComposePost(ctx, created)
}

// CreateComment stores a comment. Neither the user nor the post is
// checked for existence.
func (s *Service) CreateComment(ctx context.Context, comment, commentedByID, postID string) (*entity.Comment, error) {
	created, err := s.store.Comments().Create(ctx, &entity.Comment{
		Comment:       comment,
		CommentedByID: commentedByID,
		PostID:        postID,
	})
	if err != nil {
		return nil, apperrors.Store("failed to create comment", err)
	}
	return created, nil
}

// Login returns the user whose email and credential both match
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, error) {
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, apperrors.Validation("invalid email")
	}

	users, err := s.store.Users().Find(ctx, store.Filter{"email": email})
	if err != nil {
		return nil, apperrors.Store("failed to look up email", err)
	}
	if len(users) == 0 {
		return nil, apperrors.NotFound("user not found")
	}
	user := users[0]

	ok, err := s.verifier.Matches(user.Password, password)
	if err != nil {
		return nil, apperrors.Store("failed to verify credential", err)
	}
	if !ok {
		return nil, apperrors.Auth("password is incorrect")
	}
	return user, nil
}

// Follow appends followerID to the target user's followers list. Only
// the target's followers list is written; the follower's following list
// is left alone. Repeat calls append again — the edge list is not
// deduplicated.
func (s *Service) Follow(ctx context.Context, id, followerID string) error {
	user, err := s.store.Users().Get(ctx, id)
	if err != nil {
		return apperrors.Store("failed to load user", err)
	}
	follower, err := s.store.Users().Get(ctx, followerID)
	if err != nil {
		return apperrors.Store("failed to load follower", err)
	}
	if user == nil || follower == nil {
		return apperrors.NotFound("user not found")
	}

	user.Followers = append(user.Followers, follower.ID)
	if _, err := s.store.Users().Update(ctx, user); err != nil {
		return apperrors.Store("failed to save follow", err)
	}
	return nil
}
