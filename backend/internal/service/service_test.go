package service

import (
	"context"
	"testing"

	"musty/backend/internal/auth"
	"musty/backend/internal/entity"
	"musty/backend/internal/resolver"
	"musty/backend/internal/store/memstore"
	"musty/backend/pkg/apperrors"
)

func newService() (*Service, *memstore.Store) {
	st := memstore.New()
	return New(st, auth.PlainVerifier{}), st
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	user, err := svc.CreateUser(ctx, "A", "a@x.com", "p", "she/her")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == "" {
		t.Error("Expected generated id")
	}
	if user.Joined == "" {
		t.Error("Expected joined display string")
	}
	if user.Followers == nil || len(user.Followers) != 0 {
		t.Errorf("Expected empty followers, got %v", user.Followers)
	}
	if user.Following == nil || len(user.Following) != 0 {
		t.Errorf("Expected empty following, got %v", user.Following)
	}
}

func TestCreateUserRejectsMalformedEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	for _, email := range []string{"not-an-email", "missing-at.com", ""} {
		_, err := svc.CreateUser(ctx, "A", email, "p", "")
		if !apperrors.IsValidation(err) {
			t.Errorf("Email %q: expected validation failure, got %v", email, err)
		}
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	if _, err := svc.CreateUser(ctx, "A", "a@x.com", "p", ""); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// Same email, everything else different.
	_, err := svc.CreateUser(ctx, "B", "a@x.com", "other", "he/him")
	if !apperrors.IsConflict(err) {
		t.Fatalf("Expected conflict, got %v", err)
	}
}

func TestCreatePostReturnsComposedShape(t *testing.T) {
	ctx := context.Background()
	svc, st := newService()

	user, err := svc.CreateUser(ctx, "A", "a@x.com", "p", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	topic, err := st.Topics().Create(ctx, &entity.Topic{Title: "go"})
	if err != nil {
		t.Fatalf("Create topic failed: %v", err)
	}

	view, err := svc.CreatePost(ctx, "hi", user.ID, topic.ID)
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if view.Post.Caption != "hi" || view.Post.DatePosted == "" {
		t.Errorf("Wrong post: %+v", view.Post)
	}
	if view.PostedBy == nil || view.PostedBy.ID != user.ID {
		t.Errorf("Wrong author: %+v", view.PostedBy)
	}
	if len(view.Comments) != 0 {
		t.Errorf("Expected no comments, got %+v", view.Comments)
	}
	if view.Topic == nil || view.Topic.ID != topic.ID {
		t.Errorf("Wrong topic: %+v", view.Topic)
	}
}

func TestCreatePostSkipsExistenceChecks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	view, err := svc.CreatePost(ctx, "orphan", "no-such-user", "no-such-topic")
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if view.PostedBy != nil || view.Topic != nil {
		t.Errorf("Dangling references should resolve to nil: %+v", view)
	}
}

func TestCreateCommentSkipsExistenceChecks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	comment, err := svc.CreateComment(ctx, "hello", "no-such-user", "no-such-post")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if comment.ID == "" {
		t.Error("Expected generated id")
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	created, err := svc.CreateUser(ctx, "A", "a@x.com", "p", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	user, err := svc.Login(ctx, "a@x.com", "p")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("Expected user %s, got %s", created.ID, user.ID)
	}

	if _, err := svc.Login(ctx, "bad-email", "p"); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation failure, got %v", err)
	}
	if _, err := svc.Login(ctx, "b@x.com", "p"); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not-found, got %v", err)
	}
	if _, err := svc.Login(ctx, "a@x.com", "wrong"); !apperrors.IsAuth(err) {
		t.Errorf("Expected auth failure, got %v", err)
	}
}

func TestFollowAppendsToTargetOnly(t *testing.T) {
	ctx := context.Background()
	svc, st := newService()

	target, err := svc.CreateUser(ctx, "A", "a@x.com", "p", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	follower, err := svc.CreateUser(ctx, "B", "b@x.com", "p", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := svc.Follow(ctx, target.ID, follower.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	gotTarget, _ := st.Users().Get(ctx, target.ID)
	if len(gotTarget.Followers) != 1 || gotTarget.Followers[0] != follower.ID {
		t.Errorf("Expected followers [%s], got %v", follower.ID, gotTarget.Followers)
	}

	// The follower's following list is not written by this operation.
	gotFollower, _ := st.Users().Get(ctx, follower.ID)
	if len(gotFollower.Following) != 0 {
		t.Errorf("Expected untouched following list, got %v", gotFollower.Following)
	}
}

func TestFollowIsNotIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, st := newService()

	target, _ := svc.CreateUser(ctx, "A", "a@x.com", "p", "")
	follower, _ := svc.CreateUser(ctx, "B", "b@x.com", "p", "")

	if err := svc.Follow(ctx, target.ID, follower.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if err := svc.Follow(ctx, target.ID, follower.ID); err != nil {
		t.Fatalf("Second follow failed: %v", err)
	}

	got, _ := st.Users().Get(ctx, target.ID)
	if len(got.Followers) != 2 {
		t.Fatalf("Expected duplicate follower entries, got %v", got.Followers)
	}
}

// End-to-end: everything created through mutations must come back intact
// through the single-post query.
func TestCreatedEntitiesComposeThroughPostQuery(t *testing.T) {
	ctx := context.Background()
	svc, st := newService()

	user, err := svc.CreateUser(ctx, "A", "a@x.com", "p", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	topic, err := st.Topics().Create(ctx, &entity.Topic{Title: "T"})
	if err != nil {
		t.Fatalf("Create topic failed: %v", err)
	}
	created, err := svc.CreatePost(ctx, "hi", user.ID, topic.ID)
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	view, err := resolver.New(st).Post(ctx, created.Post.ID)
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if view.Post.ID != created.Post.ID || view.Post.Caption != "hi" {
		t.Errorf("Wrong post: %+v", view.Post)
	}
	if view.PostedBy == nil || view.PostedBy.Email != "a@x.com" {
		t.Errorf("Wrong author: %+v", view.PostedBy)
	}
	if len(view.Comments) != 0 {
		t.Errorf("Expected no comments, got %+v", view.Comments)
	}
	if view.Topic == nil || view.Topic.ID != topic.ID {
		t.Errorf("Wrong topic: %+v", view.Topic)
	}
}

func TestFollowUnknownUsersIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	user, _ := svc.CreateUser(ctx, "A", "a@x.com", "p", "")

	if err := svc.Follow(ctx, "ghost", user.ID); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not-found for missing target, got %v", err)
	}
	if err := svc.Follow(ctx, user.ID, "ghost"); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not-found for missing follower, got %v", err)
	}
}
