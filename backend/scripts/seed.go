// Seeds a Neo4j store with demo users, topics, posts and comments, all
// written through the mutation service so the seeded data matches what
// the API itself would produce.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"musty/backend/internal/auth"
	"musty/backend/internal/entity"
	"musty/backend/internal/service"
	"musty/backend/internal/store/neostore"
	"musty/backend/pkg/apperrors"
	"musty/backend/pkg/config"
	"musty/backend/pkg/logger"
)

func main() {
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.StoreDriver != config.StoreDriverNeo4j {
		log.Fatal("Seeding requires STORE_DRIVER=neo4j")
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}

	ctx := context.Background()
	defer driver.Close(ctx)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	// Create constraints
	log.Info("Creating constraints...")
	if err := createConstraints(ctx, driver); err != nil {
		log.Warn("Failed to create some constraints (may already exist)", zap.Error(err))
	}

	st := neostore.New(driver)
	svc := service.New(st, auth.PlainVerifier{})

	users := []struct {
		name, email, password, pronoun string
	}{
		{"Ada", "ada@example.com", "password", "she/her"},
		{"Grace", "grace@example.com", "password", "she/her"},
		{"Alan", "alan@example.com", "password", "he/him"},
	}

	created := make([]*entity.User, 0, len(users))
	for _, u := range users {
		user, err := svc.CreateUser(ctx, u.name, u.email, u.password, u.pronoun)
		if apperrors.IsConflict(err) {
			log.Info("User already seeded, skipping", zap.String("email", u.email))
			continue
		}
		if err != nil {
			log.Fatal("Failed to seed user", zap.String("email", u.email), zap.Error(err))
		}
		created = append(created, user)
		log.Info("Seeded user", zap.String("id", user.ID), zap.String("name", user.Name))
	}

	if len(created) < 2 {
		log.Info("Seeding already done, nothing further to create")
		return
	}

	topic, err := st.Topics().Create(ctx, &entity.Topic{Title: "introductions"})
	if err != nil {
		log.Fatal("Failed to seed topic", zap.Error(err))
	}
	log.Info("Seeded topic", zap.String("id", topic.ID))

	post, err := svc.CreatePost(ctx, "hello world", created[0].ID, topic.ID)
	if err != nil {
		log.Fatal("Failed to seed post", zap.Error(err))
	}
	log.Info("Seeded post", zap.String("id", post.Post.ID))

	if _, err := svc.CreateComment(ctx, "welcome!", created[1].ID, post.Post.ID); err != nil {
		log.Fatal("Failed to seed comment", zap.Error(err))
	}

	if err := svc.Follow(ctx, created[0].ID, created[1].ID); err != nil {
		log.Fatal("Failed to seed follow", zap.Error(err))
	}

	log.Info("Seeding complete")
}

func createConstraints(ctx context.Context, driver neo4j.DriverWithContext) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT user_id IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
		"CREATE CONSTRAINT post_id IF NOT EXISTS FOR (p:Post) REQUIRE p.id IS UNIQUE",
		"CREATE CONSTRAINT comment_id IF NOT EXISTS FOR (c:Comment) REQUIRE c.id IS UNIQUE",
		"CREATE CONSTRAINT topic_id IF NOT EXISTS FOR (t:Topic) REQUIRE t.id IS UNIQUE",
	}

	for _, constraint := range constraints {
		if _, err := session.Run(ctx, constraint, nil); err != nil {
			return err
		}
	}
	return nil
}
