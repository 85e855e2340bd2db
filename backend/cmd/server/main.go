package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"musty/backend/internal/auth"
	"musty/backend/internal/resolver"
	"musty/backend/internal/service"
	"musty/backend/internal/store"
	"musty/backend/internal/store/memstore"
	"musty/backend/internal/store/neostore"
	"musty/backend/pkg/apperrors"
	"musty/backend/pkg/config"
	"musty/backend/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Select the store backend
	st, cleanup, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer cleanup()

	res := resolver.New(st)
	svc := service.New(st, auth.PlainVerifier{})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(log, res, svc)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.StoreDriver),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// openStore builds the configured store backend and returns a cleanup
// function for process shutdown.
func openStore(cfg *config.Config, log *zap.Logger) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverNeo4j:
		driver, err := neo4j.NewDriverWithContext(
			cfg.Neo4jURI,
			neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
		}

		ctx := context.Background()
		if err := driver.VerifyConnectivity(ctx); err != nil {
			_ = driver.Close(ctx)
			return nil, nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
		}

		st := neostore.New(driver)
		cleanup := func() {
			if err := st.Close(context.Background()); err != nil {
				log.Error("Failed to close Neo4j driver", zap.Error(err))
			}
		}
		return st, cleanup, nil
	default:
		return memstore.New(), func() {}, nil
	}
}

// setupRouter wires the query and mutation surface onto gin
func setupRouter(log *zap.Logger, res *resolver.Resolver, svc *service.Service) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Queries
		api.GET("/users", func(c *gin.Context) {
			users, err := res.Users(c.Request.Context())
			if err != nil {
				writeError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, users)
		})

		api.GET("/posts", func(c *gin.Context) {
			posts, err := res.Posts(c.Request.Context())
			if err != nil {
				writeError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, posts)
		})

		api.GET("/posts/:id", func(c *gin.Context) {
			view, err := res.Post(c.Request.Context(), c.Param("id"))
			if err != nil {
				writeError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, view)
		})

		api.GET("/profile/:id", func(c *gin.Context) {
			view, err := res.Profile(c.Request.Context(), c.Param("id"))
			if err != nil {
				writeError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, view)
		})

		api.GET("/topics", func(c *gin.Context) {
			views, err := res.Topics(c.Request.Context())
			if err != nil {
				writeError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, views)
		})

		api.GET("/topics/:id", func(c *gin.Context) {
			view, err := res.Topic(c.Request.Context(), c.Param("id"))
			if err != nil {
				writeError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, view)
		})

		// Mutations
		api.POST("/users", func(c *gin.Context) {
			var req struct {
				Name     string `json:"name" binding:"required"`
				Email    string `json:"email" binding:"required"`
				Password string `json:"password" binding:"required"`
				Pronoun  string `json:"pronoun"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			user, err := svc.CreateUser(c.Request.Context(), req.Name, req.Email, req.Password, req.Pronoun)
			if err != nil {
				writeError(c, log, err)
				return
			}
			c.JSON(http.StatusCreated, user)
		})

		api.POST("/posts", func(c *gin.Context) {
			var req struct {
				Caption    string `json:"caption" binding:"required"`
				PostedByID string `json:"postedByID" binding:"required"`
				TopicID    string `json:"topicID" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			view, err := svc.CreatePost(c.Request.Context(), req.Caption, req.PostedByID, req.TopicID)
			if err != nil {
				writeError(c, log, err)
				return
			}
			c.JSON(http.StatusCreated, view)
		})

		api.POST("/comments", func(c *gin.Context) {
			var req struct {
				Comment       string `json:"comment" binding:"required"`
				CommentedByID string `json:"commentedByID" binding:"required"`
				PostID        string `json:"postID" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			comment, err := svc.CreateComment(c.Request.Context(), req.Comment, req.CommentedByID, req.PostID)
			if err != nil {
				writeError(c, log, err)
				return
			}
			c.JSON(http.StatusCreated, comment)
		})

		api.POST("/login", func(c *gin.Context) {
			var req struct {
				Email    string `json:"email" binding:"required"`
				Password string `json:"password" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			user, err := svc.Login(c.Request.Context(), req.Email, req.Password)
			if err != nil {
				writeError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, user)
		})

		api.POST("/follow", func(c *gin.Context) {
			var req struct {
				ID         string `json:"id" binding:"required"`
				FollowerID string `json:"followerID" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			if err := svc.Follow(c.Request.Context(), req.ID, req.FollowerID); err != nil {
				writeError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
	}

	return router
}

// writeError maps a typed failure onto an HTTP status
func writeError(c *gin.Context, log *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindConflict:
		status = http.StatusConflict
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindAuth:
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
