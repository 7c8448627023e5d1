package main

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vedran77/flicksy/internal/config"
	"github.com/vedran77/flicksy/internal/database"
	"github.com/vedran77/flicksy/internal/queue"
	postgresrepo "github.com/vedran77/flicksy/internal/repository/postgres"
	"github.com/vedran77/flicksy/internal/service"
	"github.com/vedran77/flicksy/internal/transport/http/handlers"
	"github.com/vedran77/flicksy/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer pool.Close()
	logrus.Info("Connected to database")

	// Redis is optional; trending falls back to direct queries without it.
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	postRepo := postgresrepo.NewPostRepo(pool)
	commentRepo := postgresrepo.NewCommentRepo(pool)
	likeRepo := postgresrepo.NewLikeRepo(pool)
	followRepo := postgresrepo.NewFollowRepo(pool)
	verificationRepo := postgresrepo.NewVerificationRepo(pool)

	// Services
	guard := service.NewGuard(userRepo)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	userService := service.NewUserService(userRepo, followRepo, guard)
	postService := service.NewPostService(postRepo, commentRepo, likeRepo, guard)
	engagementService := service.NewEngagementService(likeRepo, postRepo, guard)
	trendingService := service.NewTrendingService(postRepo, cache)
	searchService := service.NewSearchService(userRepo, postRepo, likeRepo)
	moderationService := service.NewModerationService(verificationRepo, userRepo, guard)

	// Moderation audit queue is optional as well.
	if cfg.AmqpURL != "" {
		publisher, err := queue.NewPublisher(cfg.AmqpURL)
		if err != nil {
			logrus.WithError(err).Warn("audit publisher disabled")
		} else {
			defer publisher.Close()
			moderationService.SetAuditPublisher(publisher)
			postService.SetAuditPublisher(publisher)
			go queue.StartAuditConsumer(cfg.AmqpURL)
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, postService)
	postHandler := handlers.NewPostHandler(postService, engagementService)
	trendingHandler := handlers.NewTrendingHandler(trendingService)
	searchHandler := handlers.NewSearchHandler(searchService)
	moderationHandler := handlers.NewModerationHandler(moderationService)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/users/{username}", userHandler.GetProfile)
	mux.HandleFunc("GET /api/trending/posts", trendingHandler.Posts)
	mux.HandleFunc("GET /api/trending/hashtags", trendingHandler.Hashtags)

	// Protected - Account
	mux.Handle("GET /api/auth/me", auth(http.HandlerFunc(authHandler.Me)))
	mux.Handle("POST /api/users/{username}/follow", auth(http.HandlerFunc(userHandler.ToggleFollow)))
	mux.Handle("GET /api/users/{username}/posts", auth(http.HandlerFunc(userHandler.ListPosts)))

	// Protected - Posts
	mux.Handle("POST /api/posts", auth(http.HandlerFunc(postHandler.Create)))
	mux.Handle("GET /api/posts", auth(http.HandlerFunc(postHandler.Feed)))
	mux.Handle("GET /api/posts/{id}", auth(http.HandlerFunc(postHandler.Get)))
	mux.Handle("DELETE /api/posts/{id}", auth(http.HandlerFunc(postHandler.Delete)))
	mux.Handle("POST /api/posts/{id}/like", auth(http.HandlerFunc(postHandler.ToggleLike)))
	mux.Handle("GET /api/posts/{id}/comments", auth(http.HandlerFunc(postHandler.ListComments)))
	mux.Handle("POST /api/posts/{id}/comments", auth(http.HandlerFunc(postHandler.CreateComment)))

	// Protected - Search
	mux.Handle("GET /api/search", auth(http.HandlerFunc(searchHandler.Search)))

	// Protected - Verification & Moderation
	mux.Handle("POST /api/verification/request", auth(http.HandlerFunc(moderationHandler.FileVerificationRequest)))
	mux.Handle("GET /api/admin/verification/requests", auth(http.HandlerFunc(moderationHandler.ListVerificationRequests)))
	mux.Handle("POST /api/admin/verification/requests/{id}/approve", auth(http.HandlerFunc(moderationHandler.ApproveVerification)))
	mux.Handle("POST /api/admin/verification/requests/{id}/reject", auth(http.HandlerFunc(moderationHandler.RejectVerification)))
	mux.Handle("GET /api/admin/users", auth(http.HandlerFunc(moderationHandler.ListUsers)))
	mux.Handle("POST /api/admin/users/{id}/ban", auth(http.HandlerFunc(moderationHandler.BanUser)))
	mux.Handle("POST /api/admin/users/{id}/unban", auth(http.HandlerFunc(moderationHandler.UnbanUser)))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logrus.Infof("Starting server on %s", addr)
	logrus.Fatal(http.ListenAndServe(addr, middleware.CORS(mux)))
}
