package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"campus-feed/internal/config"
	"campus-feed/internal/database"
	"campus-feed/internal/engine"
	"campus-feed/internal/handlers"
	"campus-feed/internal/middleware"
	"campus-feed/internal/service"
	"campus-feed/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	metrics := utils.NewMetricsCollector()
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Pick the persistence adapter. MongoDB when a URI is configured,
	// otherwise the in-memory adapter.
	var db database.Adapter
	if cfg.Database.URI != "" {
		mongo, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		log.Printf("Connected to MongoDB database %q", cfg.Database.Name)
		db = mongo
	} else {
		log.Printf("No MONGODB_URI set, running on in-memory storage")
		db = database.NewMemory()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Seed(ctx, db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Initialize actor system and engine
	system := actor.NewActorSystem()
	feedEngine := engine.NewEngine(system, metrics, db)

	svc := service.New(system, feedEngine, metrics, time.Duration(cfg.Server.RequestTimeout)*time.Second)
	server := handlers.NewServer(svc, metrics)

	// Set up HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("/health", server.HandleHealth())
	mux.HandleFunc("/user/register", server.HandleUserRegistration())
	mux.HandleFunc("/user/login", server.HandleUserLogin())
	mux.HandleFunc("/user/profile", server.HandleUserProfile())
	mux.HandleFunc("/user/posts", server.HandleUserPosts())
	mux.HandleFunc("/courses", server.HandleCourses())
	mux.HandleFunc("/courses/membership", server.HandleCourseMembership())
	mux.HandleFunc("/courses/members", server.HandleCourseMembers())
	mux.HandleFunc("/post", server.HandlePost())
	mux.HandleFunc("/post/like", server.HandleLikePost())
	mux.HandleFunc("/comment", server.HandleComment())
	mux.HandleFunc("/feed", server.HandleFeed())

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	handler := middleware.CORSMiddleware(corsConfig)(middleware.AuthMiddleware(mux))

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
