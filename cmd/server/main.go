package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strikeops/internal/cache"
	"strikeops/internal/config"
	"strikeops/internal/repository"
	"strikeops/internal/service"
	"strikeops/internal/transport/rest"
	"strikeops/internal/transport/ws"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title StrikeOps Game Session API
// @version 1.0
// @description Live tactical airsoft/laser-tag game session management
// @host localhost:8080
// @BasePath /v1
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Repositories
	gameRepo := repository.NewGameRepo(db)
	playerRepo := repository.NewPlayerRepo(db)
	deviceRepo := repository.NewDeviceRepo(db)
	fieldMapRepo := repository.NewFieldMapRepo(db)

	// Caches
	gameCache := cache.NewGameCache(rdb)
	leaderboard := cache.NewLeaderboardCache(rdb)

	// Services
	authSvc := service.NewAuthService(cfg.OperatorUsername, cfg.OperatorPassword, cfg.JWTSecret)
	gameSvc := service.NewGameService(gameRepo, deviceRepo, fieldMapRepo, gameCache, leaderboard)
	rosterSvc := service.NewRosterService(gameRepo, playerRepo)
	ledgerSvc := service.NewLedgerService(gameRepo, deviceRepo)
	groupSvc := service.NewGroupService(gameRepo)
	resultSvc := service.NewResultService(gameRepo, leaderboard)
	catalogSvc := service.NewCatalogService(playerRepo, deviceRepo, fieldMapRepo)

	// The hub implements service.Broadcaster
	gameSvc.SetBroadcaster(wsHub)
	rosterSvc.SetBroadcaster(wsHub)
	groupSvc.SetBroadcaster(wsHub)
	resultSvc.SetBroadcaster(wsHub)

	container := &rest.Container{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,

		AuthService:    authSvc,
		GameService:    gameSvc,
		RosterService:  rosterSvc,
		LedgerService:  ledgerSvc,
		GroupService:   groupSvc,
		ResultService:  resultSvc,
		CatalogService: catalogSvc,
		WSHandler:      ws.NewHandler(wsHub, authSvc, gameCache),
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
