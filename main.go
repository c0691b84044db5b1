// main.go
package main

import (
	"log"
	"time"

	"service-marketplace/cmd"
	"service-marketplace/internal/data/repository"
	"service-marketplace/internal/wire"
	"service-marketplace/pkg/cache"
	"service-marketplace/pkg/database"
	"service-marketplace/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Optional Redis cache in front of provider discovery
	if config.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(config.Redis.Addr, config.Redis.Password, config.Redis.DB, logger)
		if err != nil {
			logger.Warn("Redis unavailable, running without provider cache", zap.Error(err))
		} else {
			repos.WithProviderCache(redisCache, time.Duration(config.Redis.TTLSecs)*time.Second)
			logger.Info("Provider cache enabled", zap.String("addr", config.Redis.Addr))
		}
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
