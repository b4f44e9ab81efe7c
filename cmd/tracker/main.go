package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/config"
	delivery "github.com/BHOGESH4I9/Live-Location-Tracker/internal/delivery/http"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/entity"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/geocode"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/infrastructure/postgres"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/infrastructure/redis"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/logger"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/usecase"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/worker"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		// No .env is fine; rely on the environment.
		_ = err
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogPath); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar

	// PostgreSQL: the append-only check event log.
	pgRepo, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pgRepo.Close()

	// Redis: live locations, geocode queue, session cache.
	redisRepo, err := redis.New(cfg.RedisAddr, cfg.SessionCacheTTL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisRepo.Close()

	zone := entity.GeofenceZone{
		Center:       entity.GeoPoint{Latitude: cfg.OfficeLat, Longitude: cfg.OfficeLng},
		RadiusMeters: cfg.OfficeRadiusM,
	}
	if err := zone.Center.Validate(); err != nil {
		log.Fatalf("Invalid office coordinates: %v", err)
	}

	geocoder := geocode.New(cfg.GeocodeURL, cfg.GeocodeAPIKey)

	// Application layer.
	geofenceService := usecase.NewGeofenceService(zone)
	sessionService := usecase.NewSessionService(pgRepo, redisRepo)
	attendanceService := usecase.NewAttendanceService(geofenceService, pgRepo, redisRepo)
	liveService := usecase.NewLiveTrackService(redisRepo, redisRepo, zone, cfg.PathLimit, cfg.LivePollInterval)

	// Background geocode worker.
	w := worker.New(redisRepo, redisRepo, geocoder)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	go w.Start(workerCtx)

	// HTTP delivery. Repositories double as pingers for the health check.
	handler := delivery.NewHandler(attendanceService, sessionService, liveService,
		geofenceService, geocoder, pgRepo, redisRepo, cfg.APIKey, cfg.StatsWindowMin)
	router := handler.InitRoutes()

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Infof("Server listening on %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	workerCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exiting")
}
