package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"skillrise/api/analytics"
	"skillrise/api/config"
	"skillrise/api/database"
	"skillrise/api/handlers"
	"skillrise/api/middleware"
	"skillrise/api/store"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("Invalid server configuration: %v", err)
	}
	tracking, err := config.LoadTracking(cfg.TrackingPath)
	if err != nil {
		log.Fatalf("Invalid tracking configuration: %v", err)
	}

	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Tracking record store ---
	var records store.RecordStore
	switch cfg.StoreDriver {
	case config.DriverClickHouse:
		chClient, err := database.NewClickHouseDB(cfg.ClickHouse)
		if err != nil {
			log.Fatalf("Failed to initialize ClickHouse database: %v", err)
		}
		defer chClient.Close()
		records = store.NewTrackingStore(chClient)
	default:
		sqliteClient, err := database.NewSQLiteDB(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite database: %v", err)
		}
		defer sqliteClient.Close()
		records = store.NewSQLiteStore(sqliteClient.DB)
	}

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 10*time.Second)
	err = records.EnsureSchema(schemaCtx)
	cancelSchema()
	if err != nil {
		log.Fatalf("Failed to prepare tracking store: %v", err)
	}

	// --- Course catalog (optional; titles fall back to placeholders) ---
	var catalog analytics.Catalog
	if cfg.CatalogURL != "" {
		dbClient, err := database.NewPostgresDB(cfg.CatalogURL)
		if err != nil {
			log.Printf("ERROR: course catalog unavailable, dashboard titles will be placeholders: %v", err)
		} else {
			defer dbClient.Close()
			catalog = store.NewCourseStore(dbClient.DB)
		}
	} else {
		log.Println("DATABASE_URL not set; course titles will be placeholders.")
	}

	engine := analytics.NewEngine(records, catalog, tracking.ExcludedPages, cfg.Location)
	trackingHandlers := handlers.NewTrackingHandlers(records, engine)

	r := gin.Default()
	r.Use(middleware.CORSMiddleware(cfg.FrontendOrigin))

	r.GET("/health", handlers.HealthCheck)

	user := r.Group("/api/user")
	user.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		user.POST("/track-time", trackingHandlers.TrackTime)
		user.GET("/analytics", trackingHandlers.GetAnalytics)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Tracking API starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Tracking API failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
