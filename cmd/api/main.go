package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/timekeep-ph/dtr-backend-go/internal/config"
	appHTTP "github.com/timekeep-ph/dtr-backend-go/internal/handler/http"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/cron"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/database"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/embedder"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/jwt"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/storage"
	"github.com/timekeep-ph/dtr-backend-go/internal/repository/postgresql"
	authService "github.com/timekeep-ph/dtr-backend-go/internal/service/auth"
	dtrService "github.com/timekeep-ph/dtr-backend-go/internal/service/dtr"
	eventService "github.com/timekeep-ph/dtr-backend-go/internal/service/event"
	faceService "github.com/timekeep-ph/dtr-backend-go/internal/service/face"
	timeLogService "github.com/timekeep-ph/dtr-backend-go/internal/service/timelog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	eventRepo := postgresql.NewEventRepository(db)
	timeLogRepo := postgresql.NewTimeLogRepository(db)
	dtrRepo := postgresql.NewDTRRepository(db)
	faceEmbeddingRepo := postgresql.NewFaceEmbeddingRepository(db)
	loginAttemptRepo := postgresql.NewLoginAttemptRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	faceEmbedder := embedder.NewHTTPEmbedder(cfg.Embedder.Endpoint, cfg.Embedder.APIKey, cfg.Embedder.Dimensions)

	dtrSvc := dtrService.NewDTRService(db, dtrRepo, timeLogRepo)
	timeLogSvc := timeLogService.NewTimeLogService(db, timeLogRepo, eventRepo, dtrSvc)
	eventSvc := eventService.NewEventService(eventRepo)
	faceSvc := faceService.NewFaceService(db, faceEmbedder, fileStorage, faceEmbeddingRepo, userRepo, cfg.Face.SimilarityThreshold)
	authSvc := authService.NewAuthService(db, faceEmbedder, faceSvc, loginAttemptRepo, userRepo, JWTService)

	authHandler := appHTTP.NewAuthHandler(authSvc, JWTService)
	faceHandler := appHTTP.NewFaceHandler(faceSvc)
	timeLogHandler := appHTTP.NewTimeLogHandler(timeLogSvc)
	dtrHandler := appHTTP.NewDTRHandler(dtrSvc)
	eventHandler := appHTTP.NewEventHandler(eventSvc)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("auto-close-stale-time-logs", time.Hour, func(ctx context.Context) error {
		_, err := timeLogSvc.AutoCloseStale(ctx)
		return err
	})
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:         cfg.App.Env,
			FrontendURL: cfg.App.FrontendURL,
		},
		JWTService,
		authHandler,
		faceHandler,
		timeLogHandler,
		dtrHandler,
		eventHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
