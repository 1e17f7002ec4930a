package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"campus-market-go/internal/config"
	"campus-market-go/internal/db"
	campusdomain "campus-market-go/internal/domain/campus"
	feedbackdomain "campus-market-go/internal/domain/feedback"
	listingdomain "campus-market-go/internal/domain/listing"
	persondomain "campus-market-go/internal/domain/person"
	reactiondomain "campus-market-go/internal/domain/reaction"
	"campus-market-go/internal/events"
	"campus-market-go/internal/identity"
	feedbackrepo "campus-market-go/internal/repository/postgres/feedback"
	listingrepo "campus-market-go/internal/repository/postgres/listing"
	personrepo "campus-market-go/internal/repository/postgres/person"
	reactionrepo "campus-market-go/internal/repository/postgres/reaction"
	"campus-market-go/internal/storage"
	"campus-market-go/internal/transport/httpserver"
	"campus-market-go/internal/transport/httpserver/handler"
	authhandler "campus-market-go/internal/transport/httpserver/handler/auth"
	commonhandler "campus-market-go/internal/transport/httpserver/handler/common"
	feedbackhandler "campus-market-go/internal/transport/httpserver/handler/feedback"
	listingshandler "campus-market-go/internal/transport/httpserver/handler/listings"
	reactionshandler "campus-market-go/internal/transport/httpserver/handler/reactions"
	authmw "campus-market-go/internal/transport/httpserver/middleware"
	"campus-market-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	executor   *campusdomain.Executor
	publisher  *events.KafkaPublisher
	log        logger.Logger
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn, log); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("app: initializing image storage")
	var itemImages listingdomain.ImageStore
	var feedbackImages feedbackdomain.ImageStore
	if cfg.MinIO.Endpoint != "" {
		store, err := storage.NewMinIO(ctx, cfg.MinIO, log)
		if err != nil {
			return nil, err
		}
		itemImages, feedbackImages = store, store
	} else {
		log.Warn("app: MINIO_ENDPOINT not set, image uploads disabled")
	}

	var publisher *events.KafkaPublisher
	var listingEvents listingdomain.EventPublisher = listingdomain.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		log.Info("app: initializing kafka publisher", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
		publisher = events.NewKafka(cfg.Kafka, log)
		listingEvents = publisher
	}

	personRepo := personrepo.NewPostgres(dbConn)
	listingRepo := listingrepo.NewPostgres(dbConn)
	reactionRepo := reactionrepo.NewPostgres(dbConn)
	feedbackRepo := feedbackrepo.NewPostgres(dbConn)

	people := persondomain.NewService(personRepo, listingdomain.NewContactRefresher(listingRepo, log), log)
	reactions := reactiondomain.NewService(reactionRepo, log)
	listings := listingdomain.NewService(listingRepo, people, reactions, itemImages, listingEvents, log)
	feedback := feedbackdomain.NewService(feedbackRepo, feedbackImages, log)

	executor := campusdomain.NewExecutor(cfg.Geo.MaxBackground, log)
	locator := campusdomain.NewLocator(&http.Client{}, campusdomain.DefaultProviders(cfg.Geo.ProviderTimeout), cfg.Geo.UserAgent, log)
	detector := campusdomain.NewDetector(campusdomain.NewResolver(locator), people, executor, log)

	verifier := identity.NewGoogleVerifier(cfg.Auth.GoogleClientID)
	sessions := identity.NewSessions(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)

	sqlDB, err := dbConn.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}

	log.Info("app: initializing router")
	handlers := handler.New(
		commonhandler.New(sqlDB, log),
		authhandler.New(people, verifier, identity.NewOAuthFlow(cfg.Auth, verifier), sessions, cfg.Auth, log),
		listingshandler.New(listings, log),
		reactionshandler.New(reactions, log),
		feedbackhandler.New(feedback, log),
	)
	auth := authmw.NewSessionAuth(sessions, people, cfg.Auth.CookieName, log)
	router := httpserver.NewRouter(cfg, handlers, auth, detector)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		executor:   executor,
		publisher:  publisher,
		log:        log,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// Close waits for detached campus lookups until ctx expires, then releases
// the event writer and the database pool.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.executor != nil {
		if err := a.executor.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("campus executor: %w", err))
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka: %w", err))
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
