package main

import (
	"net/http"
	"time"

	"trolleyseal/auth"
	"trolleyseal/config"
	"trolleyseal/db"
	"trolleyseal/db/mongo"
	"trolleyseal/db/postgres"
	"trolleyseal/handlers"
	"trolleyseal/logging"
	"trolleyseal/middleware"
	"trolleyseal/realtime"
	"trolleyseal/repository"
	"trolleyseal/routes"
	"trolleyseal/store"
	"trolleyseal/utils"
	"trolleyseal/workflow"

	"go.uber.org/zap"
)

func main() {
	// Load config from .env or system environment
	cfg := config.LoadConfig()

	log, err := logging.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var flightRepo repository.FlightRepository
	var sealRepo repository.SealScanRepository
	var userRepo repository.UserRepository
	var conn db.DB

	hub := realtime.NewHub(log)
	defer hub.Close()

	switch db.DBType(cfg.DBType) {
	case db.Postgres:
		// Migrations only apply to Postgres
		if err := db.RunMigrations(cfg.PostgresURL); err != nil {
			log.Fatal("migrations failed", zap.Error(err))
		}
		log.Info("migrations applied")

		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(); err != nil {
			log.Fatal("postgres connect failed", zap.Error(err))
		}
		defer pg.Disconnect()
		conn = pg

		flightRepo = repository.NewPostgresFlightRepo(pg.Conn)
		sealRepo = repository.NewPostgresSealRepo(pg.Conn)
		userRepo = repository.NewPostgresUserRepo(pg.Conn)

		// Cross-instance cache invalidation rides LISTEN/NOTIFY
		pgListener := realtime.NewPGListener(cfg.PostgresURL, hub, log)
		if err := pgListener.Start(); err != nil {
			log.Fatal("postgres listener failed", zap.Error(err))
		}
		defer pgListener.Close()

	case db.Mongo:
		mg := mongo.NewMongoDB(cfg.MongoURL)
		if err := mg.Connect(); err != nil {
			log.Fatal("mongo connect failed", zap.Error(err))
		}
		defer mg.Disconnect()
		conn = mg

		flightRepo = repository.NewMongoFlightRepo(mg.Client)
		sealRepo = repository.NewMongoSealRepo(mg.Client)
		userRepo = repository.NewMongoUserRepo(mg.Client)

	default:
		log.Fatal("DB_TYPE not supported", zap.String("db_type", cfg.DBType))
	}

	// Stores
	flightStore := store.NewFlightStore(flightRepo, sealRepo, userRepo, hub, log)
	sealStores := store.NewSealStores(sealRepo, hub, log)

	// Session tokens
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 12*time.Hour)

	// Account requests go to the admin mailbox, at most a handful per
	// address per hour
	mailer := utils.NewMailer(cfg.ResendAPIKey, cfg.AdminEmail)
	limiter := middleware.NewRateLimiter(5, time.Hour)
	go limiter.CleanupLoop()

	reportRepo := repository.NewReportRepository(flightRepo, sealRepo)

	// Handlers
	userHandler := &handlers.UserHandler{Repo: userRepo, JWT: jwtManager}
	flightHandler := &handlers.FlightHandler{Store: flightStore}
	sealHandler := &handlers.SealHandler{Stores: sealStores}
	reportHandler := &handlers.ReportHandler{
		Repo:        reportRepo,
		Flights:     flightStore,
		Log:         log,
		PDFSavePath: cfg.PDFSavePath,
	}
	workflowHandler := &handlers.WorkflowHandler{
		Manager: workflow.NewManager(),
		Flights: flightStore,
		Seals:   sealStores,
	}
	requestAccessHandler := &handlers.RequestAccessHandler{
		Mailer:  mailer,
		Limiter: limiter,
		Log:     log,
	}
	eventsHandler := &handlers.EventsHandler{Hub: hub, Log: log}
	healthHandler := &handlers.HealthHandler{Ping: conn.Ping}

	routes.SetupRoutes(
		log,
		middleware.AuthMiddleware(jwtManager),
		userHandler,
		flightHandler,
		sealHandler,
		reportHandler,
		workflowHandler,
		requestAccessHandler,
		eventsHandler,
		healthHandler,
	)

	log.Info("server running", zap.String("port", cfg.Port), zap.String("db_type", cfg.DBType))
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
