package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/geoproof/proof-of-attendance/internal/config"
	"github.com/geoproof/proof-of-attendance/internal/database"
	"github.com/geoproof/proof-of-attendance/internal/handler"
	"github.com/geoproof/proof-of-attendance/internal/middleware"
	"github.com/geoproof/proof-of-attendance/internal/protocol"
	"github.com/geoproof/proof-of-attendance/internal/queue"
	"github.com/geoproof/proof-of-attendance/internal/repository"
	"github.com/geoproof/proof-of-attendance/internal/router"
)

func main() {
	// Load a local .env when present; real deployments set env directly.
	_ = godotenv.Load()

	cfg := config.Load()

	// The core is the single authoritative state holder. Everything in
	// MySQL and Redis is a derived view fed by the notification queues.
	core := protocol.New(cfg.OwnerAccount)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	accounts := repository.NewAccountRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := repository.NewEventRepo(db)
	attendance := repository.NewAttendanceRepo(db)
	credentials := repository.NewCredentialRepo(db)

	// Redis is optional: a nil client disables caching, rate limiting
	// and the key-value index without affecting correctness.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache, rate limiting and index disabled")
	}

	// Mirror consumer: applies queue facts to MySQL and the Redis index.
	mirror := &queue.Mirror{
		Events:      events,
		Attendance:  attendance,
		Credentials: credentials,
		RDB:         rdb,
	}
	go func() {
		if err := mirror.Start(); err != nil {
			log.Printf("mirror-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	authH := handler.NewAuthHandler(cfg, accounts, tokens, core)
	orgH := handler.NewOrganizerHandler(core)
	evH := handler.NewEventHandler(core)
	attH := handler.NewAttendanceHandler(core, attendance)
	browseH := handler.NewBrowseHandler(core, events, credentials)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterOrganizers(e, orgH, cfg.JWTSecret)
	router.RegisterProtocol(e, evH, attH, cfg.JWTSecret)
	router.RegisterPublic(e, browseH, orgH, attH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, owner=%s)", addr, cfg.Env, cfg.OwnerAccount)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
