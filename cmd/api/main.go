package main

import (
	"context"
	"log"
	nethttp "net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gtu-transit/auth-gateway/internal/config"
	"github.com/gtu-transit/auth-gateway/internal/directory"
	"github.com/gtu-transit/auth-gateway/internal/domain"
	"github.com/gtu-transit/auth-gateway/internal/messaging"
	"github.com/gtu-transit/auth-gateway/internal/repository/postgres"
	"github.com/gtu-transit/auth-gateway/internal/service"
	"github.com/gtu-transit/auth-gateway/internal/transport/http"
	"github.com/gtu-transit/auth-gateway/internal/util"
)

func main() {
	cfg := config.Load()

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer db.Close()

	if err := os.MkdirAll(cfg.SpoolDir, 0o700); err != nil {
		log.Fatalf("create spool dir: %v", err)
	}

	// A dead broker must not stop the gateway from booting; publishers fall
	// back to the spool until the broker comes back.
	broker, err := messaging.NewAMQPBroker(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("configure broker: %v", err)
	}
	defer broker.Close()

	messaging.RegisterMetrics()

	spoolOpts := []messaging.PublisherOption{messaging.WithSkipFailed(cfg.SpoolSkipFailed)}
	resetEvents := messaging.NewPublisher(broker,
		messaging.NewSpool(filepath.Join(cfg.SpoolDir, "reset-events.json")),
		cfg.ResetExchange, cfg.ResetRoutingKey, spoolOpts...)
	logEvents := messaging.NewPublisher(broker,
		messaging.NewSpool(filepath.Join(cfg.SpoolDir, "log-events.json")),
		cfg.LogExchange, cfg.LogRoutingKey, spoolOpts...)

	ops := messaging.NewOpsLogger(logEvents, cfg.ServiceName)

	jwtManager, err := util.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("configure jwt: %v", err)
	}

	dir := directory.NewClient(&nethttp.Client{Timeout: 10 * time.Second}, cfg.UsersServiceURL, cfg.PassengersServiceURL)

	authService := service.NewAuthService(dir, jwtManager, ops)
	resetService := service.NewResetService(dir, postgres.NewResetTokenRepo(db), resetEvents, ops, service.ResetConfig{
		ServiceName: cfg.ServiceName,
		LinkBaseURL: cfg.ResetLinkBaseURL,
		TokenTTL:    cfg.ResetTokenTTL,
	})

	e := http.NewRouter(cfg.AllowOrigins, resetEvents, logEvents)
	http.RegisterAuth(e, authService, resetService)
	http.RegisterSwagger(e)

	// Flush anything spooled by a previous run, then announce the boot over
	// the log channel so a listener can verify the pipeline end to end.
	startupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := resetEvents.Drain(startupCtx); err != nil {
		log.Printf("startup drain (reset events): %v", err)
	}
	if err := logEvents.Drain(startupCtx); err != nil {
		log.Printf("startup drain (log events): %v", err)
	}
	ops.Log(startupCtx, domain.LevelInfo, "Auth gateway started", map[string]any{"port": cfg.Port})
	cancel()

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
