package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"veriportal/internal/audit"
	httpapi "veriportal/internal/http"
	"veriportal/internal/identity"
	"veriportal/internal/kyc"
	kyccache "veriportal/internal/kyc/cache"
	kychandler "veriportal/internal/kyc/handler"
	kycmetrics "veriportal/internal/kyc/metrics"
	kycservice "veriportal/internal/kyc/service"
	"veriportal/internal/mgmt"
	"veriportal/internal/platform/config"
	"veriportal/internal/platform/httpserver"
	"veriportal/internal/platform/kafka"
	"veriportal/internal/platform/logger"
	"veriportal/internal/platform/metrics"
	"veriportal/internal/platform/postgres"
	"veriportal/internal/platform/redis"
	"veriportal/internal/profile"
	profilehandler "veriportal/internal/profile/handler"
	profileservice "veriportal/internal/profile/service"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if cfg.JWTSigningKey == config.DevJWTSigningKey {
		log.Warn("JWT_SIGNING_KEY not set, using the development key")
	}
	if cfg.OperatorToken == "" {
		log.Warn("OPERATOR_TOKEN not set, operator routes are disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres unavailable", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.New(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis unavailable", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
	}

	// Audit events go to Kafka when brokers are configured, otherwise to an
	// in-process store so the portal stays runnable in dev.
	var auditEmitter audit.Emitter = audit.NewPublisher(audit.NewInMemoryStore())
	if cfg.KafkaBrokers != "" {
		kafkaClient, err := kafka.NewClient(cfg.KafkaBrokers)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		defer kafkaClient.Close()
		if err := kafka.EnsureTopic(ctx, kafkaClient, cfg.AuditTopic); err != nil {
			log.Error("audit topic setup failed", "error", err)
			os.Exit(1)
		}
		auditEmitter = audit.NewKafkaPublisher(kafkaClient, cfg.AuditTopic)
	}

	var ledger kyc.Ledger = kyc.NewInMemoryLedger()
	var overrides profile.Store = profile.NewInMemoryStore()
	if db != nil {
		ledger = kyc.NewPostgresLedger(db)
		overrides = profile.NewPostgresStore(db)
	} else {
		log.Warn("no DATABASE_URL configured, using in-memory stores")
	}

	var statusCache kycservice.StatusCache
	if redisClient != nil {
		statusCache = kyccache.NewStatusCache(redisClient.Client, cfg.StatusCacheTTL)
	}

	kycSvc := kycservice.New(ledger, statusCache, auditEmitter, kycmetrics.New(), log)
	profileSvc := profileservice.New(overrides, auditEmitter, log)
	mgmtClient := mgmt.NewClient(cfg.MgmtBaseURL, cfg.MgmtToken)
	if !mgmtClient.Configured() {
		log.Warn("management api not configured, password tickets disabled")
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:          log,
		Metrics:         metrics.New(),
		ClaimsValidator: identity.NewJWTValidator(cfg.JWTSigningKey),
		OperatorToken:   cfg.OperatorToken,
		Profile:         profilehandler.New(profileSvc, kycSvc, mgmtClient),
		KYC:             kychandler.New(kycSvc),
		DB:              db,
		Redis:           redisClient,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
