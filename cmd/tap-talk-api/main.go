package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DidierBrusa/tap-talk-api/common/database"
	"github.com/DidierBrusa/tap-talk-api/common/logger"
	mqttcommon "github.com/DidierBrusa/tap-talk-api/common/mqtt"
	rediscommon "github.com/DidierBrusa/tap-talk-api/common/redis"
	"github.com/DidierBrusa/tap-talk-api/internal/config"
	httpapi "github.com/DidierBrusa/tap-talk-api/internal/http"
	"github.com/DidierBrusa/tap-talk-api/internal/identity"
	"github.com/DidierBrusa/tap-talk-api/internal/notify"
	"github.com/DidierBrusa/tap-talk-api/internal/repository"
	"github.com/DidierBrusa/tap-talk-api/internal/service"
	"github.com/DidierBrusa/tap-talk-api/internal/validation"

	"go.uber.org/zap"
)

// repos bundles the storage backing the services.
type repos struct {
	auxiliares     repository.AuxiliaresRepository
	grupos         repository.GruposRepository
	membership     repository.MembershipRepository
	categorias     repository.CategoriasRepository
	pictogramas    repository.PictogramasRepository
	notificaciones repository.NotificacionesRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "tap-talk-api")
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	var db *sql.DB
	var r repos
	if cfg.DBEnabled {
		db, err = database.NewPostgresDB(&cfg.Database)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer database.Close(db)
		log.Info("DB enabled for tap-talk-api", zap.String("database", cfg.Database.Database))
		r = repos{
			auxiliares:     repository.NewPostgresAuxiliaresRepository(db),
			grupos:         repository.NewPostgresGruposRepository(db),
			membership:     repository.NewPostgresMembershipRepository(db),
			categorias:     repository.NewPostgresCategoriasRepository(db),
			pictogramas:    repository.NewPostgresPictogramasRepository(db),
			notificaciones: repository.NewPostgresNotificacionesRepository(db),
		}
	} else {
		log.Warn("DB disabled: serving from the in-memory store, data is lost on exit")
		store := repository.NewMemoryStore()
		r = repos{store, store, store, store, store, store}
	}

	backend, err := newPublisher(cfg, log)
	if err != nil {
		log.Fatal("failed to set up notification publisher", zap.Error(err))
	}
	hub := notify.NewHub(32, log)
	publisher := notify.Multi(hub, backend)
	defer publisher.Close()

	validator, err := validation.New()
	if err != nil {
		log.Fatal("failed to compile request schemas", zap.Error(err))
	}

	resolver := service.NewIdentityResolver(r.auxiliares)
	grupos := service.NewGrupoService(r.grupos, r.membership, log)
	membership := service.NewMembershipService(r.grupos, r.membership, resolver, log)
	auxiliares := service.NewAuxiliarService(r.auxiliares, resolver, log)
	catalog := service.NewCatalogService(r.categorias, r.pictogramas)
	notificaciones := service.NewNotificacionService(r.notificaciones, r.pictogramas, r.grupos, publisher, log)

	router := httpapi.NewRouter(log)
	var pinger httpapi.Pinger
	if db != nil {
		pinger = db
	}
	health := httpapi.NewHealthHandler(pinger, cfg.Database.Database, log)
	if s, ok := backend.(httpapi.ConnectionStatus); ok {
		health.WithBroker(cfg.Notify.Backend, s)
	}
	router.RegisterHealthRoutes(health)
	if verifier := newVerifier(cfg, log); verifier != nil {
		router.RegisterAuthRoutes(httpapi.NewAuthHandler(verifier, auxiliares, log))
		if cfg.Auth.Enabled {
			router.RequireAuth(verifier)
		}
	}
	router.RegisterAuxiliarRoutes(httpapi.NewAuxiliaresHandler(auxiliares, membership, validator, log))
	router.RegisterGrupoRoutes(httpapi.NewGruposHandler(grupos, membership, notificaciones, validator, log))
	router.RegisterVinculoRoutes(httpapi.NewVinculosHandler(membership, validator, log))
	router.RegisterCatalogRoutes(httpapi.NewCatalogHandler(catalog, validator, log))
	router.RegisterNotificacionRoutes(httpapi.NewNotificacionesHandler(notificaciones, validator, log))
	router.RegisterStreamRoutes(httpapi.NewStreamHandler(hub, grupos, log))

	srv := service.NewServer(cfg.HTTP.Addr, router.Handler(cfg.AllowedOrigins()), log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newPublisher(cfg *config.Config, log *zap.Logger) (notify.Publisher, error) {
	switch cfg.Notify.Backend {
	case config.NotifyRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := rediscommon.Connect(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Info("publishing notifications to redis stream", zap.String("stream", cfg.Notify.Stream))
		return notify.NewRedisStreamPublisher(client, cfg.Notify.Stream, log), nil
	case config.NotifyMQTT:
		client, err := mqttcommon.NewClient(&cfg.MQTT)
		if err != nil {
			return nil, err
		}
		log.Info("publishing notifications over MQTT", zap.String("topic_prefix", cfg.Notify.Topic))
		return notify.NewMQTTPublisher(client, cfg.Notify.Topic, log), nil
	default:
		return notify.NopPublisher{}, nil
	}
}

// newVerifier prefers local JWT verification and falls back to asking the
// identity provider. Nil when neither is configured.
func newVerifier(cfg *config.Config, log *zap.Logger) identity.Verifier {
	switch {
	case cfg.Auth.JWTSecret != "":
		return identity.NewJWTVerifier(cfg.Auth.JWTSecret)
	case cfg.Auth.ProviderURL != "":
		return identity.NewProviderClient(cfg.Auth.ProviderURL, cfg.Auth.ProviderAPIKey, log)
	default:
		return nil
	}
}
