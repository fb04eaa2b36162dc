package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crossclass/internal/conversion"
	directoryhandler "crossclass/internal/directory/handler"
	directoryservice "crossclass/internal/directory/service"
	authoritystore "crossclass/internal/directory/store/authority"
	nationstore "crossclass/internal/directory/store/nation"
	"crossclass/internal/platform/config"
	"crossclass/internal/platform/fieldcodec"
	"crossclass/internal/platform/httpserver"
	"crossclass/internal/platform/logger"
	"crossclass/internal/platform/metrics"
	"crossclass/internal/platform/middleware"
	"crossclass/internal/platform/postgres"
	platformredis "crossclass/internal/platform/redis"
	requesthandler "crossclass/internal/request/handler"
	requestmetrics "crossclass/internal/request/metrics"
	requestservice "crossclass/internal/request/service"
	documentstore "crossclass/internal/request/store/document"
	metadatastore "crossclass/internal/request/store/metadata"
	requeststore "crossclass/internal/request/store/request"
	responsestore "crossclass/internal/request/store/response"
	schemahandler "crossclass/internal/schema/handler"
	schemametrics "crossclass/internal/schema/metrics"
	schemaservice "crossclass/internal/schema/service"
	schemastore "crossclass/internal/schema/store"
	"crossclass/internal/seed"
	"crossclass/pkg/platform/audit"
	auditpublisher "crossclass/pkg/platform/audit/publisher"
)

// main wires the stores, services, and HTTP surface. Business logic lives in
// the internal service packages; everything here is assembly.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Audit sink: Kafka when brokers are configured, structured log otherwise.
	var recorder audit.Recorder = audit.NewLogRecorder(log)
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := auditpublisher.NewKafka(cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			log.Error("kafka audit publisher unavailable", "error", err)
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := kafka.Close(closeCtx); err != nil {
				log.Warn("kafka audit publisher close failed", "error", err)
			}
		}()
		recorder = kafka
	}

	var (
		nations     directoryservice.NationStore
		authorities directoryservice.AuthorityStore
		schemas     schemastore.Store
		requests    requestservice.RequestStore
		responses   requestservice.ResponseStore
		documents   requestservice.DocumentStore
		metadata    requestservice.MetadataStore
	)

	if cfg.PostgresURL != "" {
		codec, err := fieldcodec.NewFromBase64(cfg.EncryptionMasterKey)
		if err != nil {
			log.Error("field encryption key unusable", "error", err)
			os.Exit(1)
		}

		pool, err := postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		nations = nationstore.NewPostgres(pool)
		authorities = authoritystore.NewPostgres(pool)
		schemas = schemastore.NewPostgres(pool)
		requests = requeststore.NewPostgres(pool)
		responses = responsestore.NewPostgres(pool)
		documents = documentstore.NewPostgres(pool, codec)
		metadata = metadatastore.NewPostgres(pool, codec)
	} else {
		log.Info("no postgres url configured, using in-memory stores with demo data")
		nations = nationstore.NewInMemory()
		authorities = authoritystore.NewInMemory()
		schemas = schemastore.NewInMemory()
		requests = requeststore.NewInMemory()
		responses = responsestore.NewInMemory()
		documents = documentstore.NewInMemory()
		metadata = metadatastore.NewInMemory()
	}

	if cfg.RedisURL != "" {
		rdb, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			log.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		schemas = schemastore.NewCached(schemas, rdb.Client, config.SchemaCacheTTL)
	}

	directory := directoryservice.New(nations, authorities,
		directoryservice.WithAuditRecorder(recorder))
	registry := schemaservice.New(schemas,
		schemaservice.WithAuditRecorder(recorder),
		schemaservice.WithMetrics(schemametrics.New()))
	lifecycle := requestservice.New(requests, responses, documents, metadata,
		directory, conversion.NewStrict(schemas),
		requestservice.WithAuditRecorder(recorder),
		requestservice.WithMetrics(requestmetrics.New()))

	if cfg.PostgresURL == "" {
		if err := seed.Demo(ctx, directory, registry, log); err != nil {
			log.Error("demo seed failed", "error", err)
			os.Exit(1)
		}
	}

	httpMetrics := metrics.NewHTTP()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(httpMetrics.Middleware)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.JWTSigningKey, log))
		directoryhandler.New(directory, log).Register(r)
		schemahandler.New(registry, log).Register(r)
		requesthandler.New(lifecycle, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting crossclass", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
