// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"apartmentiq-workers/internal/analytics"
	awsclient "apartmentiq-workers/internal/common/aws"
	"apartmentiq-workers/internal/common/camunda"
	"apartmentiq-workers/internal/common/config"
	"apartmentiq-workers/internal/common/database"
	"apartmentiq-workers/internal/common/health"
	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/common/observability"
	"apartmentiq-workers/internal/leaseintel"
	"apartmentiq-workers/internal/paywall"
	"apartmentiq-workers/internal/pricing"
	"apartmentiq-workers/internal/renterintel"
	"apartmentiq-workers/internal/trial"

	// Paywall Workers (6)
	ap "apartmentiq-workers/internal/workers/paywall/activate-plan"
	cfa "apartmentiq-workers/internal/workers/paywall/check-feature-access"
	gas "apartmentiq-workers/internal/workers/paywall/get-access-status"
	rps "apartmentiq-workers/internal/workers/paywall/reset-paywall-state"
	tpv "apartmentiq-workers/internal/workers/paywall/track-property-view"
	up "apartmentiq-workers/internal/workers/paywall/unlock-property"

	// Lease Intelligence Workers (2)
	fli "apartmentiq-workers/internal/workers/lease-intel/fetch-lease-intel"
	sld "apartmentiq-workers/internal/workers/lease-intel/score-lease-deal"

	// Pricing, Renter & Trial Workers (3)
	gpr "apartmentiq-workers/internal/workers/pricing/generate-pricing-recommendations"
	ard "apartmentiq-workers/internal/workers/renter/analyze-renter-deals"
	mt "apartmentiq-workers/internal/workers/trial/manage-trial"

	// Subscription Workers (1)
	vs "apartmentiq-workers/internal/workers/subscription/validate-subscription"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("Starting worker manager...", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()
	if err := obs.EnableTracing(cfg.App.Name, cfg.Observability.JaegerEndpoint, cfg.Observability.SampleRatio); err != nil {
		log.Warn("tracing disabled", map[string]interface{}{"error": err.Error()})
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("Zeebe client connected successfully", nil)

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("postgres schema setup failed", zap.Error(err))
	}
	log.Info("PostgreSQL connected successfully", nil)

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	log.Info("Redis connected successfully", nil)

	checks := map[string]health.Check{
		"postgres": pg.Ping,
		"redis":    rdb.Ping,
		"zeebe":    zeebe.HealthCheck,
	}

	// --- Lease intelligence source ---
	var source leaseintel.Source
	switch cfg.LeaseIntel.Source {
	case "elasticsearch":
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, log, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		source = leaseintel.NewElasticsearchSource(esClient.Client, cfg.LeaseIntel.Index)
		checks["elasticsearch"] = func(context.Context) error { return esClient.Ping() }
		log.Info("Elasticsearch connected successfully", nil)
	default:
		source = leaseintel.NewHTTPSource(cfg.LeaseIntel.BaseURL, config.GetDuration(cfg.LeaseIntel.Timeout), nil)
	}

	// --- AWS clients ---
	var sink analytics.Sink = analytics.NoopSink{}
	if cfg.Analytics.Enabled {
		snsClient, err := awsclient.NewSNSClient(ctx, cfg.Analytics.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		sink = analytics.NewSNSSink(snsClient, cfg.Analytics.TopicARN)
	}

	var mailer awsclient.SESAPI
	receiptFrom := ""
	if ses := cfg.Notifications.SES; ses.Enabled {
		sesClient, err := awsclient.NewSESClient(ctx, ses.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		mailer = sesClient
		receiptFrom = ses.FromEmail
	}

	log.Info("All external service clients initialized", map[string]interface{}{
		"leaseIntelSource": source.Name(),
		"analytics":        cfg.Analytics.Enabled,
		"receipts":         mailer != nil,
	})

	// --- Shared domain state ---
	paywallStore := paywall.NewRedisStore(rdb.Client, cfg.Paywall.KeyPrefix, time.Duration(cfg.Paywall.StateTTL)*time.Second)
	trialStore := trial.NewRedisStore(rdb.Client, cfg.Trial.KeyPrefix, time.Duration(cfg.Trial.StateTTL)*time.Second)
	pricingEngine := pricing.NewEngine(log)
	renterEngine := renterintel.NewEngine(pricingEngine, log)

	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}
	viewLimit := cfg.Paywall.FreeViewLimit

	// --- Register Workers ---
	registrations := []struct {
		taskType string
		handler  worker.JobHandler
	}{
		{tpv.TaskType, tpv.NewHandler(&tpv.Config{Timeout: timeout(tpv.TaskType), FreeViewLimit: viewLimit}, paywallStore, sink, log).Handle},
		{cfa.TaskType, cfa.NewHandler(&cfa.Config{Timeout: timeout(cfa.TaskType), FreeViewLimit: viewLimit}, paywallStore, sink, log).Handle},
		{up.TaskType, up.NewHandler(&up.Config{Timeout: timeout(up.TaskType), ReceiptFrom: receiptFrom}, pg.DB, paywallStore, mailer, log).Handle},
		{ap.TaskType, ap.NewHandler(&ap.Config{Timeout: timeout(ap.TaskType)}, paywallStore, log).Handle},
		{rps.TaskType, rps.NewHandler(&rps.Config{Timeout: timeout(rps.TaskType)}, paywallStore, log).Handle},
		{gas.TaskType, gas.NewHandler(&gas.Config{Timeout: timeout(gas.TaskType), FreeViewLimit: viewLimit}, paywallStore, log).Handle},
		{fli.TaskType, fli.NewHandler(&fli.Config{Timeout: timeout(fli.TaskType), Concurrency: cfg.LeaseIntel.Concurrency}, source, log).Handle},
		{sld.TaskType, sld.NewHandler(&sld.Config{Timeout: timeout(sld.TaskType)}, log).Handle},
		{gpr.TaskType, gpr.NewHandler(&gpr.Config{Timeout: timeout(gpr.TaskType), MaxListings: gpr.LoadConfig().MaxListings}, pricingEngine, log).Handle},
		{ard.TaskType, ard.NewHandler(&ard.Config{Timeout: timeout(ard.TaskType), MaxListings: ard.LoadConfig().MaxListings}, renterEngine, log).Handle},
		{mt.TaskType, mt.NewHandler(&mt.Config{
			Timeout:    timeout(mt.TaskType),
			Duration:   time.Duration(cfg.Trial.DurationHours) * time.Hour,
			QueryLimit: cfg.Trial.QueryLimit,
		}, trialStore, log).Handle},
		{vs.TaskType, vs.NewHandler(&vs.Config{Timeout: timeout(vs.TaskType), CacheTTL: time.Duration(cfg.Subscription.CacheTTL) * time.Second}, pg.DB, rdb.Client, paywallStore, log).Handle},
	}

	var workers []worker.JobWorker
	for _, reg := range registrations {
		w := camunda.Open(zeebe.GetClient(), reg.taskType, config.GetWorkerConfig(cfg, reg.taskType),
			camunda.Instrument(reg.taskType, reg.handler, obs), log)
		if w != nil {
			workers = append(workers, w)
		}
	}
	log.Info("workers registered", map[string]interface{}{
		"registered": len(registrations),
		"running":    len(workers),
	})

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           health.NewRouter(checks, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"addr": cfg.Server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutdown signal received, stopping workers...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
	}
	for _, w := range workers {
		w.AwaitClose()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping health server", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("Error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Worker manager stopped gracefully", nil)
}
