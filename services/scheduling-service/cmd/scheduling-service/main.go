package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tareq-aziz/slotbook/libs/config"
	"github.com/tareq-aziz/slotbook/libs/db"
	"github.com/tareq-aziz/slotbook/libs/httpx"
	"github.com/tareq-aziz/slotbook/libs/kafkax"
	otelx "github.com/tareq-aziz/slotbook/libs/otel"
	"github.com/tareq-aziz/slotbook/libs/runtime"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/capacity"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/customers"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/handlers"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/horizon"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/ledger"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/outbox"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/storage"
	syncpkg "github.com/tareq-aziz/slotbook/services/scheduling-service/internal/sync"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "scheduling-service")
	port, err := config.Port("PORT", "8084")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	configRepo := storage.NewConfigRepository(pool)
	slotRepo := storage.NewSlotRepository(pool)
	bookingRepo := storage.NewBookingRepository(pool)
	customerRepo := storage.NewCustomerRepository(pool)
	capacityRepo := storage.NewCapacityRepository(pool)
	outboxRepo := outbox.NewRepository()

	syncer := syncpkg.NewSynchronizer(configRepo, slotRepo, logger)
	expander := syncpkg.NewExpander(configRepo, slotRepo, logger)

	localCustomers := customers.NewLocalProvider(customerRepo)
	var customerProvider customers.Provider = localCustomers
	if addr := config.String("DIRECTORY_GRPC_ADDR", ""); addr != "" {
		if p, err := customers.NewDirectoryProvider(addr, localCustomers); err != nil {
			logger.Error("customer directory init failed; using local provider", "err", err)
		} else if p != nil {
			customerProvider = p
		}
	}

	bookingLedger := ledger.New(bookingRepo, slotRepo, customerProvider, outboxRepo, logger)
	capacitySvc := capacity.NewService(capacityRepo, logger)

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: config.Seconds("OUTBOX_POLL_SECONDS", 2*time.Second),
		BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
	})
	go outboxPublisher.Run(ctx)

	horizonWorker := horizon.NewWorker(configRepo, expander, logger,
		config.Seconds("HORIZON_INTERVAL_SECONDS", time.Hour),
		config.Int("HORIZON_DAYS_AHEAD", 30))
	go horizonWorker.Run(ctx)

	availabilityHandler := handlers.NewAvailabilityHandler(configRepo, slotRepo, syncer, expander, outboxRepo, logger)
	bookingHandler := handlers.NewBookingHandler(bookingLedger, bookingRepo, logger)
	capacityHandler := handlers.NewCapacityHandler(capacitySvc, logger)

	var rateLimitMW httpx.Middleware
	limitPerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 60)
	if addr := strings.TrimSpace(config.String("REDIS_ADDR", "")); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0),
		})
		defer func() { _ = rdb.Close() }()

		rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "rl"))
		rateLimitMW = rl.Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true))
		logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute, "redis_addr", addr)
	} else {
		rl := httpx.NewRateLimiter(limitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
	}

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)
	mux.HandleFunc("/api/v1/admin/availability", availabilityHandler.Configs)
	mux.HandleFunc("/api/v1/admin/availability/bulk", availabilityHandler.Bulk)
	mux.HandleFunc("/api/v1/admin/capacity/weekly", capacityHandler.Weekly)
	mux.HandleFunc("/api/v1/admin/capacity/special", capacityHandler.Special)
	mux.HandleFunc("/api/v1/public/slots", availabilityHandler.Slots)
	mux.HandleFunc("/api/v1/public/book", bookingHandler.Create)
	mux.HandleFunc("/api/v1/bookings", bookingHandler.Bookings)
	mux.HandleFunc("/api/v1/capacity", capacityHandler.ForDate)

	httpHandler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   strings.Split(config.String("CORS_ALLOWED_ORIGINS", ""), ","),
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "X-Request-Id", "X-Tenant-Id"},
			AllowCredentials: false,
			MaxAge:           10 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		rateLimitMW,
		httpx.WithBodyLimit(1<<20),
		httpx.WithTimeout(config.Seconds("REQUEST_TIMEOUT_SECONDS", 10*time.Second)),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "scheduling")

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
