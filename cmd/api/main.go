package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/config"
	"github.com/reelboost/reelboost-api/internal/domain/admin"
	"github.com/reelboost/reelboost-api/internal/domain/auth"
	"github.com/reelboost/reelboost-api/internal/domain/catalog"
	"github.com/reelboost/reelboost-api/internal/domain/order"
	"github.com/reelboost/reelboost-api/internal/domain/referral"
	"github.com/reelboost/reelboost-api/internal/domain/reseller"
	"github.com/reelboost/reelboost-api/internal/domain/user"
	"github.com/reelboost/reelboost-api/internal/domain/wallet"
	"github.com/reelboost/reelboost-api/internal/middleware"
	"github.com/reelboost/reelboost-api/internal/pkg/database"
	"github.com/reelboost/reelboost-api/internal/pkg/jwt"
	pkgresponse "github.com/reelboost/reelboost-api/internal/pkg/response"
	"github.com/reelboost/reelboost-api/internal/pkg/storage"
	"github.com/reelboost/reelboost-api/internal/store/memory"
	"github.com/reelboost/reelboost-api/internal/ws"
)

type stores struct {
	users     user.Store
	catalog   catalog.Store
	orders    order.Store
	wallet    wallet.Store
	referrals referral.Store
	tokens    auth.TokenStore
}

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("storage", cfg.StorageDriver).
		Msg("Starting ReelBoost API")

	var st stores
	if cfg.UseMemoryStore() {
		mem := memory.NewStore()
		st = stores{
			users:     mem.Users(),
			catalog:   mem.Services(),
			orders:    mem.Orders(),
			wallet:    mem.Wallet(),
			referrals: mem.Referrals(),
			tokens:    mem.Tokens(),
		}
	} else {
		db, err := database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer database.ClosePostgres(db)

		st = stores{
			users:     user.NewRepository(db),
			catalog:   catalog.NewRepository(db),
			orders:    order.NewRepository(db),
			wallet:    wallet.NewRepository(db),
			referrals: referral.NewRepository(db),
			tokens:    auth.NewTokenRepository(db),
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		var err error
		rdb, err = database.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer database.CloseRedis(rdb)
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	screenshots := newScreenshotStorage(cfg)

	commissionRate, err := decimal.NewFromString(cfg.ReferralCommissionRate)
	if err != nil {
		log.Fatal().Err(err).Str("rate", cfg.ReferralCommissionRate).Msg("Invalid REFERRAL_COMMISSION_RATE")
	}

	// ---------- Hub ----------
	hub := ws.NewHub(jwtService)

	// ---------- Services ----------
	catalogCache := catalog.NewCache(rdb, cfg.CatalogCacheTTL)
	catalogMgr := catalog.NewManager(st.catalog, catalogCache)
	walletSvc := wallet.NewService(st.wallet, hub)
	orderSvc := order.NewService(st.orders, st.catalog, hub, order.Config{
		ConsentVersion: cfg.ConsentVersion,
		CommissionRate: commissionRate,
	})
	referralSvc := referral.NewService(st.referrals, st.users)
	authSvc := auth.NewService(st.users, st.tokens, st.referrals, jwtService)
	adminSvc := admin.NewService(st.users, catalogMgr, st.orders, walletSvc, hub)

	// ---------- Fulfillment ----------
	fulfiller := order.NewFulfiller(st.orders, hub, order.FulfillerConfig{
		Interval:        cfg.FulfillmentInterval,
		ProcessingDelay: cfg.OrderProcessingDelay,
		CompletionDelay: cfg.OrderCompletionDelay,
	})
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go fulfiller.Run(workerCtx)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authSvc)
	catalogHandler := catalog.NewHandler(catalogMgr)
	orderHandler := order.NewHandler(orderSvc)
	walletHandler := wallet.NewHandler(walletSvc, screenshots)
	referralHandler := referral.NewHandler(referralSvc)
	adminHandler := admin.NewHandler(adminSvc)
	resellerHandler := reseller.NewHandler(catalogMgr, orderSvc, st.users)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{"status": "ok"})
	})

	r.Get("/ws", hub.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/services", catalogHandler.Routes(authMiddleware))
		r.Mount("/orders", orderHandler.Routes(authMiddleware))
		r.Mount("/wallet", walletHandler.Routes(authMiddleware))
		r.Mount("/referrals", referralHandler.Routes(authMiddleware))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/transactions", walletHandler.Transactions)
			r.Get("/analytics/user", orderHandler.UserAnalytics)
		})

		r.Mount("/admin", adminHandler.Routes(authMiddleware, middleware.RequireAdmin()))
	})

	r.Mount("/reseller", resellerHandler.Routes())

	// ---------- Server ----------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Server stopped")
}

func newScreenshotStorage(cfg *config.Config) storage.Storage {
	if cfg.R2AccountID != "" && cfg.R2AccessKeyID != "" {
		s, err := storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create R2 storage")
		}
		return s
	}

	s, err := storage.NewLocalStorage(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create local storage")
	}
	log.Info().Str("dir", cfg.UploadDir).Msg("Using local screenshot storage")
	return s
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
