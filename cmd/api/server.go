package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dompet_api/internal/api/handlers/transactions"
	"dompet_api/internal/api/handlers/wallet"
	mw "dompet_api/internal/api/middlewares"
	"dompet_api/internal/api/routers"
	"dompet_api/internal/config"
	"dompet_api/internal/repositories/events"
	"dompet_api/internal/repositories/memstore"
	"dompet_api/internal/repositories/sqlconnect"
	"dompet_api/internal/services"
	"dompet_api/pkg/cron"
	"dompet_api/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type backend interface {
	services.Store
	services.LedgerReader
	services.UserDirectory
	Ping(ctx context.Context) error
}

func main() {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Info("No .env file found, reading configuration from the environment")
	}

	cfg, err := config.Load()
	if err != nil {
		utils.Logger.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.Env, cfg.LogLevel)

	if cfg.JWTSecret == "" {
		utils.Logger.Fatal("JWT_SECRET must be set")
	}

	ctx := context.Background()

	var (
		store   backend
		closers []func() error
	)
	switch cfg.DB.Driver {
	case "memory":
		utils.Logger.Warn("Using in-memory store; data is lost on restart")
		store = memstore.New()
	default:
		db, err := sqlconnect.Open(ctx, cfg)
		if err != nil {
			utils.Logger.Fatal("DB connection failed: ", err)
		}
		closers = append(closers, db.Close)

		if cfg.DB.RunMigrations {
			if err := sqlconnect.Migrate(ctx, db, cfg.DB.Name); err != nil {
				utils.Logger.Fatal("DB migration failed: ", err)
			}
		}
		store = sqlconnect.NewStore(db)
	}

	var notifiers []services.TransferNotifier
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			utils.Logger.Warnf("Redis unreachable at %s, transfer events disabled: %v", cfg.Redis.Addr, err)
			rdb.Close()
		} else {
			closers = append(closers, rdb.Close)
			notifiers = append(notifiers, events.NewTransferEventPublisher(rdb))
		}
	}

	mailer := &utils.Mailer{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}
	if mailer.Enabled() {
		notifiers = append(notifiers, services.NewReceiptNotifier(store, mailer))
	}

	svc := services.NewTransferService(store, store, services.TransferConfig{
		OutCategoryID: cfg.Transfer.OutCategoryID,
		InCategoryID:  cfg.Transfer.InCategoryID,
	}, services.WithNotifiers(notifiers...))

	router := routers.MainRouter(routers.Handlers{
		Wallet:       wallet.NewHandler(svc),
		Transactions: transactions.NewHandler(svc),
		Store:        store,
	})
	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware(cfg.JWTSecret), routers.PublicPaths...)
	secureMux := mw.RequestLogger(jwtMiddleware(mw.SecurityHeaders(router)))

	scheduler, err := cron.StartCronJob(cfg.ReconcileSchedule, store)
	if err != nil {
		utils.Logger.Fatal(err)
	}

	server := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           secureMux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      wallet.TransferTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	go func() {
		utils.Logger.Infof("Server is running on port %s", cfg.Server.Port)
		var err error
		if cfg.TLSEnabled() {
			err = server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal("Error starting the server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.Logger.Errorf("Server shutdown failed: %v", err)
	}
	<-scheduler.Stop().Done()
	svc.Wait()

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			utils.Logger.Errorf("Failed to close resource: %v", err)
		}
	}
	utils.Logger.Info("Server stopped")
}
