// Command lockme-relay receives LockMe booking notifications and announces
// new reservations on Discord, at most once per event id.
//
// @title          LockMe → Discord relay
// @version        1.0
// @description    Idempotent webhook relay from LockMe booking notifications to Discord channels.
// @BasePath       /
// @schemes        http https
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/negan-1/lockme-discord-bot/internal/config"
	"github.com/negan-1/lockme-discord-bot/internal/discord"
	httpapi "github.com/negan-1/lockme-discord-bot/internal/http"
	"github.com/negan-1/lockme-discord-bot/internal/lockme"
	"github.com/negan-1/lockme-discord-bot/internal/observability"
	"github.com/negan-1/lockme-discord-bot/internal/repo"
	"github.com/negan-1/lockme-discord-bot/internal/services"
	"github.com/negan-1/lockme-discord-bot/internal/sysutil"
)

var version = "dev"

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	logger := sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, os.Stdout)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.Open(cfg.Store.Driver, storeDSN(cfg.Store))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("open seen store")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate seen store")
	}
	store := repo.NewSeenStore(db, cfg.Store.Timeout)
	if err := store.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("seen store unreachable")
	}
	if n, err := repo.CountSeen(ctx, db); err == nil {
		log.Info().Int64("seen", n).Str("driver", cfg.Store.Driver).Msg("seen store ready")
	}

	if cfg.Discord.Webhook == "" {
		log.Warn().Msg("DISCORD_WEBHOOK is not set; announcements will fail and be alerted nowhere")
	}
	if cfg.LockMe.Token == "" {
		log.Warn().Msg("LOCKME_TOKEN is not set; every event fetch will fail")
	}
	if cfg.WebhookSecret == "" {
		log.Warn().Msg("WEBHOOK_SECRET is not set; the webhook accepts any caller")
	}

	notifier := &services.Notifier{
		Sink: discord.New(cfg.Discord.Timeout, cfg.Discord.RateRPS, cfg.Discord.RateBurst),
		Dest: services.ResolveDestinations(cfg.Discord.WebhookToday, cfg.Discord.Webhook, cfg.Discord.WebhookAlerts),
		Log:  logger.With().Str("component", "notifier").Logger(),
	}
	token := services.NewTokenHealth(notifier, cfg.TokenReminderInterval, cfg.Location,
		logger.With().Str("component", "token_health").Logger())
	relay := &services.Relay{
		Secret:    cfg.WebhookSecret,
		Store:     store,
		Provider:  lockme.New(cfg.LockMe.APIBase, cfg.LockMe.Token, cfg.LockMe.Timeout, token),
		Token:     token,
		Notifier:  notifier,
		Composer:  services.NewComposer(cfg.Rooms, cfg.TodayRoleMention, cfg.MessageLocale),
		Location:  cfg.Location,
		StartedAt: time.Now(),
		Log:       logger.With().Str("component", "relay").Logger(),
	}

	if err := token.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start token reminder")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Services{Relay: relay, Token: token, Tester: notifier}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Str("timezone", cfg.Timezone).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	token.Stop(sctx)
	if err := shutdownOTel(sctx); err != nil {
		log.Warn().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("bye")
}

// storeDSN picks the connection string for the configured driver.
func storeDSN(s config.StoreConfig) string {
	if s.Driver == config.DriverPostgres {
		return s.URL
	}
	return s.Path
}
