package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kairos-voice/internal/auth"
	"kairos-voice/internal/booking"
	"kairos-voice/internal/calendar"
	"kairos-voice/internal/calls"
	"kairos-voice/internal/config"
	"kairos-voice/internal/conversation"
	"kairos-voice/internal/directory"
	"kairos-voice/internal/llm"
	"kairos-voice/internal/session"
	"kairos-voice/internal/speech"
	"kairos-voice/internal/telephony"
	"kairos-voice/pkg/logger"
	"kairos-voice/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	var businesses directory.Repository = directory.NewPostgresRepo(db)
	if cfg.RedisEnabled() {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		businesses = directory.NewCachedRepo(businesses, rdb, 5*time.Minute, log)
	}
	appointments := booking.NewPostgresRepo(db)

	store := session.NewStore(cfg.Session.IdleTTL)
	go store.RunSweeper(rootCtx, time.Minute)

	completer := llm.NewGroqClient(cfg.LLM.GroqAPIKey, cfg.LLM.Model)

	var synth speech.Synthesizer = speech.Disabled{}
	if cfg.Speech.ElevenLabsAPIKey != "" {
		el, err := speech.NewElevenLabs(cfg.Speech.ElevenLabsAPIKey, cfg.Speech.VoiceID, cfg.Speech.AudioDir, cfg.App.PublicBaseURL)
		if err != nil {
			log.Error("speech init failed", "err", err)
			os.Exit(1)
		}
		synth = el
	}

	var cal conversation.CalendarNotifier
	if cfg.Calendar.WebhookURL != "" {
		cal = calendar.NewNotifier(cfg.Calendar.WebhookURL, cfg.LocalZone())
	}

	turns := conversation.NewService(store, completer, appointments, cal, log)

	caller := telephony.NewTwilioCaller(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken)
	initiator := calls.NewInitiator(store, businesses, caller, synth,
		cfg.App.PublicBaseURL, cfg.Twilio.Number, cfg.LocalZone(), log)

	webhooks := telephony.WebhookHandler{
		Turns:           turns,
		Speech:          synth,
		GatherActionURL: cfg.App.PublicBaseURL + "/twiml/turn",
		Language:        cfg.Speech.Language,
		Voice:           cfg.Speech.Voice,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, routeDeps{
		Webhooks:  webhooks,
		Initiator: initiator,
		AuthMW:    auth.RequireAccessToken(authManager),
		AudioDir:  cfg.Speech.AudioDir,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
