package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Wyydra/confbridge/internal/adapter/driven/gateway"
	"github.com/Wyydra/confbridge/internal/adapter/driven/gateway/mqtt"
	"github.com/Wyydra/confbridge/internal/adapter/driven/gateway/ws"
	repo "github.com/Wyydra/confbridge/internal/adapter/driven/persistence/memory"
	"github.com/Wyydra/confbridge/internal/adapter/driven/telephony/memory"
	"github.com/Wyydra/confbridge/internal/adapter/driven/telephony/twilio"
	"github.com/Wyydra/confbridge/internal/adapter/driven/token"
	handler "github.com/Wyydra/confbridge/internal/adapter/driving/http"
	"github.com/Wyydra/confbridge/internal/config"
	"github.com/Wyydra/confbridge/internal/core/domain"
	"github.com/Wyydra/confbridge/internal/core/port"
	"github.com/Wyydra/confbridge/internal/core/service"
	"github.com/Wyydra/confbridge/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	setupLogger(cfg.Log)

	m := metrics.New(metrics.DefaultNamespace)
	hub := ws.NewHub(m)
	campaigns := repo.NewCampaignRepository(repo.DefaultRetention)
	telephony := newTelephony(cfg.Provider)

	sinks := []port.EventPublisher{hub}
	if cfg.MQTT.Enabled {
		mq, err := mqtt.NewPublisher(mqtt.Options{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			TopicPrefix: cfg.MQTT.TopicPrefix,
			QoS:         byte(cfg.MQTT.QoS),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MQTT")
		}
		defer mq.Close()
		log.Info().Str("broker", cfg.MQTT.Broker).Msg("Mirroring events to MQTT")
		sinks = append(sinks, mq)
	}
	publisher := gateway.NewFanout(sinks...)

	namer := service.NewNamer()
	room := domain.ConferenceName(cfg.Conference.Name)
	directory := service.NewDirectory(telephony, cfg.Conference.ResolveInterval, cfg.Conference.ResolveAttempts)
	dispatcher := service.NewDispatcher(service.DispatcherConfig{
		From:      cfg.Provider.CallerID,
		VoiceURL:  cfg.Server.VoiceURL(),
		StatusURL: cfg.Server.StatusURL(),
		Limit:     cfg.Conference.DispatchLimit,
	}, telephony, campaigns).WithRecorder(m)

	orchestrator := service.NewOrchestrator(service.OrchestratorConfig{
		HostIdentity:   cfg.Conference.HostIdentity,
		Room:           room,
		Participants:   cfg.Participants,
		Greeting:       cfg.Conference.Greeting,
		PauseSeconds:   cfg.Conference.PauseSeconds,
		PublishTimeout: cfg.Conference.PublishTimeout,
	}, namer, dispatcher, directory, publisher)

	issuer := token.NewIssuer(token.Config{
		AccountSID:     cfg.Provider.AccountSID,
		APIKey:         cfg.Provider.APIKey,
		APISecret:      cfg.Provider.APISecret,
		ApplicationSID: cfg.Provider.TwimlAppSID,
		TTL:            cfg.Token.TTL,
	})

	conferences := service.NewConferenceService(service.ConferenceConfig{
		HostIdentity: cfg.Conference.HostIdentity,
		Room:         room,
		Participants: cfg.Participants,
	}, telephony, directory, dispatcher, namer, campaigns, issuer)

	h := handler.NewHandler(orchestrator, conferences, hub, m, cfg.Server.AllowedOrigins)
	r := h.NewRouter()

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("base_url", cfg.Server.BaseURL).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := orchestrator.Drain(ctx); err != nil {
		log.Warn().Err(err).Msg("Dropped pending events")
	}

	hub.Stop()
	log.Info().Msg("Server exited")
}

func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var w io.Writer = os.Stdout
	if cfg.Console {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Caller().Logger()
}

func newTelephony(cfg config.ProviderConfig) port.Telephony {
	if cfg.Kind == config.ProviderMemory {
		log.Warn().Msg("Using in-memory telephony provider, no real calls will be placed")
		return memory.NewProvider()
	}
	return twilio.NewClient(twilio.Credentials{
		AccountSID: cfg.AccountSID,
		APIKey:     cfg.APIKey,
		APISecret:  cfg.APISecret,
	})
}
