package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	personachat "github.com/cultureweave/personachat"
	"github.com/cultureweave/personachat/channel/httpapi"
	"github.com/cultureweave/personachat/persona"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "personachatd exited with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := personachat.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	reg := persona.NewRegistry()
	if cfg.PersonaPack != "" {
		pack, err := persona.LoadPack(cfg.PersonaPack)
		if err != nil {
			return err
		}
		reg.Apply(pack)
		log.Info().Str("path", cfg.PersonaPack).Msg("persona pack applied")
	}

	engine := buildEngine(cfg, log)

	// A load failure must not kill the process: keep serving and report
	// unhealthy until a reload succeeds.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Engine.Timeout)
	if err := engine.Load(loadCtx); err != nil {
		log.Error().Err(err).Msg("engine load failed, serving unhealthy")
	}
	cancelLoad()
	defer engine.Unload()
	personachat.EngineReady.Set(boolToGauge(engine.Ready()))

	responder := personachat.NewResponder(engine, reg, log, personachat.ResponderConfig{
		GenerationTimeout: cfg.GenerationTimeout,
		MaxConcurrent:     cfg.MaxConcurrent,
	})

	var history personachat.HistoryStore = personachat.NewInMemoryHistoryStore()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		history = personachat.NewRedisHistoryStore(client, personachat.RedisHistoryConfig{TTL: cfg.Redis.TTL})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("session history backed by redis")
	}

	api := httpapi.NewServer(responder, reg, history, log)

	c := cron.New()
	if _, err := c.AddFunc("@every 30s", func() {
		personachat.EngineReady.Set(boolToGauge(engine.Ready()))
	}); err != nil {
		return fmt.Errorf("schedule health probe: %w", err)
	}
	c.Start()
	defer c.Stop()

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if listenErr := httpServer.ListenAndServe(); listenErr != nil && !errors.Is(listenErr, http.ErrServerClosed) {
			errCh <- listenErr
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func buildEngine(cfg *personachat.Config, log zerolog.Logger) personachat.Engine {
	switch cfg.Engine.Backend {
	case "hosted":
		return personachat.NewHostedEngine(personachat.HostedEngineConfig{
			BaseURL: cfg.Engine.URL,
			APIKey:  cfg.Engine.APIKey,
			Model:   cfg.Engine.Model,
			Timeout: cfg.Engine.Timeout,
		}, log)
	default:
		return personachat.NewLlamaEngine(personachat.LlamaEngineConfig{
			BaseURL: cfg.Engine.URL,
			Model:   cfg.Engine.Model,
			Device:  cfg.Engine.Device,
			Timeout: cfg.Engine.Timeout,
		}, log)
	}
}

func boolToGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
