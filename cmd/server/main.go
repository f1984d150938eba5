package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcmusabe/blokhut-display/internal/carousel"
	"github.com/mcmusabe/blokhut-display/internal/config"
	"github.com/mcmusabe/blokhut-display/internal/db"
	"github.com/mcmusabe/blokhut-display/internal/handlers"
	"github.com/mcmusabe/blokhut-display/internal/news"
	"github.com/mcmusabe/blokhut-display/internal/render"
	"github.com/mcmusabe/blokhut-display/internal/services"
	logx "github.com/mcmusabe/blokhut-display/pkg/logger"
)

func main() {
	lite := flag.Bool("lite", false, "disable video playback for low-power displays")
	pi := flag.Bool("pi", false, "same as -lite")
	flag.Parse()

	// Load configuration
	cfg := config.LoadConfig()
	logx.Init(logx.LoggerOpts{Environment: cfg.Env()})
	if *lite || *pi {
		cfg.Display.Lite = true
	}

	// Initialize database
	database, err := db.Open(cfg.Data.DBPath)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer database.Close()

	// Initialize stores
	slideStore, err := services.NewSlideStore(cfg.SlidesPath())
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialize slide store")
	}
	configStore := services.NewConfigStore(cfg.SiteConfigPath())
	remoteService := services.NewRemoteService(database)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Display pipeline
	hub := services.NewDisplayHub()
	ctrl := carousel.NewController(hub, carousel.Config{
		Tick:     cfg.Display.ProgressTick,
		Interval: cfg.Display.SlideInterval,
		Render: render.Options{
			Lite:         cfg.Display.Lite,
			AssetBaseURL: cfg.Display.AssetBaseURL,
		},
	})
	hub.SetCommandHandler(ctrl)

	var source carousel.SlideSource = slideStore
	if cfg.Display.SlidesURL != "" {
		source = carousel.NewHTTPSource(cfg.Display.SlidesURL, nil)
	}
	refresher := carousel.NewRefresher(source, ctrl, cfg.Display.ContentRefresh)
	if cfg.Display.SlidesURL == "" {
		// local edits show up without waiting for the next refresh
		slideStore.OnChange(func() {
			refresher.Refresh(ctx)
		})
	}

	// News
	var feedCache news.FeedCache = &news.FileCache{Path: cfg.NewsCachePath()}
	if cfg.Redis.Enabled() {
		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Warn().Err(err).Msg("redis unavailable, caching news on disk")
		} else {
			defer rdb.Close()
			feedCache = news.NewRedisCache(rdb, cfg.News.CacheKey, cfg.News.CacheTTL)
			logx.Info().Str("key", cfg.News.CacheKey).Msg("caching news in redis")
		}
	}
	loc, err := time.LoadLocation(cfg.News.Timezone)
	if err != nil {
		logx.Warn().Err(err).Str("timezone", cfg.News.Timezone).Msg("unknown timezone, using local time")
		loc = time.Local
	}
	newsService := news.NewService(news.Options{
		BridgeURL:  cfg.News.BridgeURL,
		Location:   loc,
		MaxItems:   cfg.News.MaxItems,
		GlyphWidth: cfg.News.GlyphWidth,
	}, feedCache, configStore, hub.PublishNews)

	go hub.Run(ctx.Done())
	go ctrl.Run(ctx)
	go newsService.Run(ctx)
	go func() {
		if err := refresher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logx.Error().Err(err).Msg("carousel halted")
		}
	}()

	// Initialize handlers
	slideHandler := handlers.NewSlideHandler(slideStore)
	configHandler := handlers.NewConfigHandler(configStore)
	displayHandler := handlers.NewDisplayHandler(hub, ctrl, newsService)
	remoteHandler := handlers.NewRemoteHandler(ctrl, remoteService)
	assets := http.FileServer(http.Dir(cfg.Data.Dir))

	if cfg.AdminToken == "" {
		logx.Warn().Msg("ADMIN_TOKEN is empty, admin endpoints are unprotected")
	}

	// Setup routes
	router := handlers.SetupRoutes(slideHandler, configHandler, displayHandler, remoteHandler, assets, cfg.AdminToken)

	// Configure server
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logx.Warn().Err(err).Msg("server shutdown")
		}
	}()

	logx.Info().Bool("lite", cfg.Display.Lite).Str("slides", cfg.SlidesPath()).Msg("display configured")

	// Configure TLS if enabled
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{
			MinVersion: getTLSVersion(cfg.TLS.MinVersion),
		}

		logx.Info().
			Str("addr", cfg.Addr()).
			Str("cert", cfg.TLS.CertFile).
			Str("key", cfg.TLS.KeyFile).
			Str("minVersion", cfg.TLS.MinVersion).
			Msg("starting HTTPS server")
		err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
	} else {
		logx.Info().Str("addr", cfg.Addr()).Msg("starting HTTP server")
		if cfg.Env().IsProduction() {
			logx.Warn().Msg("HTTP mode is not recommended for production")
		}
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logx.Fatal().Err(err).Msg("server stopped")
	}
	logx.Info().Msg("server stopped")
}

// getTLSVersion converts string version to tls.Version constant
func getTLSVersion(version string) uint16 {
	switch version {
	case "1.0":
		return tls.VersionTLS10
	case "1.1":
		return tls.VersionTLS11
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
