package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"gopkg.in/natefinch/lumberjack.v2"

	"subresolver/api"
	"subresolver/config"
	"subresolver/handlers"
	"subresolver/internal/archive"
	"subresolver/services/provider"
	"subresolver/services/subtitles"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("subresolver starting...")

	configPath := os.Getenv("SUBRESOLVER_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	// Creates defaults if missing
	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	log.Printf("[config] settings loaded from %s", cfgManager.Path())

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	providerManager := provider.NewManager(provider.Options{
		BaseURL:           settings.Provider.BaseURL,
		UserAgent:         settings.Provider.UserAgent,
		RequestsPerSecond: settings.Provider.RequestsPerSecond,
		Burst:             settings.Provider.Burst,
		MaxRetries:        settings.Provider.MaxRetries,
		Timeout:           settings.Provider.Timeout(),
	}, settings.Cache.ClientMaxEntries, nil)

	subtitlesService := subtitles.NewService(providerManager, providerManager, archive.NewLister(), subtitles.Options{
		TopN:                   settings.Resolution.TopN,
		MatchStrategy:          settings.Resolution.MatchStrategy,
		ResolutionTimeout:      settings.Resolution.Timeout(),
		ResponseTTL:            settings.Cache.ResponseTTL(),
		EmptyResponseTTL:       settings.Cache.EmptyResponseTTL(),
		ResponseMaxEntries:     settings.Cache.ResponseMaxEntries,
		ArchiveTTL:             settings.Cache.ArchiveTTL(),
		ArchiveMaxEntries:      settings.Cache.ArchiveMaxEntries,
		PageMetadataTTL:        settings.Cache.PageMetadataTTL(),
		PageMetadataMaxEntries: settings.Cache.PageMetadataMaxEntries,
		Debug:                  settings.Log.Debug(),
	})
	log.Printf("[main] resolver configured: topN=%d strategy=%s provider=%s",
		settings.Resolution.TopN, settings.Resolution.MatchStrategy, settings.Provider.BaseURL)

	subtitlesHandler := handlers.NewSubtitlesHandler(subtitlesService, settings.Server.BaseURL)

	r := mux.NewRouter()
	api.Register(r, subtitlesHandler)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: settings.Resolution.Timeout() + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
