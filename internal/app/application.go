package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"corkboard/internal/api"
	"corkboard/internal/config"
	"corkboard/internal/files"
	"corkboard/internal/router"
	"corkboard/internal/store"
	"corkboard/internal/websocket"
)

// Application wires the store, router, transport, and HTTP surface together
// and owns their lifecycle.
type Application struct {
	config     *config.Config
	store      *store.Store
	registry   *websocket.Registry
	ingestor   *files.Ingestor
	router     *router.Router
	wsHandler  *websocket.Handler
	httpServer *http.Server
}

// NewApplication assembles the system from configuration. Construction
// fails fast on invalid configuration or an unusable content directory.
func NewApplication(cfg *config.Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var st *store.Store
	if cfg.Files.Seed {
		st = store.NewSeeded()
	} else {
		st = store.New()
	}

	registry := websocket.NewRegistry()

	ingestor, err := files.NewIngestor(st, cfg.Files.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingestor: %w", err)
	}

	eventRouter := router.NewRouter(st, registry, ingestor)

	wsHandler := websocket.NewHandler(registry, eventRouter, websocket.Options{
		PingInterval: cfg.WebSocket.PingInterval,
		ReadTimeout:  cfg.WebSocket.ReadTimeout,
		WriteTimeout: cfg.WebSocket.WriteTimeout,
		BufferSize:   cfg.WebSocket.BufferSize,
	})

	apiServer := api.NewServer(ingestor, registry, cfg.Files.ContentDir, cfg.Files.MaxUploadSize, wsHandler.HandleWebSocket)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      apiServer,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return &Application{
		config:     cfg,
		store:      st,
		registry:   registry,
		ingestor:   ingestor,
		router:     eventRouter,
		wsHandler:  wsHandler,
		httpServer: httpServer,
	}, nil
}

// Start begins serving. It returns once the listener is up or fails
// immediately if the port cannot be bound.
func (a *Application) Start(ctx context.Context) error {
	log.Printf("Starting server on %s (%d messages loaded)", a.httpServer.Addr, a.store.Len())

	serverErrCh := make(chan error, 1)
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	// Give the listener a moment to fail on bind errors.
	select {
	case err := <-serverErrCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-time.After(100 * time.Millisecond):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop shuts the HTTP server down gracefully, then closes every live
// WebSocket connection.
func (a *Application) Stop(ctx context.Context) error {
	log.Printf("Shutting down server")

	if err := a.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	a.registry.CloseAll()

	log.Printf("Shutdown complete")
	return nil
}

// GetAddr returns the address the server listens on.
func (a *Application) GetAddr() string {
	return a.httpServer.Addr
}
