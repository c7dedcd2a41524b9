package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/folgplaces/standardizer/internal/engine"
	"github.com/folgplaces/standardizer/internal/web/handlers"
	"github.com/folgplaces/standardizer/internal/web/middleware"
)

// Server represents the web server.
type Server struct {
	config     *Config
	engine     *engine.Engine
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a new web server instance wired to an already
// initialized Engine -- route setup, not engine construction, is this
// package's job.
func NewServer(config *Config, eng *engine.Engine) *Server {
	server := &Server{config: config, engine: eng}
	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	standardizeHandler := &handlers.StandardizeHandler{Engine: s.engine}
	placesHandler := &handlers.PlacesHandler{Engine: s.engine}

	s.router.HandleFunc("/standardize/{text}", standardizeHandler.Standardize).Methods("GET")
	s.router.HandleFunc("/places/{id:[0-9]+}", placesHandler.GetPlace).Methods("GET")
	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")

	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestLogging())

	if s.config.Auth.Enabled {
		s.router.Use(middleware.Authentication(s.config.Auth.APIKey))
	}
}

// Start runs the HTTP server until interrupted, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		fmt.Printf("Starting server on http://%s\n", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server error: %v\n", err)
		}
	}()

	<-stop
	fmt.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("Server shutdown error: %v\n", err)
	}

	fmt.Println("Server stopped")
	return nil
}
