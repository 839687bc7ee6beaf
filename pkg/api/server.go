package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/monopoly/pkg/api/handlers"
	"github.com/cbodonnell/monopoly/pkg/api/middleware"
	"github.com/cbodonnell/monopoly/pkg/game"
	"github.com/cbodonnell/monopoly/pkg/log"
	"github.com/cbodonnell/monopoly/pkg/network"
	"github.com/cbodonnell/monopoly/pkg/repositories"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// APIServer serves the read-only status of a match over HTTP.
type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port         int
	TLS          *TLSConfig
	AllowOrigins []string
	MatchID      string
	Game         *game.Game
	Connections  *network.ConnectionManager
	// Repository may be nil, which disables the journal routes
	Repository repositories.Repository
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewHandler(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// NewHandler builds the routes of the API wrapped in CORS handling.
func NewHandler(opts NewAPIServerOptions) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.NewLoggingMiddleware(), middleware.NewMethodMiddleware())
	r.HandleFunc("/match", handlers.HandleGetMatch(opts.MatchID, opts.Game))
	r.HandleFunc("/match/snapshot", handlers.HandleGetSnapshot(opts.Game))
	r.HandleFunc("/connections", handlers.HandleListConnections(opts.Connections))
	r.HandleFunc("/journal", handlers.HandleListJournal(opts.Repository, opts.MatchID))
	r.HandleFunc("/journal/latest", handlers.HandleGetLatestJournalEntry(opts.Repository, opts.MatchID))
	r.HandleFunc("/version", handlers.HandleGetVersion())

	allowOrigins := opts.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	})
	return c.Handler(r)
}

// Start serves until Stop is called.
func (s *APIServer) Start() error {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return nil
		}
		return fmt.Errorf("API server error: %v", err)
	}
	return nil
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
