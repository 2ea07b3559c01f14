// Package server exposes automated matches over a read-only REST API and a
// live websocket spectator feed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/matryer/way"
	"github.com/rs/zerolog"

	"github.com/colorwargame/colorwar/internal/archive"
	"github.com/colorwargame/colorwar/internal/common"
	"github.com/colorwargame/colorwar/internal/config"
	"github.com/colorwargame/colorwar/internal/game/core"
	"github.com/colorwargame/colorwar/internal/game/events"
	"github.com/colorwargame/colorwar/internal/monitoring"
)

// Server wires the match manager, the spectator hub, and the archive behind
// one HTTP listener.
type Server struct {
	cfg     *config.Config
	logger  zerolog.Logger
	hub     *Hub
	manager *Manager
	store   *archive.Store // nil when archiving is disabled
	monitor *monitoring.Monitor
	router  *way.Router
	http    *http.Server
}

// New builds a server from the loaded configuration. The archive store is
// opened here when enabled so that a bad path fails fast at startup.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	serverLogger := logger.With().Str("component", "match_server").Logger()

	var (
		store    *archive.Store
		recorder events.Subscriber
	)
	if cfg.Archive.Enabled {
		s, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return nil, fmt.Errorf("open archive: %w", err)
		}
		store = s
		recorder = archive.NewRecorder(s, logger)
	}

	hub := NewHub(logger)
	s := &Server{
		cfg:     cfg,
		logger:  serverLogger,
		hub:     hub,
		manager: NewManager(cfg.Server, cfg.Sim, hub, recorder, logger),
		store:   store,
		monitor: monitoring.NewMonitor(logger),
	}
	s.routes()
	s.http = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("POST", "/api/matches", s.handleCreateMatch)
	s.router.HandleFunc("GET", "/api/matches", s.handleListMatches)
	s.router.HandleFunc("GET", "/api/matches/:id", s.handleGetMatch)
	s.router.HandleFunc("GET", "/api/matches/:id/live", s.handleLiveMatch)
	s.router.HandleFunc("GET", "/api/archive/recent", s.handleRecentMatches)
	s.router.HandleFunc("GET", "/api/archive/standings", s.handleStandings)
	s.router.HandleFunc("GET", "/healthz", s.handleHealth)
}

// Run serves until ctx is cancelled, then shuts everything down in order:
// HTTP listener, playouts, monitor, archive.
func (s *Server) Run(ctx context.Context) error {
	s.monitor.Start()
	go s.hub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("Match server listening")
		err := s.http.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(s.cfg.Server.GracefulShutdownDelay)*time.Second)
		defer cancel()
		s.logger.Info().Msg("Shutting down match server")
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP shutdown failed")
		}
		runErr = <-errCh
	}

	s.manager.Stop()
	s.monitor.Stop()
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Archive close failed")
		}
	}
	return runErr
}

type createMatchRequest struct {
	Colors []string `json:"colors"`
	Seed   int64    `json:"seed"`
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Colors) == 0 {
		req.Colors = []string{"red", "green"}
	}

	colors, err := common.ParseColors(req.Colors)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.manager.StartMatch(colors, req.Seed)
	switch {
	case err == nil:
	case errors.Is(err, ErrServerFull):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, core.ErrInvalidPlayerCount), errors.Is(err, core.ErrDuplicateColor):
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	default:
		s.logger.Error().Err(err).Msg("Match start failed")
		s.writeError(w, http.StatusInternalServerError, "could not start match")
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.manager.List())
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id := way.Param(r.Context(), "id")
	snapshot, phase, err := s.manager.Snapshot(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"phase":    phase.String(),
		"snapshot": snapshot,
	})
}

func (s *Server) handleLiveMatch(w http.ResponseWriter, r *http.Request) {
	id := way.Param(r.Context(), "id")
	if !s.manager.Exists(id) {
		s.writeError(w, http.StatusNotFound, "match not found")
		return
	}
	s.hub.ServeWS(w, r, id)
}

func (s *Server) handleRecentMatches(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "archive is disabled")
		return
	}

	limit := s.cfg.Archive.RecentLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.store.RecentMatches(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Archive query failed")
		s.writeError(w, http.StatusInternalServerError, "archive query failed")
		return
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "archive is disabled")
		return
	}

	standings, err := s.store.Standings(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Archive query failed")
		s.writeError(w, http.StatusInternalServerError, "archive query failed")
		return
	}
	s.writeJSON(w, http.StatusOK, standings)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"matches":    s.manager.Count(),
		"goroutines": s.monitor.Snapshot(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("Response encoding failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
