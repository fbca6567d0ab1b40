// Package server exposes the move service over HTTP and websocket.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"chess-bestmove/service"
)

// NotAvailable is the body of every failed request.
const NotAvailable = "N/A"

// Mover is the part of service.Service the transport needs.
type Mover interface {
	Move(ctx context.Context, fen string, depth int) (service.Reply, error)
	MoveEncoded(ctx context.Context, input string) (service.Reply, error)
}

type Server struct {
	svc      Mover
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func New(svc Mover, log zerolog.Logger) *Server {
	return &Server{
		svc: svc,
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type moveRequest struct {
	FEN   string `json:"fen"`
	Depth int    `json:"depth"`
}

// Routes builds the router with logging, recovery and CORS applied to every route.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(s.log))
	r.Use(requestIDLogger)
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors)
	r.Use(middleware.Heartbeat("/healthz"))

	r.Post("/fen/*", s.handleFEN)
	r.Post("/api/move", s.handleMove)
	r.Get("/ws", s.handleWS)
	return r
}

// handleFEN answers with the FEN after the engine's move, prefixed with "~" when the
// game is over. The path segment is a base64 FEN, which may itself contain slashes.
func (s *Server) handleFEN(w http.ResponseWriter, r *http.Request) {
	param, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	reply, err := s.svc.MoveEncoded(r.Context(), param)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(reply.Text()))
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload moveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.failJSON(w, r, err)
		return
	}
	fen, err := service.ParseInput(payload.FEN)
	if err != nil {
		s.failJSON(w, r, err)
		return
	}
	reply, err := s.svc.Move(r.Context(), fen, payload.Depth)
	if err != nil {
		s.failJSON(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Warn().Err(err).Msg("move request failed")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(NotAvailable))
}

func (s *Server) failJSON(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Warn().Err(err).Msg("move request failed")
	writeJSON(w, http.StatusNotFound, map[string]string{"error": NotAvailable})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// requestIDLogger adds the chi request id to the request logger.
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
