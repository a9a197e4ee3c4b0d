// Package api serves window manager state and commands over HTTP, plus a
// websocket stream of change events.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/wm"
	"github.com/gorilla/mux"
)

const requestTimeout = 5 * time.Second

// Controller is the part of the event loop the API drives.
type Controller interface {
	Snapshot(ctx context.Context) (wm.Snapshot, error)
	Command(ctx context.Context, text string) error
	Do(ctx context.Context, fn func(m *wm.Manager) error) error
	Subscribe(buffer int) (<-chan wm.Event, func())
}

// Server is the HTTP API.
type Server struct {
	server   *http.Server
	ctrl     Controller
	listener net.Listener
}

type commandRequest struct {
	Command string `json:"command"`
}

type errorBody struct {
	Error string `json:"error"`
}

func jsonResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if status >= 400 {
		log.Printf("API: %d %s %s", status, r.Method, r.URL.Path)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	jsonResponse(w, r, statusFor(err), errorBody{Error: err.Error()})
}

// statusFor maps manager errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, wm.ErrUnknownWindow):
		return http.StatusNotFound
	case errors.Is(err, wm.ErrUnknownCommand), errors.Is(err, wm.ErrInvalidWorkspace):
		return http.StatusUnprocessableEntity
	case errors.Is(err, wm.ErrNoFocus):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusServiceUnavailable
	}
}

// NewServer builds the API. listenAddr is used by Start.
func NewServer(ctrl Controller, listenAddr string) *Server {
	s := &Server{ctrl: ctrl}
	s.server = &http.Server{
		Addr:              listenAddr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/workspaces/", s.handleWorkspaces).Methods("GET")
	router.HandleFunc("/windows/", s.handleWindows).Methods("GET")
	router.HandleFunc("/windows/{id:[0-9]+}", s.handleWindow).Methods("GET", "DELETE")
	router.HandleFunc("/windows/{id:[0-9]+}/focus", s.handleFocus).Methods("POST")
	router.HandleFunc("/commands", s.handleCommand).Methods("POST")
	router.HandleFunc("/events", s.handleEvents).Methods("GET")

	router.PathPrefix("/").Handler(http.NotFoundHandler())
	return router
}

func windowID(r *http.Request) (platform.WindowID, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, false
	}
	return platform.WindowID(id), true
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (wm.Snapshot, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	snap, err := s.ctrl.Snapshot(ctx)
	if err != nil {
		errorResponse(w, r, err)
		return wm.Snapshot{}, false
	}
	return snap, true
}

func (s *Server) handleWorkspaces(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]interface{}{
		"active": snap.Active,
		"area":   snap.Area,
		"items":  snap.Workspaces,
	})
}

func (s *Server) handleWindows(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	items := []wm.WindowSnapshot{}
	for _, ws := range snap.Workspaces {
		items = append(items, ws.Windows...)
	}
	jsonResponse(w, r, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	id, ok := windowID(r)
	if !ok {
		jsonResponse(w, r, http.StatusNotFound, nil)
		return
	}

	if r.Method == http.MethodDelete {
		s.do(w, r, func(m *wm.Manager) error {
			return m.CloseWindow(id)
		})
		return
	}

	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	win, found := snap.Window(id)
	if !found {
		jsonResponse(w, r, http.StatusNotFound, errorBody{Error: wm.ErrUnknownWindow.Error()})
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]interface{}{
		"item": win,
	})
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	id, ok := windowID(r)
	if !ok {
		jsonResponse(w, r, http.StatusNotFound, nil)
		return
	}
	s.do(w, r, func(m *wm.Manager) error {
		return m.FocusWindow(id)
	})
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Command == "" {
		jsonResponse(w, r, http.StatusBadRequest, errorBody{Error: "body must be {\"command\": \"...\"}"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := s.ctrl.Command(ctx, req.Command); err != nil {
		errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) do(w http.ResponseWriter, r *http.Request, fn func(m *wm.Manager) error) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := s.ctrl.Do(ctx, fn); err != nil {
		errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.listener = listener
	log.Printf("API listening on http://%s", listener.Addr())

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("API server error: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
