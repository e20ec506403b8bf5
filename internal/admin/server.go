package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"groupcmd/internal/command"
	"groupcmd/internal/config"
	"groupcmd/internal/dispatch"
	"groupcmd/internal/logging"
	"groupcmd/internal/queueview"
	"groupcmd/internal/sim"
)

// Server exposes a session over HTTP.
type Server struct {
	Session *sim.Session
	tpl     *template.Template
	log     *slog.Logger
	mux     *http.ServeMux
}

//go:embed templates/index.html
var content embed.FS

// NewServer creates a server over s. A nil log uses slog.Default.
func NewServer(s *sim.Session, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	srv := &Server{Session: s, tpl: tpl, log: log, mux: http.NewServeMux()}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /commands", s.handleCommand)
	s.mux.HandleFunc("POST /select", s.handleSelect)
	s.mux.HandleFunc("GET /units", s.handleUnits)
	s.mux.HandleFunc("GET /queues", s.handleQueues)
	s.mux.HandleFunc("GET /stats", s.handleStats)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start serves on addr until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}()
	s.log.Info("admin listening", "addr", addr)
	return hs.ListenAndServe()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Stats sim.Stats
		Units string
	}{
		Stats: s.Session.Stats(),
		Units: queueview.Text(s.Session.Units()),
	}
	if err := s.tpl.Execute(w, data); err != nil {
		s.log.Warn("render index", "err", err)
	}
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var st config.Step
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ctx := logging.NewContext(r.Context(), s.log)
	if err := s.Session.Step(ctx, st); err != nil {
		status := http.StatusBadRequest
		if !isClientError(err) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Session.Stats())
}

// isClientError reports whether err stems from the request itself.
func isClientError(err error) bool {
	return errors.Is(err, command.ErrBadParams) ||
		errors.Is(err, command.ErrUnknownName) ||
		errors.Is(err, dispatch.ErrUnknownPlayer)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var sel config.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.Session.Select(sel.Player, sel.Units)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Session.Units())
}

func (s *Server) handleQueues(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(queueview.Text(s.Session.Units())))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Session.Stats())
}
