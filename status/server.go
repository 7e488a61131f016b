package status

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/Alia5/padmapper/display"
	"github.com/Alia5/padmapper/engine"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     localOrigin,
}

// localOrigin accepts requests without an Origin header (non-browser
// clients) and browser requests from pages served by this machine.
func localOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch host := u.Hostname(); host {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		ip := net.ParseIP(host)
		return ip != nil && ip.IsLoopback()
	}
}

// Snapshot is the body of GET /status.
type Snapshot struct {
	Status   engine.Status  `json:"status"`
	Displays []display.Rect `json:"displays"`
}

// Controller switches mapping on and off. Start reports false when output
// is not authorized.
type Controller interface {
	Start() bool
	Stop()
	Running() bool
}

// Server exposes /ws (WebSocket stream of Message) and /status (JSON
// snapshot). With a Controller, POST /start and POST /stop toggle mapping.
type Server struct {
	hub         *Hub
	broadcaster *Broadcaster
	src         Source
	displays    *display.Cache
	control     Controller
	logger      *slog.Logger
	httpServer  *http.Server
}

func NewServer(src Source, displays *display.Cache, logger *slog.Logger) *Server {
	logger = logger.With("component", "status")
	h := NewHub(logger)
	return &Server{
		hub:         h,
		broadcaster: NewBroadcaster(h, src, logger),
		src:         src,
		displays:    displays,
		logger:      logger,
	}
}

// SetController enables the control routes. Call it before Serve.
func (s *Server) SetController(c Controller) { s.control = c }

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/status", s.handleStatus)
	if s.control != nil {
		mux.HandleFunc("POST /start", s.handleStart)
		mux.HandleFunc("POST /stop", s.handleStop)
	}
	return mux
}

// Serve runs the hub, the broadcaster and the HTTP server on ln until ctx
// is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go s.hub.Run(ctx)
	go s.broadcaster.Run(ctx)

	s.httpServer = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Status server listening", "addr", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("WebSocket upgrade failed", "error", err)
		return
	}
	client := NewClient(s.hub, conn)
	s.broadcaster.SendInitial(client)
	if !s.hub.Register(client) {
		conn.Close()
		return
	}
	go client.WritePump()
	go client.ReadPump()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := Snapshot{Status: s.src.Status(), Displays: []display.Rect{}}
	if s.displays != nil {
		if rects := s.displays.Rects(); rects != nil {
			snap.Displays = rects
		}
	}
	writeJSON(w, http.StatusOK, snap)
}

type controlResponse struct {
	Running bool   `json:"running"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if !s.allowControl(w, r) {
		return
	}
	if s.control.Start() || s.control.Running() {
		s.logger.Info("Mapping enabled", "remote", r.RemoteAddr)
		writeJSON(w, http.StatusOK, controlResponse{Running: true})
		return
	}
	writeJSON(w, http.StatusForbidden, controlResponse{Error: "output injection not authorized"})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if !s.allowControl(w, r) {
		return
	}
	s.control.Stop()
	s.logger.Info("Mapping disabled", "remote", r.RemoteAddr)
	writeJSON(w, http.StatusOK, controlResponse{Running: false})
}

func (s *Server) allowControl(w http.ResponseWriter, r *http.Request) bool {
	if localOrigin(r) {
		return true
	}
	s.logger.Warn("Rejected control request from foreign origin", "origin", r.Header.Get("Origin"), "remote", r.RemoteAddr)
	writeJSON(w, http.StatusForbidden, controlResponse{Running: s.control.Running(), Error: "origin not allowed"})
	return false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
