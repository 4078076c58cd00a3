// Package remote exposes a register transport over HTTP so a PCA9685 wired to
// one host can be driven from another.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Seann-Moser/pca9685/pkg/pca9685"
)

type RegisterRequest struct {
	Bus   int   `json:"bus"`
	Addr  uint8 `json:"addr"`
	Reg   uint8 `json:"reg"`
	Value uint8 `json:"value"`
}

type BlockRequest struct {
	Bus  int      `json:"bus"`
	Addr uint8    `json:"addr"`
	Reg  uint8    `json:"reg"`
	Data [4]uint8 `json:"data"`
}

// Server is the single owner of a local transport. Requests are applied one
// at a time.
type Server struct {
	mu  sync.Mutex
	t   pca9685.Transport
	log *slog.Logger
}

func NewServer(t pca9685.Transport, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{t: t, log: log}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/register", s.handleRead)
	mux.HandleFunc("POST /api/register", s.handleWrite)
	mux.HandleFunc("POST /api/block", s.handleBlock)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("register server running", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bus, err := strconv.Atoi(q.Get("bus"))
	if err != nil {
		http.Error(w, "bad bus: "+err.Error(), http.StatusBadRequest)
		return
	}
	addr, err := parseByte(q.Get("addr"))
	if err != nil {
		http.Error(w, "bad addr: "+err.Error(), http.StatusBadRequest)
		return
	}
	reg, err := parseByte(q.Get("reg"))
	if err != nil {
		http.Error(w, "bad reg: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	v, err := s.t.ReadRegister(bus, addr, reg)
	s.mu.Unlock()
	if err != nil {
		s.fail(w, "read", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "0x%02x\n", v)
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	err := s.t.WriteRegister(req.Bus, req.Addr, req.Reg, req.Value)
	s.mu.Unlock()
	if err != nil {
		s.fail(w, "write", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	err := s.t.WriteBlock(req.Bus, req.Addr, req.Reg, req.Data)
	s.mu.Unlock()
	if err != nil {
		s.fail(w, "block write", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.log.Warn("register transaction failed", "op", op, "err", err)
	http.Error(w, err.Error(), http.StatusBadGateway)
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}
