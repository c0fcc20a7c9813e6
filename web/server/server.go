package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
	"github.com/arvehn/go-interactive-pathtracer/pkg/renderer"
)

// Config controls the HTTP front end
type Config struct {
	Addr         string
	SettingsPath string
}

// DefaultConfig returns the standard listen configuration
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		SettingsPath: "tracer_settings.json",
	}
}

// Server bridges the render session to browser clients over HTTP and
// websockets. One controller is shared by every client: any client's
// camera movement restarts the shared render.
type Server struct {
	config     Config
	controller *renderer.Controller
	logger     core.Logger
	mux        *http.ServeMux

	mu       sync.Mutex
	settings TracerSettings
}

// New assembles a server around a running session controller
func New(config Config, controller *renderer.Controller, settings TracerSettings, logger core.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		config:     config,
		controller: controller,
		settings:   settings,
		logger:     logger,
		mux:        http.NewServeMux(),
	}
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/settings", s.handleSettings)
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe blocks serving clients on the configured address
func (s *Server) ListenAndServe() error {
	s.logger.Printf("listening on %s", s.config.Addr)
	httpServer := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpServer.ListenAndServe()
}

type healthResponse struct {
	Status        string  `json:"status"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	Goroutines    int     `json:"goroutines"`
	Degraded      bool    `json:"degraded"`
}

// handleHealth reports process and host load so the viewer can warn
// when the machine is saturated
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := healthResponse{
		Status:     "ok",
		Goroutines: runtime.NumGoroutine(),
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		resp.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp.MemoryPercent = vm.UsedPercent
		resp.MemoryUsedMB = vm.Used / (1024 * 1024)
	}
	if snap := s.controller.Snapshot(); snap.Stats.Degraded {
		resp.Status = "degraded"
		resp.Degraded = true
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleSettings serves GET for the current settings and PUT to replace
// and persist them. Resolution or sampling changes take effect on the
// next camera movement.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		settings := s.settings
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, settings)

	case http.MethodPut, http.MethodPost:
		var settings TracerSettings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			http.Error(w, fmt.Sprintf("invalid settings: %v", err), http.StatusBadRequest)
			return
		}
		if err := settings.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := settings.Save(s.config.SettingsPath); err != nil {
			s.logger.Printf("persisting settings: %v", err)
			http.Error(w, "could not persist settings", http.StatusInternalServerError)
			return
		}
		s.mu.Lock()
		s.settings = settings
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, settings)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// Settings returns the currently active settings
func (s *Server) Settings() TracerSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Too late for an error status; the connection is likely gone
		return
	}
}
