// Package api serves a generated world over HTTP.
// GET endpoints are public (read-only).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexterrain/internal/entropy"
	"github.com/talgya/hexterrain/internal/palette"
	"github.com/talgya/hexterrain/internal/persistence"
	"github.com/talgya/hexterrain/internal/world"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 100
)

// Server serves the current world over HTTP.
type Server struct {
	Gen               world.GenConfig // Settings used by regenerate; Seed is replaced per call
	DB                *persistence.DB // Run catalog. Nil disables /runs and recording.
	Port              int
	AdminKey          string // Bearer token for POST endpoints. Empty = POST disabled.
	RegeneratePerHour int

	mu     sync.RWMutex
	world  *world.World
	runID  string
	colors []float32

	regenerating atomic.Bool
	httpSrv      *http.Server
}

// snapshot is an immutable view of the served world. Grids are never
// mutated after SetWorld, so handlers may read it without holding mu.
type snapshot struct {
	world  *world.World
	runID  string
	colors []float32
}

// SetWorld replaces the served world. runID may be empty when the run was
// not recorded.
func (s *Server) SetWorld(w *world.World, runID string) {
	colors := palette.Buffer(w.Grid)

	s.mu.Lock()
	s.world = w
	s.runID = runID
	s.colors = colors
	s.mu.Unlock()
}

func (s *Server) current() (snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.world == nil {
		return snapshot{}, false
	}
	return snapshot{world: s.world, runID: s.runID, colors: s.colors}, true
}

// Handler returns the routed API with CORS applied.
func (s *Server) Handler() http.Handler {
	regenLimiter := NewRateLimiter(s.RegeneratePerHour, time.Hour)

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/map/colors", s.handleColors)
	mux.HandleFunc("/api/v1/map.png", s.handlePNG)
	mux.HandleFunc("/api/v1/map/", s.handleCellDetail)
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/runs/", s.handleRunDetail)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/regenerate", s.adminOnly(RateLimitMiddleware(regenLimiter, s.handleRegenerate)))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "catalog", s.DB != nil)

	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops the server started by Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Expose-Headers", "X-World-Width, X-World-Height, X-Run-ID")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no WORLDSIM_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current()
	if !ok {
		http.Error(w, "world not ready", http.StatusServiceUnavailable)
		return
	}
	rep := snap.world.Report
	writeJSON(w, map[string]any{
		"seed":         snap.world.Seed,
		"width":        snap.world.Grid.Width,
		"height":       snap.world.Grid.Height,
		"cells":        snap.world.Grid.CellCount(),
		"run_id":       snap.runID,
		"duration_ms":  rep.Duration.Milliseconds(),
		"descent":      rep.Descent,
		"rivers":       rep.Rivers,
		"terrain":      world.NamedCounts(rep.Counts),
		"regenerating": s.regenerating.Load(),
	})
}

// handleColors streams the float32 RGBA buffer, little-endian, row-major.
func (s *Server) handleColors(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current()
	if !ok {
		http.Error(w, "world not ready", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(snap.colors)*4))
	w.Header().Set("X-World-Width", strconv.Itoa(snap.world.Grid.Width))
	w.Header().Set("X-World-Height", strconv.Itoa(snap.world.Grid.Height))
	w.Header().Set("X-Run-ID", snap.runID)
	if err := palette.WriteBuffer(w, snap.colors); err != nil {
		slog.Warn("color buffer write failed", "error", err)
	}
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current()
	if !ok {
		http.Error(w, "world not ready", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := palette.WritePNG(w, snap.world.Grid); err != nil {
		slog.Warn("png write failed", "error", err)
	}
}

// handleCellDetail returns one cell and its hex neighbors (GET /api/v1/map/:x/:y).
func (s *Server) handleCellDetail(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// api/v1/map/:x/:y → parts[3]=x [4]=y
	if len(parts) != 5 {
		http.Error(w, "usage: /api/v1/map/:x/:y", http.StatusBadRequest)
		return
	}
	x, err1 := strconv.Atoi(parts[3])
	y, err2 := strconv.Atoi(parts[4])
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}

	snap, ok := s.current()
	if !ok {
		http.Error(w, "world not ready", http.StatusServiceUnavailable)
		return
	}
	g := snap.world.Grid
	if !g.InBounds(x, y) {
		http.Error(w, "cell not found", http.StatusNotFound)
		return
	}

	type neighborInfo struct {
		X        int                `json:"x"`
		Y        int                `json:"y"`
		Doubled  world.DoubledCoord `json:"doubled"`
		Type     string             `json:"type"`
		Altitude float64            `json:"altitude"`
	}

	cell := *g.At(x, y)
	d := world.FromOffset(x, y)
	adj := g.Neighbors(d)
	neighbors := make([]neighborInfo, 0, len(adj))
	for _, n := range adj {
		nc := g.AtDoubled(n)
		neighbors = append(neighbors, neighborInfo{
			X:        n.Col(),
			Y:        n.Y,
			Doubled:  n,
			Type:     nc.Type.String(),
			Altitude: nc.Altitude,
		})
	}

	col := palette.ShadeCell(cell)
	writeJSON(w, map[string]any{
		"x":                 x,
		"y":                 y,
		"doubled":           d,
		"type":              cell.Type.String(),
		"weight":            cell.Type.Weight(),
		"water":             cell.Type.IsWater(),
		"altitude":          cell.Altitude,
		"relative_altitude": cell.RelativeAltitude,
		"color":             [3]float64{col.R, col.G, col.B},
		"edge":              len(adj) < len(world.HexNeighborDirections),
		"neighbors":         neighbors,
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "run catalog not available", http.StatusServiceUnavailable)
		return
	}
	limit := defaultRunLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := s.DB.RecentRuns(limit)
	if err != nil {
		slog.Error("list runs failed", "error", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []persistence.Run{}
	}
	writeJSON(w, runs)
}

func (s *Server) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "run catalog not available", http.StatusServiceUnavailable)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/runs/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "usage: /api/v1/runs/:id", http.StatusBadRequest)
		return
	}

	run, err := s.DB.LoadRun(id)
	if errors.Is(err, persistence.ErrNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("load run failed", "id", id, "error", err)
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return
	}
	counts, err := s.DB.TerrainCounts(id)
	if err != nil {
		slog.Error("load terrain counts failed", "id", id, "error", err)
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"run":     run,
		"terrain": counts,
	})
}

// handleRegenerate builds a new world and swaps it in. The old world keeps
// serving until the swap.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	seed := entropy.CryptoSeed()
	if v := r.URL.Query().Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil || n == 0 {
			http.Error(w, "seed must be a positive integer", http.StatusBadRequest)
			return
		}
		seed = n
	}

	if !s.regenerating.CompareAndSwap(false, true) {
		http.Error(w, "regeneration already in progress", http.StatusConflict)
		return
	}
	defer s.regenerating.Store(false)

	cfg := s.Gen
	cfg.Seed = seed
	slog.Info("regenerating world", "seed", seed, "cells", humanize.Comma(int64(cfg.Width*cfg.Height)))

	wld := world.Generate(cfg)
	runID := s.record(wld)
	s.SetWorld(wld, runID)

	slog.Info("world swapped in",
		"seed", wld.Seed,
		"run_id", runID,
		"took", wld.Report.Duration.Round(time.Millisecond),
		"river_cells", humanize.Comma(int64(wld.Report.Rivers.Cells)),
	)
	writeJSON(w, map[string]any{
		"seed":        wld.Seed,
		"run_id":      runID,
		"duration_ms": wld.Report.Duration.Milliseconds(),
		"rivers":      wld.Report.Rivers,
		"terrain":     world.NamedCounts(wld.Report.Counts),
	})
}

// record stores the run in the catalog and returns its ID. Failures are
// logged; the world is still served.
func (s *Server) record(w *world.World) string {
	if s.DB == nil {
		return ""
	}
	id, err := s.DB.SaveRun(w.Report)
	if err != nil {
		slog.Error("record run failed", "seed", w.Seed, "error", err)
		return ""
	}
	if err := s.DB.SaveMeta("last_run", id); err != nil {
		slog.Warn("save last_run failed", "error", err)
	}
	return id
}

// Record stores w in the catalog (if any) and serves it.
func (s *Server) Record(w *world.World) string {
	id := s.record(w)
	s.SetWorld(w, id)
	return id
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
