package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// server owns the landmark store and the most recently computed path. The
// mutex serializes planning against store mutation: the planner core is
// single-threaded and must never observe the store changing mid-search.
type server struct {
	log     *zap.Logger
	planner *Planner

	mu       sync.RWMutex
	store    LandmarkStore
	lastPath Path
}

type pointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type landmarkPayload struct {
	ID         uint64       `json:"id"`
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
	Type       LandmarkType `json:"type"`
	Confidence float64      `json:"confidence,omitempty"`
	ExpireAt   *time.Time   `json:"expireAt,omitempty"`
}

type insertRequest struct {
	Landmarks []landmarkPayload `json:"landmarks"`
}

type insertResponse struct {
	Inserted int `json:"inserted"`
	Stored   int `json:"stored"`
}

type pruneRequest struct {
	Now *time.Time `json:"now,omitempty"`
}

type pruneResponse struct {
	RemovedIDs []uint64 `json:"removedIds"`
	Stored     int      `json:"stored"`
}

type planRequest struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Angle     float64 `json:"angle"`
	Curvature float64 `json:"curvature"`
	Speed     float64 `json:"speed"`
}

type pathResponse struct {
	Found bool           `json:"found"`
	Path  []pointPayload `json:"path"`
}

type landmarksResponse struct {
	Count     int               `json:"count"`
	Landmarks []landmarkPayload `json:"landmarks"`
}

func toPathResponse(p Path) pathResponse {
	points := make([]pointPayload, len(p.Points))
	for i, pt := range p.Points {
		points[i] = pointPayload{X: pt.X(), Y: pt.Y()}
	}
	return pathResponse{Found: len(points) > 0, Path: points}
}

func toLandmarkPayload(lm *Landmark) landmarkPayload {
	p := landmarkPayload{
		ID:         lm.ID,
		X:          lm.Pos.X(),
		Y:          lm.Pos.Y(),
		Type:       lm.Type,
		Confidence: lm.Confidence,
	}
	if !lm.ExpireAt.IsZero() {
		expireAt := lm.ExpireAt
		p.ExpireAt = &expireAt
	}
	return p
}

// POST /landmarks - insert a batch of perceived landmarks.
func (s *server) handleInsertLandmarks(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	landmarks := make([]Landmark, len(req.Landmarks))
	for i, p := range req.Landmarks {
		landmarks[i] = Landmark{
			ID:         p.ID,
			Pos:        orb.Point{p.X, p.Y},
			Type:       p.Type,
			Confidence: p.Confidence,
		}
		if p.ExpireAt != nil {
			landmarks[i].ExpireAt = *p.ExpireAt
		}
	}

	s.mu.Lock()
	s.store.InsertBatch(landmarks)
	stored := s.store.Len()
	s.mu.Unlock()

	landmarksStored.Set(float64(stored))
	s.log.Info("landmarks inserted", zap.Int("count", len(landmarks)), zap.Int("stored", stored))
	writeJSON(w, http.StatusOK, insertResponse{Inserted: len(landmarks), Stored: stored})
}

// POST /landmarks/prune - remove expired landmarks and report the drained
// removed IDs. Expiration is caller-driven; the store itself never filters
// on ExpireAt.
func (s *server) handlePrune(w http.ResponseWriter, r *http.Request) {
	var req pruneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := time.Now()
	if req.Now != nil {
		now = *req.Now
	}

	s.mu.Lock()
	s.store.RemoveWhere(func(lm *Landmark) bool { return lm.Expired(now) })
	removed := s.store.DrainRemovedIDs()
	stored := s.store.Len()
	s.mu.Unlock()

	if removed == nil {
		removed = []uint64{}
	}
	landmarksStored.Set(float64(stored))
	s.log.Info("landmarks pruned", zap.Int("removed", len(removed)), zap.Int("stored", stored))
	writeJSON(w, http.StatusOK, pruneResponse{RemovedIDs: removed, Stored: stored})
}

// POST /plan - compute a path from the given start state against the current
// landmarks. An empty path is a normal "no plan found this cycle" response,
// not an error; callers may retry on the next landmark update.
func (s *server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start := DriveState{
		Pos:       orb.Point{req.X, req.Y},
		Angle:     req.Angle,
		Curvature: req.Curvature,
		Speed:     req.Speed,
	}

	s.mu.Lock()
	began := time.Now()
	path, err := s.planner.FindPath(start, s.store)
	elapsed := time.Since(began)
	if err == nil {
		s.lastPath = path
	}
	s.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	planDuration.Observe(elapsed.Seconds())
	plansTotal.WithLabelValues(foundLabel(len(path.Points) > 0)).Inc()
	s.log.Info("plan computed",
		zap.Int("points", len(path.Points)),
		zap.Duration("elapsed", elapsed))
	writeJSON(w, http.StatusOK, toPathResponse(path))
}

func foundLabel(found bool) string {
	if found {
		return "true"
	}
	return "false"
}

// GET /landmarks - snapshot of every stored landmark, for the visualization
// collaborator. Purely observational; never feeds back into planning.
func (s *server) handleGetLandmarks(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	all := s.store.All()
	s.mu.RUnlock()

	payload := make([]landmarkPayload, len(all))
	for i, lm := range all {
		payload[i] = toLandmarkPayload(lm)
	}
	writeJSON(w, http.StatusOK, landmarksResponse{Count: len(payload), Landmarks: payload})
}

// GET /path - the most recently computed path, for the visualization
// collaborator.
func (s *server) handleGetPath(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	path := s.lastPath
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, toPathResponse(path))
}

// GET /health - readiness and store size.
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	stored := s.store.Len()
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"landmarks": stored,
	})
}

// corsMiddleware lets the visualization frontend query the service from
// another origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(metricsMiddleware)
	r.Use(corsMiddleware)

	r.Post("/landmarks", s.handleInsertLandmarks)
	r.Post("/landmarks/prune", s.handlePrune)
	r.Post("/plan", s.handlePlan)
	r.Get("/landmarks", s.handleGetLandmarks)
	r.Get("/path", s.handleGetPath)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Logging.Env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	var store LandmarkStore
	switch cfg.Store.Backend {
	case "simple":
		store = NewSimpleLandmarkStore()
	default:
		store = NewRTreeLandmarkStore()
	}

	srv := &server{
		log:     logger,
		planner: NewPlanner(cfg.Planner),
		store:   store,
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	logger.Info("track planner listening",
		zap.String("addr", addr),
		zap.String("store", cfg.Store.Backend),
		zap.Int("horizon_steps", srv.planner.planSteps()))

	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
