package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxBodyBytes bounds uploaded maps and request bodies
const maxBodyBytes = 1 << 20

type RouteRequest struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

type RouteResponse struct {
	Path        []Point `json:"path"`
	Success     bool    `json:"success"`
	Message     string  `json:"message,omitempty"`
	Length      float64 `json:"length,omitempty"`
	LengthTiles float64 `json:"lengthTiles,omitempty"`
	Expanded    int     `json:"expanded,omitempty"`
	ElapsedMs   float64 `json:"elapsedMs,omitempty"`
}

type RandomRequest struct {
	Width   int     `json:"width"`   // Grid width in tiles
	Height  int     `json:"height"`  // Grid height in tiles
	Density float64 `json:"density"` // Fraction of grid points sampled, squared
	Seed    int64   `json:"seed"`    // 0 uses the current time
}

type PolygonResponse struct {
	ID       string  `json:"id"`
	Vertices []Point `json:"vertices"`
	Closed   bool    `json:"closed"`
	NumEdges int     `json:"numEdges"`
}

type sessionEntry struct {
	mu      sync.Mutex
	session *Session
}

type server struct {
	cfg      Config
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	limiter  *rate.Limiter
	serveMux http.ServeMux
}

// newServer initializes the HTTP surface over a set of editor sessions
func newServer(cfg Config) *server {
	s := &server{
		cfg:      cfg,
		sessions: make(map[string]*sessionEntry),
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	s.serveMux.HandleFunc("GET /health", s.healthHandler)
	s.serveMux.HandleFunc("POST /sessions", s.createSessionHandler)
	s.serveMux.HandleFunc("DELETE /sessions/{id}", s.deleteSessionHandler)
	s.serveMux.HandleFunc("GET /sessions/{id}", s.withSession(s.polygonHandler))
	s.serveMux.HandleFunc("POST /sessions/{id}/vertices", s.withSession(s.vertexHandler))
	s.serveMux.HandleFunc("POST /sessions/{id}/close", s.withSession(s.closeHandler))
	s.serveMux.HandleFunc("POST /sessions/{id}/edit", s.withSession(s.editHandler))
	s.serveMux.HandleFunc("GET /sessions/{id}/map", s.withSession(s.getMapHandler))
	s.serveMux.HandleFunc("PUT /sessions/{id}/map", s.limited(s.withSession(s.putMapHandler)))
	s.serveMux.HandleFunc("PUT /sessions/{id}/geojson", s.limited(s.withSession(s.putGeoJSONHandler)))
	s.serveMux.HandleFunc("POST /sessions/{id}/random", s.limited(s.withSession(s.randomHandler)))
	s.serveMux.HandleFunc("POST /sessions/{id}/route", s.limited(s.withSession(s.routeHandler)))
	s.serveMux.HandleFunc("GET /sessions/{id}/graph", s.withSession(s.graphHandler))
	s.serveMux.HandleFunc("GET /sessions/{id}/render.png", s.withSession(s.renderHandler))

	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	corsMiddleware(s.serveMux.ServeHTTP)(w, r)
}

// addSession registers a session and returns it
func (s *server) addSession(session *Session) *Session {
	s.mu.Lock()
	s.sessions[session.ID] = &sessionEntry{session: session}
	s.mu.Unlock()
	return session
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// limited rejects requests beyond the configured rate on compute endpoints
func (s *server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			log.Printf("⚠️  Rate limited: %s %s\n", r.Method, r.URL.Path)
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// withSession resolves {id} and holds the session lock for the handler
func (s *server) withSession(next func(http.ResponseWriter, *http.Request, *Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		s.mu.RLock()
		entry, ok := s.sessions[id]
		s.mu.RUnlock()

		if !ok {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}

		entry.mu.Lock()
		defer entry.mu.Unlock()
		next(w, r, entry.session)
	}
}

// GET /health - Health check endpoint
func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	numSessions := len(s.sessions)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ready",
		"numSessions": numSessions,
		"tileSize":    s.cfg.TileSize,
	})
}

// POST /sessions - Create an empty editing session
func (s *server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	session := s.addSession(NewSession(s.cfg.TileSize))
	log.Printf("🆕 Session %s created\n", session.ID)
	writeJSON(w, http.StatusCreated, polygonResponse(session))
}

// DELETE /sessions/{id}
func (s *server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /sessions/{id} - Current polygon
func (s *server) polygonHandler(w http.ResponseWriter, r *http.Request, session *Session) {
	writeJSON(w, http.StatusOK, polygonResponse(session))
}

// POST /sessions/{id}/vertices - Editor click at {x, y}
func (s *server) vertexHandler(w http.ResponseWriter, r *http.Request, session *Session) {
	var p Point
	if err := decodeJSON(r, &p); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := session.PlaceVertex(p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polygonResponse(session))
}

// POST /sessions/{id}/close
func (s *server) closeHandler(w http.ResponseWriter, r *http.Request, session *Session) {
	if err := session.ClosePolygon(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polygonResponse(session))
}

// POST /sessions/{id}/edit
func (s *server) editHandler(w http.ResponseWriter, r *http.Request, session *Session) {
	session.EditMap()
	writeJSON(w, http.StatusOK, polygonResponse(session))
}

// GET /sessions/{id}/map - Polygon in the tile map format
func (s *server) getMapHandler(w http.ResponseWriter, r *http.Request, session *Session) {
	var buf bytes.Buffer
	if err := session.SaveMap(&buf); err != nil {
		writeError(w, err)
		return
	}
	writeBody(w, "text/plain; charset=utf-8", buf.Bytes())
}

// PUT /sessions/{id}/map - Replace the polygon from a tile map body
func (s *server) putMapHandler(w http.ResponseWriter, r *http.Request, session *Session) {
	log.Printf("📂 Loading map into session %s\n", session.ID)
	if err := session.LoadMap(http.MaxBytesReader(w, r.Body, maxBodyBytes)); err != nil {
		log.Printf("❌ Map rejected: %v\n", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polygonResponse(session))
}

// PUT /sessions/{id}/geojson - Replace the polygon from a GeoJSON body
func (s *server) putGeoJSONHandler(w http.ResponseWriter, r *http.Request, session *Session) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := session.LoadGeoJSON(data); err != nil {
		log.Printf("❌ GeoJSON rejected: %v\n", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polygonResponse(session))
}

// POST /sessions/{id}/random - Replace the polygon with a random one
func (s *server) randomHandler(w http.ResponseWriter, r *http.Request, session *Session) {
	var req RandomRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Set defaults
	if req.Width == 0 {
		req.Width = s.cfg.GridWidth()
	}
	if req.Height == 0 {
		req.Height = s.cfg.GridHeight()
	}
	if req.Density == 0 {
		req.Density = 0.5
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}
	log.Printf("🎲 Random map %dx%d, density %.2f, seed %d\n", req.Width, req.Height, req.Density, req.Seed)

	rnd := rand.New(rand.NewSource(req.Seed))
	if err := session.RandomMap(rnd, req.Width, req.Height, req.Density); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polygonResponse(session))
}

// POST /sessions/{id}/route - Shortest path between start and end
func (s *server) routeHandler(w http.ResponseWriter, r *http.Request, session *Session) {
	log.Println("========================================")
	log.Println("📍 Route request received")

	var req RouteRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	log.Printf("   Start: (%.2f, %.2f)\n", req.Start.X, req.Start.Y)
	log.Printf("   End:   (%.2f, %.2f)\n", req.End.X, req.End.Y)

	result, err := session.Route(req.Start, req.End)
	switch {
	case errors.Is(err, ErrNoPath):
		log.Println("❌ No path found")
		writeJSON(w, http.StatusOK, RouteResponse{Path: []Point{}, Success: false, Message: err.Error()})
	case err != nil:
		writeError(w, err)
	default:
		writeJSON(w, http.StatusOK, RouteResponse{
			Path:        result.Path,
			Success:     true,
			Length:      result.Length,
			LengthTiles: result.Length / session.tileDivisor(),
			Expanded:    result.Expanded,
			ElapsedMs:   float64(result.Elapsed.Microseconds()) / 1000,
		})
	}
	log.Println("========================================")
}

// GET /sessions/{id}/graph - Polygon, graph, and path as GeoJSON
func (s *server) graphHandler(w http.ResponseWriter, r *http.Request, session *Session) {
	data, err := RenderGeoJSON(session.Scene()).MarshalJSON()
	if err != nil {
		http.Error(w, "Failed to encode graph", http.StatusInternalServerError)
		return
	}
	writeBody(w, "application/geo+json", data)
}

// GET /sessions/{id}/render.png?graph=true
func (s *server) renderHandler(w http.ResponseWriter, r *http.Request, session *Session) {
	showGraph, _ := strconv.ParseBool(r.URL.Query().Get("graph"))

	var buf bytes.Buffer
	if err := RenderPNG(&buf, session.Scene(), s.cfg.Width, s.cfg.Height, s.cfg.TileSize, showGraph); err != nil {
		log.Printf("❌ Render failed: %v\n", err)
		http.Error(w, "Failed to render", http.StatusInternalServerError)
		return
	}
	writeBody(w, "image/png", buf.Bytes())
}

func polygonResponse(session *Session) PolygonResponse {
	resp := PolygonResponse{
		ID:       session.ID,
		Vertices: session.Polygon().Vertices,
		Closed:   session.Polygon().IsClosed(),
	}
	if resp.Vertices == nil {
		resp.Vertices = []Point{}
	}
	if g := session.Graph(); g != nil {
		resp.NumEdges = g.NumEdges()
	}
	return resp
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v\n", err)
	}
}

func writeBody(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ Failed to write response: %v\n", err)
	}
}

// writeError maps core errors to HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrMalformedMap):
		status = http.StatusBadRequest
	case errors.Is(err, ErrInvalidPolygon), errors.Is(err, ErrQueryOutsidePolygon),
		errors.Is(err, ErrTooManyVertices):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ErrPolygonOpen):
		status = http.StatusConflict
	}

	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}
