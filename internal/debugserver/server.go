// Package debugserver exposes a World's state over HTTP for local operator
// tooling during development: registry contents, chunk-window status, a
// per-column voxel/light dump, and a small set of mutating endpoints
// (block/point-light edits, recenter, scheduler step) for driving a World
// from a script or a browser without a real renderer attached. It is not a
// game network protocol — no client prediction, no session state, no
// concurrent-player model — just the host API of the world package exposed
// as JSON over loopback.
package debugserver

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzip"

	"github.com/rmmh/voxelcore/internal/voxel"
	"github.com/rmmh/voxelcore/internal/world"
)

// Server wraps a World with an HTTP introspection API.
type Server struct {
	w *world.World
}

// New builds a Server over w.
func New(w *world.World) *Server {
	return &Server{w: w}
}

// Router builds the mux.Router serving this Server's endpoints.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.indexHandler)
	r.HandleFunc("/registry", gzipped(s.registryHandler))
	r.HandleFunc("/status", gzipped(s.statusHandler))
	r.HandleFunc("/chunk/{x}/{z}", gzipped(s.chunkHandler))
	r.HandleFunc("/block", s.blockHandler).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/light", s.lightHandler).Methods(http.MethodGet)
	r.HandleFunc("/pointlight", s.pointLightHandler).Methods(http.MethodPost)
	r.HandleFunc("/recenter", s.recenterHandler).Methods(http.MethodPost)
	r.HandleFunc("/step", s.stepHandler).Methods(http.MethodPost)
	return r
}

// ListenAndServe starts an HTTP server bound to addr, with the original's
// read/write timeouts.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Handler:      s.Router(),
		Addr:         addr,
		WriteTimeout: 120 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	log.Println("debugserver: listening on", addr)
	return srv.ListenAndServe()
}

// gzipped wraps a handler to gzip its response body when the client
// advertises support, matching the original's Accept-Encoding check.
func gzipped(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			h(w, r)
			return
		}
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		defer gz.Close()
		h(gzipResponseWriter{ResponseWriter: w, Writer: gz}, r)
	}
}

type gzipResponseWriter struct {
	http.ResponseWriter
	Writer *gzip.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) { return g.Writer.Write(b) }

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("voxelcore debugserver: /registry /status /chunk/{x}/{z}\n"))
}

func (s *Server) registryHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := s.w.Registry().Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(snap)
}

type statusResponse struct {
	Center   voxel.Point `json:"center"`
	Capacity int         `json:"capacity"`
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, statusResponse{Center: s.w.Center(), Capacity: s.w.Capacity()})
}

type columnResponse struct {
	X      int     `json:"x"`
	Z      int     `json:"z"`
	Blocks []uint8 `json:"blocks"` // one per y, 0..WorldHeight
	Lights []uint8 `json:"lights"`
}

// chunkHandler dumps one column's full vertical block/light profile, at
// the chunk coordinate and a query-string x/z offset within it (default 0,
// 0 — the chunk's first column).
func (s *Server) chunkHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cx, err := strconv.Atoi(vars["x"])
	if err != nil {
		http.Error(w, "bad x", http.StatusBadRequest)
		return
	}
	cz, err := strconv.Atoi(vars["z"])
	if err != nil {
		http.Error(w, "bad z", http.StatusBadRequest)
		return
	}
	lx, lz := 0, 0
	if v := r.URL.Query().Get("lx"); v != "" {
		lx, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("lz"); v != "" {
		lz, _ = strconv.Atoi(v)
	}

	wx := cx<<voxel.ChunkBits + lx
	wz := cz<<voxel.ChunkBits + lz

	resp := columnResponse{
		X:      wx,
		Z:      wz,
		Blocks: make([]uint8, voxel.WorldHeight),
		Lights: make([]uint8, voxel.WorldHeight),
	}
	for y := 0; y < voxel.WorldHeight; y++ {
		resp.Blocks[y] = uint8(s.w.GetBlock(wx, y, wz))
		resp.Lights[y] = uint8(s.w.GetLightLevel(wx, y, wz))
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// queryInt parses a required integer query parameter, writing a 400
// response and returning ok=false if it's missing or malformed.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v := r.URL.Query().Get(name)
	n, err := strconv.Atoi(v)
	if err != nil {
		http.Error(w, "bad or missing "+name, http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

type blockResponse struct {
	Block uint8 `json:"block"`
}

// blockHandler reads (GET) or writes (POST) the block at ?x=&y=&z=.
func (s *Server) blockHandler(w http.ResponseWriter, r *http.Request) {
	x, ok := queryInt(w, r, "x")
	if !ok {
		return
	}
	y, ok := queryInt(w, r, "y")
	if !ok {
		return
	}
	z, ok := queryInt(w, r, "z")
	if !ok {
		return
	}
	if r.Method == http.MethodPost {
		block, ok := queryInt(w, r, "block")
		if !ok {
			return
		}
		s.w.SetBlock(x, y, z, voxel.Block(block))
	}
	writeJSON(w, blockResponse{Block: uint8(s.w.GetBlock(x, y, z))})
}

type lightResponse struct {
	Level int `json:"level"`
}

// lightHandler reports the merged light level at ?x=&y=&z=.
func (s *Server) lightHandler(w http.ResponseWriter, r *http.Request) {
	x, ok := queryInt(w, r, "x")
	if !ok {
		return
	}
	y, ok := queryInt(w, r, "y")
	if !ok {
		return
	}
	z, ok := queryInt(w, r, "z")
	if !ok {
		return
	}
	writeJSON(w, lightResponse{Level: s.w.GetLightLevel(x, y, z)})
}

// pointLightHandler sets or clears a sparse light source at
// ?x=&y=&z=&level=.
func (s *Server) pointLightHandler(w http.ResponseWriter, r *http.Request) {
	x, ok := queryInt(w, r, "x")
	if !ok {
		return
	}
	y, ok := queryInt(w, r, "y")
	if !ok {
		return
	}
	z, ok := queryInt(w, r, "z")
	if !ok {
		return
	}
	level, ok := queryInt(w, r, "level")
	if !ok {
		return
	}
	s.w.SetPointLight(x, y, z, level)
	w.WriteHeader(http.StatusNoContent)
}

// recenterHandler moves the chunk window to ?x=&z= (in chunk coordinates).
func (s *Server) recenterHandler(w http.ResponseWriter, r *http.Request) {
	cx, ok := queryInt(w, r, "x")
	if !ok {
		return
	}
	cz, ok := queryInt(w, r, "z")
	if !ok {
		return
	}
	s.w.Recenter(voxel.Point{X: cx, Z: cz})
	writeJSON(w, statusResponse{Center: s.w.Center(), Capacity: s.w.Capacity()})
}

// stepHandler runs the scheduler forward ?n= ticks (default 1).
func (s *Server) stepHandler(w http.ResponseWriter, r *http.Request) {
	n := 1
	if r.URL.Query().Get("n") != "" {
		var ok bool
		n, ok = queryInt(w, r, "n")
		if !ok {
			return
		}
	}
	for i := 0; i < n; i++ {
		s.w.Step()
	}
	w.WriteHeader(http.StatusNoContent)
}
