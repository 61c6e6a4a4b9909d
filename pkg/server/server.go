// Package server exposes the editor over a JSON HTTP API.
//
// The API drives the same store, area and selector the TUI uses:
//
//	GET    /api/graph                     current graph snapshot
//	GET    /api/graph.dot                 current graph as Graphviz DOT
//	GET    /api/graph.svg                 current graph rendered to SVG
//	GET    /api/config                    layout configuration
//	PUT    /api/config                    update layer count, child count or data
//	POST   /api/config/layers/increment   add one layer
//	POST   /api/config/layers/decrement   remove one layer
//	GET    /api/selection                 selected node IDs
//	DELETE /api/selection                 clear the selection
//	POST   /api/selection/gesture         replay a lasso or window gesture
//	GET    /api/version                   build version, commit and date
//	GET    /metrics                       Prometheus metrics, when configured
//
// Store updates trigger rebuilds asynchronously, so a GET /api/graph right
// after a PUT may still return the previous graph.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/nodetree/pkg/area"
	"github.com/matzehuels/nodetree/pkg/buildinfo"
	"github.com/matzehuels/nodetree/pkg/cache"
	"github.com/matzehuels/nodetree/pkg/dataset"
	apperrors "github.com/matzehuels/nodetree/pkg/errors"
	"github.com/matzehuels/nodetree/pkg/geom"
	"github.com/matzehuels/nodetree/pkg/observability"
	"github.com/matzehuels/nodetree/pkg/render/nodelink"
	"github.com/matzehuels/nodetree/pkg/selection"
	"github.com/matzehuels/nodetree/pkg/store"
)

// Options configures the handler. Store, Area and Selector are required.
type Options struct {
	Store    *store.Store
	Area     *area.Area
	Selector *selection.Selector

	// SelectionMode is used for gestures that do not name a mode.
	// Empty means selection.ModeLasso.
	SelectionMode selection.Mode

	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler

	// Cache holds rendered SVGs. Nil renders every request.
	Cache    cache.Cache
	CacheTTL time.Duration

	Logger *log.Logger
}

type server struct {
	store    *store.Store
	area     *area.Area
	sel      *selection.Selector
	mode     selection.Mode
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *log.Logger
}

// NewHandler returns the API handler.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	mode := opts.SelectionMode
	if mode == "" {
		mode = selection.ModeLasso
	}
	c := opts.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	s := &server{
		store:    opts.Store,
		area:     opts.Area,
		sel:      opts.Selector,
		mode:     mode,
		cache:    c,
		cacheTTL: opts.CacheTTL,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(instrument)
	r.Use(enableCORS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.getGraph)
		r.Get("/graph.dot", s.getGraphDOT)
		r.Get("/graph.svg", s.getGraphSVG)

		r.Get("/config", s.getConfig)
		r.Put("/config", s.putConfig)
		r.Post("/config/layers/increment", s.dispatchHandler(store.IncrementLayer{}))
		r.Post("/config/layers/decrement", s.dispatchHandler(store.DecrementLayer{}))

		r.Get("/selection", s.getSelection)
		r.Delete("/selection", s.clearSelection)
		r.Post("/selection/gesture", s.postGesture)

		r.Get("/version", getVersion)
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}
	return r
}

func getVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Current())
}

// ===== Graph =====

func (s *server) getGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.area.Snapshot())
}

func (s *server) getGraphDOT(w http.ResponseWriter, r *http.Request) {
	dot := nodelink.ToDOT(s.area.Snapshot(), nodelink.Options{})
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dot))
}

func (s *server) getGraphSVG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dot := nodelink.ToDOT(s.area.Snapshot(), nodelink.Options{})
	svg, err := cache.GetOrSet(ctx, s.cache, cache.ArtifactKey(dot, "svg", 0), s.cacheTTL, func() ([]byte, error) {
		return nodelink.RenderSVG(ctx, dot)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// ===== Configuration =====

type configRequest struct {
	LayerCount     *int          `json:"layer_count"`
	ChildNodeCount *int          `json:"child_node_count"`
	Data           *dataset.Tree `json:"data"`
}

func (req configRequest) validate() error {
	if req.LayerCount != nil && *req.LayerCount < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "layer_count must be >= 0, got %d", *req.LayerCount)
	}
	if n := req.ChildNodeCount; n != nil && (*n < store.MinChildNodeCount || *n > store.MaxChildNodeCount) {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "child_node_count must be in [%d, %d], got %d",
			store.MinChildNodeCount, store.MaxChildNodeCount, *n)
	}
	if req.Data != nil {
		return req.Data.Validate()
	}
	return nil
}

func (s *server) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.GetState())
}

func (s *server) putConfig(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, err)
		return
	}

	if req.Data != nil {
		s.store.Dispatch(store.SetData{Tree: *req.Data})
	}
	if req.ChildNodeCount != nil {
		s.store.Dispatch(store.SetChildNodeCount{N: *req.ChildNodeCount})
	}
	if req.LayerCount != nil {
		s.store.Dispatch(store.SetLayerCount{N: *req.LayerCount})
	}
	writeJSON(w, http.StatusOK, s.store.GetState())
}

func (s *server) dispatchHandler(a store.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.store.Dispatch(a))
	}
}

// ===== Selection =====

type selectionResponse struct {
	Selected []string `json:"selected"`
}

type point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

func (p point) geom() geom.Point { return geom.Pt(p.X, p.Y) }

// gestureRequest is a complete gesture in screen coordinates.
type gestureRequest struct {
	Mode       selection.Mode `json:"mode,omitempty"`
	Down       point          `json:"down"`
	Path       []point        `json:"path"`
	Accumulate bool           `json:"accumulate"`
}

func (s *server) selectionResponse() selectionResponse {
	sel := s.sel.Selected()
	if sel == nil {
		sel = []string{}
	}
	return selectionResponse{Selected: sel}
}

func (s *server) getSelection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.selectionResponse())
}

func (s *server) clearSelection(w http.ResponseWriter, r *http.Request) {
	s.sel.Clear()
	writeJSON(w, http.StatusOK, s.selectionResponse())
}

func (s *server) postGesture(w http.ResponseWriter, r *http.Request) {
	var req gestureRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = s.mode
	}
	strategy, err := selection.New(mode, s.area.Container(), s.area.Index(), s.sel, selection.Options{Logger: s.logger})
	if err != nil {
		s.writeError(w, err)
		return
	}

	path := make([]geom.Point, len(req.Path))
	for i, p := range req.Path {
		path[i] = p.geom()
	}
	if err := selection.Replay(r.Context(), strategy, req.Down.geom(), path, req.Accumulate); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.selectionResponse())
}

// ===== Helpers =====

type errorResponse struct {
	Code  apperrors.Code `json:"code,omitempty"`
	Error string         `json:"error"`
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrCodeNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	} else {
		s.logger.Debug("request rejected", "error", err)
	}
	writeJSON(w, status, errorResponse{Code: apperrors.GetCode(err), Error: apperrors.UserMessage(err)})
}

// decodeBody decodes the JSON request body into v. Coded errors raised while
// decoding, such as an invalid data set, are returned unchanged.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || apperrors.GetCode(err) != "" {
		return err
	}
	return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("response encode failed", "error", err)
	}
}

// instrument reports every request to the HTTP hooks, keyed by route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
