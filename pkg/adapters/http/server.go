package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"

	"github.com/aretw0/statespace"
	"github.com/aretw0/statespace/pkg/domain"
	"github.com/aretw0/statespace/pkg/export"
	"github.com/aretw0/statespace/pkg/gate"
	"github.com/aretw0/statespace/pkg/product"
	"github.com/aretw0/statespace/pkg/sanitize"
)

// GenerateRequest is the body of POST /generate and POST /export.
type GenerateRequest struct {
	Variables   domain.VariableSet `json:"variables"`
	Policy      string             `json:"policy,omitempty"`
	UniqueNames *bool              `json:"unique_names,omitempty"`
}

// GenerateResponse is the body returned by POST /generate.
type GenerateResponse struct {
	Count  int               `json:"count"`
	Passed bool              `json:"passed"`
	Issues []gate.Issue      `json:"issues"`
	States domain.StateSpace `json:"states"`
}

// NamedSet is the body returned by GET /sets/{name}.
type NamedSet struct {
	Name      string             `json:"name"`
	Variables domain.VariableSet `json:"variables"`
}

// Server exposes an Engine over HTTP.
type Server struct {
	Engine  *statespace.Engine
	Metrics http.Handler
	Limits  sanitize.Limits
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics mounts a Prometheus handler on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLimits overrides the input limits; zero fields keep their defaults.
func WithLimits(l sanitize.Limits) Option {
	return func(s *Server) {
		s.Limits = l
	}
}

// NewHandler creates a new HTTP handler for the engine.
// Requests to documented paths are validated against the embedded OpenAPI document.
// Generation is always bounded: see sanitize.StateCap.
func NewHandler(engine *statespace.Engine, opts ...Option) (http.Handler, error) {
	server := &Server{Engine: engine, Limits: sanitize.Default()}
	for _, opt := range opts {
		opt(server)
	}
	server.Engine = server.Engine.With(statespace.WithMaxStates(sanitize.StateCap(engine.MaxStates(), server.Limits)))

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	validate, err := requestValidator(doc)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(validate)
		r.Get("/health", server.GetHealth)
		r.Get("/info", server.GetInfo(doc.Info.Version))
		r.Post("/generate", server.Generate)
		r.Post("/export", server.Export)
		r.Get("/sets", server.ListSets)
		r.Get("/sets/{name}", server.GetSet)
		r.Get("/sets/{name}/states", server.GetSetStates)
	})

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(apiVersion string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"app":         "statespace-http",
			"version":     strings.TrimSpace(statespace.Version),
			"api_version": apiVersion,
		})
	}
}

// Generate handles the POST /generate request.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	eng, set, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	space, res, err := eng.Generate(r.Context(), set)
	if err != nil {
		s.fail(w, "Generate", err)
		return
	}

	issues := res.Issues
	if issues == nil {
		issues = []gate.Issue{}
	}
	writeJSON(w, http.StatusOK, GenerateResponse{
		Count:  len(space),
		Passed: res.Passed,
		Issues: issues,
		States: space,
	})
}

// Export handles the POST /export request.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	format, csvOpts, ok := bindExportParams(w, r)
	if !ok {
		return
	}
	eng, set, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	s.writeExport(w, r, eng.With(statespace.WithCSVOptions(csvOpts)), set, format)
}

// ListSets handles the GET /sets request.
func (s *Server) ListSets(w http.ResponseWriter, r *http.Request) {
	names, err := s.Engine.ListSets(r.Context())
	if err != nil {
		s.fail(w, "ListSets", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sets": names})
}

// GetSet handles the GET /sets/{name} request.
func (s *Server) GetSet(w http.ResponseWriter, r *http.Request) {
	name, ok := bindSetName(w, r)
	if !ok {
		return
	}
	set, err := s.Engine.LoadSet(r.Context(), name)
	if err != nil {
		s.fail(w, "GetSet", err)
		return
	}
	writeJSON(w, http.StatusOK, NamedSet{Name: name, Variables: set})
}

// GetSetStates handles the GET /sets/{name}/states request.
func (s *Server) GetSetStates(w http.ResponseWriter, r *http.Request) {
	name, ok := bindSetName(w, r)
	if !ok {
		return
	}
	format, csvOpts, ok := bindExportParams(w, r)
	if !ok {
		return
	}
	set, err := s.Engine.LoadSet(r.Context(), name)
	if err != nil {
		s.fail(w, "GetSetStates", err)
		return
	}
	s.writeExport(w, r, s.Engine.With(statespace.WithCSVOptions(csvOpts)), set, format)
}

func (s *Server) writeExport(w http.ResponseWriter, r *http.Request, eng *statespace.Engine, set domain.VariableSet, format export.Format) {
	out, err := eng.Export(r.Context(), set, format)
	if err != nil {
		s.fail(w, "Export", err)
		return
	}
	if !out.OK {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", format.FileName()))
	if out.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Data); err != nil {
		slog.Error("Export response write failed", "error", err)
	}
}

// decodeRequest parses a GenerateRequest and derives the engine for it.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*statespace.Engine, domain.VariableSet, bool) {
	var body GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		slog.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		return nil, nil, false
	}

	set, err := body.Variables.Normalized()
	if err == nil {
		err = sanitize.Set(set, s.Limits)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, nil, false
	}

	var opts []statespace.Option
	if body.Policy != "" {
		policy, err := gate.ParsePolicy(body.Policy)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return nil, nil, false
		}
		opts = append(opts, statespace.WithPolicy(policy))
	}
	if body.UniqueNames != nil {
		opts = append(opts, statespace.WithUniqueNames(*body.UniqueNames))
	}
	return s.Engine.With(opts...), set, true
}

// fail maps engine errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSetNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, statespace.ErrNoLoader):
		writeError(w, http.StatusNotImplemented, err)
	case errors.Is(err, product.ErrTooManyStates):
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		slog.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func bindSetName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", chi.URLParam(r, "name"), &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter name: %w", err))
		return "", false
	}
	return name, true
}

// bindExportParams reads ?format= and ?rfc4180=. The format defaults to json.
func bindExportParams(w http.ResponseWriter, r *http.Request) (export.Format, export.Options, bool) {
	var (
		formatParam *string
		rfcParam    *bool
	)
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "format", query, &formatParam); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter format: %w", err))
		return "", export.Options{}, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "rfc4180", query, &rfcParam); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter rfc4180: %w", err))
		return "", export.Options{}, false
	}

	format := export.FormatJSON
	if formatParam != nil {
		f, err := export.ParseFormat(*formatParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return "", export.Options{}, false
		}
		format = f
	}
	var opts export.Options
	if rfcParam != nil {
		opts.RFC4180 = *rfcParam
	}
	return format, opts, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
