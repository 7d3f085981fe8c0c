package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recipeflow/pkg/buildinfo"
	"github.com/matzehuels/recipeflow/pkg/errors"
	"github.com/matzehuels/recipeflow/pkg/linkage"
	"github.com/matzehuels/recipeflow/pkg/observability"
	"github.com/matzehuels/recipeflow/pkg/pipeline"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
	requestIDHeader = "X-Request-ID"
)

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recipes, links and renders over HTTP",
		Long: `Serve runs a JSON/HTTP API:

  GET  /healthz
  GET  /api/recipes
  POST /api/recipes                 (requires store.mongo_uri)
  GET  /api/recipes/{id}
  GET  /api/recipes/{id}/links      ?explain=true
  GET  /api/recipes/{id}/render     ?format=svg&type=flow&mode=columns&width=960&apex=24&no_title=true&compact=true
  POST /api/render                  {"recipe": {...}, "options": {...}}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	src, closeSrc, err := c.openSource(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(runner, src, c.Config, c.Logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Server
// =============================================================================

// server holds the dependencies of the HTTP handlers.
type server struct {
	runner   *pipeline.Runner
	source   recipe.Source
	store    recipe.Store // nil when the source is read-only
	linkage  linkage.Config
	defaults pipeline.Options
	logger   *log.Logger
}

func newServer(runner *pipeline.Runner, src recipe.Source, cfg Config, logger *log.Logger) *server {
	s := &server{
		runner:  runner,
		source:  src,
		linkage: cfg.Linkage,
		defaults: pipeline.Options{
			Mode:       cfg.Layout.Mode,
			Width:      cfg.Layout.Width,
			ApexLength: cfg.Flow.ApexLength,
		},
		logger: logger,
	}
	if st, ok := src.(recipe.Store); ok && cfg.Store.MongoURI != "" {
		s.store = st
	}
	return s
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestContext)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/recipes", s.handleListRecipes)
		r.Post("/recipes", s.handlePutRecipe)
		r.Get("/recipes/{id}", s.handleGetRecipe)
		r.Get("/recipes/{id}/links", s.handleLinks)
		r.Get("/recipes/{id}/render", s.handleRenderRecipe)
		r.Post("/render", s.handleRender)
	})
	return r
}

// requestContext assigns a request ID, attaches a request-scoped logger to
// the context and reports the request to the HTTP hooks.
func (s *server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := s.logger.With("request_id", id)
		ctx := withLogger(r.Context(), logger)
		r = r.WithContext(ctx)

		hooks := observability.HTTP()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(ctx, r.Method, route, status, time.Since(start))
		logger.Info("request", "method", r.Method, "route", route, "status", status, "duration", time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	list, err := s.source.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []recipe.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": list})
}

func (s *server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := s.source.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) handlePutRecipe(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, r, errors.New(errors.ErrCodeUnsupported, "recipe store is read-only"))
		return
	}
	var rec recipe.Recipe
	if err := decodeBody(w, r, &rec); err != nil {
		writeError(w, r, err)
		return
	}
	if rec.ID == "" {
		rec.ID = recipeID(&rec)
	}
	if err := s.store.Put(r.Context(), &rec); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec.Summarize())
}

type linksResponse struct {
	ID     string     `json:"id"`
	Links  []linkJSON `json:"links"`
	Unused []int      `json:"unused"`
}

func (s *server) handleLinks(w http.ResponseWriter, r *http.Request) {
	rec, err := s.source.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := rec.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	explain, _ := strconv.ParseBool(r.URL.Query().Get("explain"))

	a := linkage.New(s.linkage)
	links := a.Analyze(rec.Ingredients, rec.Instructions)
	unused := linkage.Unused(links, len(rec.Ingredients))
	if unused == nil {
		unused = []int{}
	}
	writeJSON(w, http.StatusOK, linksResponse{
		ID:     rec.ID,
		Links:  linksJSON(rec, links, a, explain),
		Unused: unused,
	})
}

func (s *server) handleRenderRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := s.source.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts, err := s.queryOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.renderOne(w, r, rec, opts)
}

type renderRequest struct {
	Recipe  *recipe.Recipe   `json:"recipe"`
	Options pipeline.Options `json:"options"`
}

type renderResponse struct {
	ID          string            `json:"id"`
	Fingerprint string            `json:"fingerprint"`
	Links       []linkage.Link    `json:"links"`
	Cached      bool              `json:"cached"`
	Artifacts   map[string][]byte `json:"artifacts"`
}

// handleRender renders a recipe posted in the body. With a format query
// parameter the single artifact is returned as-is; otherwise every
// requested format comes back base64-encoded in a JSON envelope.
func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Recipe == nil {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request body has no recipe"))
		return
	}
	if req.Recipe.ID == "" {
		req.Recipe.ID = recipeID(req.Recipe)
	}

	opts := s.withDefaults(req.Options)
	if f := r.URL.Query().Get("format"); f != "" {
		opts.Formats = []string{f}
		s.renderOne(w, r, req.Recipe, opts)
		return
	}

	opts.Logger = loggerFromContext(r.Context())
	result, err := s.runner.Execute(r.Context(), req.Recipe, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{
		ID:          req.Recipe.ID,
		Fingerprint: result.Fingerprint,
		Links:       result.Links,
		Cached:      result.CacheInfo.RenderHit,
		Artifacts:   result.Artifacts,
	})
}

// renderOne executes the pipeline for a single format and writes the raw
// artifact with its content type.
func (s *server) renderOne(w http.ResponseWriter, r *http.Request, rec *recipe.Recipe, opts pipeline.Options) {
	opts.Logger = loggerFromContext(r.Context())
	result, err := s.runner.Execute(r.Context(), rec, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Recipe-Fingerprint", result.Fingerprint)
	if result.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// queryOptions reads render options from the query string.
func (s *server) queryOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Type: q.Get("type"),
		Mode: q.Get("mode"),
	}
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}

	var err error
	floats := map[string]*float64{"width": &opts.Width, "apex": &opts.ApexLength, "scale": &opts.Scale}
	for name, dst := range floats {
		if v := q.Get(name); v != "" {
			if *dst, err = strconv.ParseFloat(v, 64); err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", name, v)
			}
		}
	}
	bools := map[string]*bool{
		"detailed":     &opts.Detailed,
		"hide_unused":  &opts.HideUnused,
		"interactive":  &opts.Interactive,
		"no_title":     &opts.NoTitle,
		"no_durations": &opts.NoDurations,
		"compact":      &opts.Compact,
		"explain":      &opts.Explain,
		"refresh":      &opts.Refresh,
	}
	for name, dst := range bools {
		if v := q.Get(name); v != "" {
			if *dst, err = strconv.ParseBool(v); err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be true or false, got %q", name, v)
			}
		}
	}
	return s.withDefaults(opts), nil
}

// withDefaults fills unset layout options and the linkage config from the
// server configuration.
func (s *server) withDefaults(opts pipeline.Options) pipeline.Options {
	if opts.Mode == "" {
		opts.Mode = s.defaults.Mode
	}
	if opts.Width == 0 {
		opts.Width = s.defaults.Width
	}
	if opts.ApexLength == 0 {
		opts.ApexLength = s.defaults.ApexLength
	}
	if opts.Linkage == nil {
		cfg := s.linkage
		opts.Linkage = &cfg
	}
	return opts
}

// =============================================================================
// Encoding
// =============================================================================

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)

	logger := loggerFromContext(r.Context())
	switch {
	case body.Error.Code == errors.ErrCodeInternal:
		logger.Error("request failed", "err", err)
		body.Error.Message = "internal error"
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "code", body.Error.Code, "err", err)
	default:
		logger.Debug("request rejected", "code", body.Error.Code, "err", err)
	}
	writeJSON(w, status, body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body: %v", err)
	}
	return nil
}
