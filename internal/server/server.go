// Package server serves the interactive dashboard and its JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/matsen/paperview/internal/aggregate"
	"github.com/matsen/paperview/internal/paper"
	"github.com/matsen/paperview/internal/storage"
	"github.com/matsen/paperview/internal/viz"
)

const (
	// DefaultSearchLimit is used when /api/search has no limit parameter.
	DefaultSearchLimit = 20
	// MaxSearchLimit caps the limit parameter of /api/search.
	MaxSearchLimit = 500

	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	TopJournals int     // 0 means aggregate.DefaultTopJournals
	SampleSize  int     // 0 means aggregate.DefaultSampleSize
	MaxWords    int     // Words sent to the cloud; 0 sends all
	RateLimit   float64 // Requests per second; <= 0 disables limiting
	RateBurst   int
	Seed        uint64 // Sample seed; 0 draws a fresh sample per request
	Title       string
}

// Server answers dashboard requests against one loaded table. Every request
// computes its own view, so no state is shared between clients.
type Server struct {
	table   *paper.Table
	index   *storage.DB
	bounds  viz.Bounds
	opts    Options
	page    string
	limiter *rate.Limiter
	logger  *zap.Logger
	handler http.Handler
}

// New builds a Server for t, including its in-memory search index.
// Call Close to release the index.
func New(t *paper.Table, opts Options, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	index, err := storage.OpenMemory()
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	n, err := index.LoadTable(t)
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("indexing papers: %w", err)
	}
	logger.Debug("search index built", zap.Int("papers", n))

	bounds := viz.BoundsOf(t)
	htmlOpts := viz.DefaultOptions()
	if opts.Title != "" {
		htmlOpts.Title = opts.Title
	}
	htmlOpts.MaxWords = opts.MaxWords
	page, err := viz.InteractivePage(bounds, htmlOpts)
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("rendering page: %w", err)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.RateBurst
	if burst <= 0 {
		burst = 1
	}

	s := &Server{
		table:   t,
		index:   index,
		bounds:  bounds,
		opts:    opts,
		page:    page,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/bounds", s.handleBounds)
	mux.HandleFunc("GET /api/view", s.handleView)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	s.handler = s.loggingMiddleware(s.recoveryMiddleware(s.rateLimitMiddleware(mux)))

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close releases the search index.
func (s *Server) Close() error {
	return s.index.Close()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
		s.logger.Info("shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(s.page)); err != nil {
		s.logger.Warn("writing page", zap.Error(err))
	}
}

func (s *Server) handleBounds(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, r, http.StatusOK, s.bounds)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	rng, err := s.rangeParams(r)
	if err != nil {
		s.sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	v := aggregate.Aggregate(s.table, rng, aggregate.Options{
		TopJournals: s.opts.TopJournals,
		SampleSize:  s.opts.SampleSize,
	}, aggregate.NewRand(s.opts.Seed))
	d := viz.NewDashboard(v, s.bounds, s.opts.MaxWords)

	payload, err := d.ToJSON()
	if err != nil {
		s.sendError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(payload)); err != nil {
		s.logger.Warn("writing view", zap.Error(err))
	}
}

// SearchResponse is the body of /api/search.
type SearchResponse struct {
	Query  string          `json:"query"`
	Range  aggregate.Range `json:"range"`
	Count  int             `json:"count"`
	Papers []paper.Paper   `json:"papers"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	keyword := strings.TrimSpace(q.Get("q"))
	rng, err := s.rangeParams(r)
	if err != nil {
		s.sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := intParam(q.Get("limit"), "limit", DefaultSearchLimit)
	if err != nil {
		s.sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if limit <= 0 || limit > MaxSearchLimit {
		s.sendError(w, r, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", MaxSearchLimit))
		return
	}

	papers := []paper.Paper{}
	if rng.Valid() {
		papers, err = s.index.Search(storage.SearchFilters{
			Keyword:  keyword,
			Journal:  q.Get("journal"),
			YearFrom: rng.From,
			YearTo:   rng.To,
		}, limit)
		if err != nil {
			s.logger.Error("search failed", zap.String("query", keyword), zap.Error(err))
			s.sendError(w, r, http.StatusInternalServerError, "search failed")
			return
		}
	}

	s.sendJSON(w, r, http.StatusOK, SearchResponse{
		Query:  keyword,
		Range:  rng,
		Count:  len(papers),
		Papers: papers,
	})
}

// rangeParams reads from/to, defaulting missing endpoints to the table bounds.
func (s *Server) rangeParams(r *http.Request) (aggregate.Range, error) {
	q := r.URL.Query()
	from, err := intParam(q.Get("from"), "from", 0)
	if err != nil {
		return aggregate.Range{}, err
	}
	to, err := intParam(q.Get("to"), "to", 0)
	if err != nil {
		return aggregate.Range{}, err
	}
	return s.bounds.Clamp(aggregate.Range{From: from, To: to}), nil
}

func intParam(raw, name string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", name, raw)
	}
	return n, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) sendJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func (s *Server) sendError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.sendJSON(w, r, status, errorResponse{Error: message})
}
