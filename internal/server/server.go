// Package server exposes the cleaner over HTTP: upload a workbook, get CSV back.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/haytac/emoji-scrub/internal/config"
	"github.com/haytac/emoji-scrub/internal/csvout"
	"github.com/haytac/emoji-scrub/internal/metrics"
	"github.com/haytac/emoji-scrub/internal/pipeline"
	"github.com/haytac/emoji-scrub/internal/spreadsheet"
	"github.com/haytac/emoji-scrub/pkg/interfaces"
)

const (
	shutdownTimeout  = 10 * time.Second
	multipartMemory  = 8 << 20
	downloadFilename = "no_emoji.csv"
)

// Server handles clean requests. Each request runs its own pipeline over
// in-memory buffers.
type Server struct {
	cfg      config.ServeConfig
	cleaner  interfaces.TableTransformer
	csvOpts  csvout.Options
	recorder interfaces.RunRecorder
	limiter  *rate.Limiter
}

// New creates a Server. recorder may be nil.
func New(cfg config.ServeConfig, c interfaces.TableTransformer, csvOpts csvout.Options, recorder interfaces.RunRecorder) *Server {
	s := &Server{cfg: cfg, cleaner: c, csvOpts: csvOpts, recorder: recorder}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request handled")
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/metrics", metrics.Handler())
	r.With(s.rateLimit).Post("/v1/clean", s.handleClean)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", s.cfg.Addr).Msg("Starting HTTP server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	log.Info().Msg("HTTP server stopped")
	return nil
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	metrics.ActiveRequests.Inc()
	defer metrics.ActiveRequests.Dec()

	start := time.Now()
	l := hlog.FromRequest(r)

	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}
	name, data, err := readUpload(r)
	res := &pipeline.Result{Input: "upload:" + name, Output: "-"}
	if err != nil {
		s.finish(r.Context(), l, start, res, err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	src, err := spreadsheet.Load(bytes.NewReader(data), spreadsheet.Options{Sheet: r.URL.Query().Get("sheet")})
	if err != nil {
		s.finish(r.Context(), l, start, res, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res.Rows, res.Columns = src.NumRows(), src.NumColumns()

	cleaned, stats := s.cleaner.Table(src)
	res.Stats = stats

	var buf bytes.Buffer
	if err := csvout.Write(&buf, cleaned, s.csvOpts); err != nil {
		s.finish(r.Context(), l, start, res, err)
		http.Error(w, "failed to encode csv", http.StatusInternalServerError)
		return
	}
	s.finish(r.Context(), l, start, res, nil)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": downloadFilename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) finish(ctx context.Context, l *zerolog.Logger, start time.Time, res *pipeline.Result, err error) {
	pipeline.Observe(pipeline.SourceHTTP, start, res, err)
	if err != nil {
		l.Warn().Err(err).Str("input", res.Input).Msg("Clean request failed")
	} else {
		l.Debug().Int("rows", res.Rows).Int("emoji_removed", res.Stats.EmojiRemoved).Msg("Clean request done")
	}
	if s.recorder == nil {
		return
	}
	if _, rerr := s.recorder.CreateRun(ctx, pipeline.NewRun(pipeline.SourceHTTP, start, res, err)); rerr != nil {
		l.Warn().Err(rerr).Msg("Failed to record run history")
	}
}

// readUpload returns the workbook bytes from a multipart "file" field or,
// for any other content type, the raw body.
func readUpload(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return "", nil, fmt.Errorf("parse multipart form: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, fmt.Errorf("form field \"file\": %w", err)
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, fmt.Errorf("read upload: %w", err)
		}
		return header.Filename, data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return "", nil, errors.New("empty request body")
	}
	return "body", data, nil
}
