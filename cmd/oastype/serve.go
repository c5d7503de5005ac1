package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	oastype "github.com/reoring/oastype"
	"github.com/reoring/oastype/logsink"
	"github.com/reoring/oastype/metrics"
	"github.com/reoring/oastype/middleware"
	"github.com/reoring/oastype/reload"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		reg      registryFlags
		addr     string
		watch    bool
		useFloat bool
		verbose  bool
	)
	reg.register(fs)
	fs.StringVar(&addr, "addr", ":8080", "listen address")
	fs.BoolVar(&watch, "watch", true, "reload -formats when the file changes")
	fs.BoolVar(&useFloat, "float64", false, "accept integral floats as integer")
	fs.BoolVar(&verbose, "v", false, "debug logging, including every coercion")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	logger := newLogger(stderr, zerolog.InfoLevel, verbose)

	promReg := prometheus.NewRegistry()
	collector := metrics.NewWithRegistry(promReg)
	evOpts := []oastype.Option{
		oastype.WithSink(oastype.MultiSink(collector, logsink.New(logger, logsink.WithLevel(zerolog.DebugLevel)))),
	}
	if useFloat {
		evOpts = append(evOpts, oastype.WithNumberMode(oastype.NumberFloat64))
	}

	var src middleware.EvaluatorSource
	if reg.config == "" {
		registry, err := reg.load()
		if err == nil {
			err = registry.Warm()
		}
		if err != nil {
			logger.Error().Err(err).Msg("loading formats failed")
			return exitUsage
		}
		src = middleware.Static(oastype.New(registry, evOpts...))
	} else {
		holder, err := reload.NewHolder(reg.config, reload.NewBuilder(reg.options(), evOpts...), logger, reload.WithMetrics(collector))
		if err != nil {
			logger.Error().Err(err).Msg("loading formats failed")
			return exitUsage
		}
		if watch {
			if err := holder.WatchFile(); err != nil {
				logger.Error().Err(err).Msg("watching formats failed")
				return exitUsage
			}
			defer holder.Stop()
		}
		src = holder.Evaluator
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(src, collector, promReg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info().Str("addr", addr).Msg("listening")

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server failed")
			return exitUsage
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
			return exitUsage
		}
		logger.Info().Msg("server stopped")
	}
	return exitOK
}

// newRouter wires the HTTP API:
//
//	POST /validate   {"path": "/p", "value": <json>, "type": "integer", "format": "int32"}
//	GET  /validate   ?type=integer&format=int32&value=12 (value checked as query text)
//	GET  /formats    registered formats
//	GET  /metrics    Prometheus metrics
//	GET  /health     liveness
func newRouter(src middleware.EvaluatorSource, m *metrics.Collector, g prometheus.Gatherer, logger zerolog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/validate", validateBody(src, m))
	r.Get("/validate", validateQuery(src, m))
	r.Get("/formats", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, listFormats(src().Formats()))
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	return r
}

// validateRequest is the body of POST /validate.
type validateRequest struct {
	Path   string       `json:"path"`
	Value  any          `json:"value"`
	Type   oastype.Type `json:"type"`
	Format string       `json:"format"`
}

func validateBody(src middleware.EvaluatorSource, m *metrics.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var req validateRequest
		if err := dec.Decode(&req); err != nil {
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		c := oastype.Check{Path: req.Path, Value: req.Value, Type: req.Type, Format: req.Format}
		if c.Path == "" {
			c.Path = "/"
		}
		res := src().Run(c)
		m.Observe(c.Type, res.Err)
		middleware.WriteJSON(w, statusFor(res.Err), newCheckResult(c, res))
	}
}

func validateQuery(src middleware.EvaluatorSource, m *metrics.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		p := middleware.Param{
			Name:     "value",
			Type:     oastype.Type(q.Get("type")),
			Format:   q.Get("format"),
			Required: true,
		}
		data, defects := middleware.CheckQuery(src(), r, p)
		if _, present := q["value"]; present {
			var err error
			switch {
			case len(defects) > 0:
				err = defects[0].Cause
			case len(data) > 0:
				err = data[0].Cause
			}
			m.Observe(p.Type, err)
		}
		switch {
		case len(defects) > 0:
			middleware.WriteJSON(w, http.StatusInternalServerError, middleware.ErrorPayload(defects))
		case len(data) > 0:
			middleware.WriteJSON(w, http.StatusUnprocessableEntity, middleware.ErrorPayload(data))
		default:
			middleware.WriteJSON(w, http.StatusOK, checkResult{OK: true})
		}
	}
}

// statusFor maps an evaluator error to an HTTP status. Data errors are the
// client's problem; unknown types and unloadable validators are ours.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case oastype.IsDataError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if r.URL.Path == "/metrics" || r.URL.Path == "/health" {
				return
			}
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
