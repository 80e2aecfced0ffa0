package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/SusanDoggie/go-bbcode/pkg/bbcode"
)

// maxRequestBytes bounds the body of a render request.
const maxRequestBytes = 1 << 20

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve BBCode rendering over HTTP",
	Long: `Start an HTTP server that renders BBCode.

Endpoints:
  POST /render   JSON {"source": "...", "params": {...}, "mode": "html"} -> text/html
  GET  /metrics  Prometheus metrics
  GET  /healthz  liveness probe

Parsed documents are cached by source, so repeated renders of the same text
with different params only pay for rendering.

Examples:
  bbcode serve
  bbcode serve --addr 127.0.0.1:9000
  curl -d '{"source":"[b]hi[/b]"}' localhost:8080/render`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := bbcode.GetGlobalConfig()
	addr := serveFlags.addr
	if addr == "" {
		addr = config.ListenAddress
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engine := bbcode.New(bbcode.WithMetrics(bbcode.NewMetrics(config.MetricsNamespace, registry)))

	server := &http.Server{
		Addr:              addr,
		Handler:           newServer(engine, registry, bbcode.WithField("component", "serve")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		bbcode.Info("Listening on %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	bbcode.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// renderRequest is the body of POST /render.
type renderRequest struct {
	Source string        `json:"source"`
	Params bbcode.Params `json:"params"`
	Mode   string        `json:"mode"`
}

type server struct {
	engine *bbcode.Engine
	logger *bbcode.Logger
}

// newServer builds the HTTP handler for the serve command.
func newServer(engine *bbcode.Engine, gatherer prometheus.Gatherer, logger *bbcode.Logger) http.Handler {
	s := &server{engine: engine, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/render", s.handleRender)
	mux.HandleFunc("/healthz", handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return s.withRequestID(mux)
}

// withRequestID tags every request with an X-Request-ID, generating one when
// the client did not send it, and turns handler panics into 500s.
func (s *server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)

		defer func() {
			if rec := recover(); rec != nil {
				err := bbcode.WithContext(bbcode.RecoverError(rec), "handle request", map[string]interface{}{
					"request_id": id,
					"path":       r.URL.Path,
				})
				s.logger.Error("%v", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req renderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = bbcode.ModeHTML
	}

	out, err := renderDocument(s.engine, s.engine.Parse(req.Source), req.Params, req.Mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.WithFields(bbcode.Fields{
		"request_id": w.Header().Get("X-Request-ID"),
		"mode":       req.Mode,
		"bytes":      len(out),
	}).Debug("Rendered request")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(out)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}
