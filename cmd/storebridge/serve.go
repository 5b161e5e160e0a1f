package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spetersoncode/storebridge/agui"
	"github.com/spetersoncode/storebridge/gateway"
	"github.com/spetersoncode/storebridge/store"
)

// serveCmd streams the host state to AG-UI frontends
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Stream host state to AG-UI frontends over SSE",
	Long: `Runs the reference host and serves:

  GET /api/state     AG-UI events: STATE_SNAPSHOT, then STATE_DELTA per change
  GET /api/manifest  the gateway manifest as JSON
  GET /health        health check`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := startRuntime(ctx, cfg, 0)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())

	server := &http.Server{
		Addr:         cfg.AGUIAddr,
		Handler:      newMux(rt.bridge.Reader(), logger.Named("agui")),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("AG-UI server starting", zap.String("addr", cfg.AGUIAddr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newMux(r store.Reader, log *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/state", corsMiddleware(&stateHandler{reader: r, logger: log}))
	mux.HandleFunc("/api/manifest", manifestHandler)
	mux.HandleFunc("/health", healthHandler)
	return mux
}

// stateHandler streams AG-UI state events for one connection.
type stateHandler struct {
	reader store.Reader
	logger *zap.Logger
}

// ServeHTTP streams events until the client disconnects.
func (h *stateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodGet {
		h.logger.Warn("method not allowed", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	mapper := agui.NewMapper(r.URL.Query().Get("threadId"), r.URL.Query().Get("runId"))
	log := h.logger.With(
		zap.String("run_id", mapper.RunID()),
		zap.String("thread_id", mapper.ThreadID()),
	)

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var eventCount int
	err := agui.Stream(r.Context(), h.reader, mapper, func(ev aguievents.Event) error {
		eventCount++
		log.Debug("sending SSE event", zap.String("event_type", string(ev.Type())), zap.Int("event_num", eventCount))
		return writeSSE(w, flusher, ev)
	})

	duration := time.Since(start)
	if err != nil {
		log.Error("stream failed",
			zap.Int64("duration_ms", duration.Milliseconds()),
			zap.Int("events_sent", eventCount),
			zap.Error(err))
		return
	}
	log.Info("stream completed",
		zap.Int64("duration_ms", duration.Milliseconds()),
		zap.Int("events_sent", eventCount))
}

// writeSSE writes an AG-UI event in SSE format.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	// Write SSE format: event: TYPE\ndata: {json}\n\n
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), string(data)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func manifestHandler(w http.ResponseWriter, r *http.Request) {
	data, err := gateway.GetManifest().JSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
