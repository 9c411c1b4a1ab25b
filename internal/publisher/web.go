package publisher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ryosukesatoh/astro-feed/internal/digest"
)

// WebPublisher serves the latest digest as an HTML page, and the Prometheus
// metrics of the process on /metrics.
type WebPublisher struct {
	addr   string
	server *http.Server
	logger *zap.Logger
	mu     sync.RWMutex
	latest *digest.Digest
}

func NewWebPublisher(addr string, gatherer prometheus.Gatherer, logger *zap.Logger) *WebPublisher {
	wp := &WebPublisher{addr: addr, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("/", wp.handleIndex)
	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	wp.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return wp
}

// Start begins serving HTTP in the background. Call Shutdown to stop.
func (wp *WebPublisher) Start() error {
	ln, err := net.Listen("tcp", wp.addr)
	if err != nil {
		return fmt.Errorf("web: failed to listen on %s: %w", wp.addr, err)
	}
	go func() {
		wp.logger.Info("Web publisher listening", zap.String("addr", ln.Addr().String()))
		if err := wp.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			wp.logger.Error("Web publisher error", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (wp *WebPublisher) Shutdown(ctx context.Context) error {
	return wp.server.Shutdown(ctx)
}

func (wp *WebPublisher) Publish(_ context.Context, d *digest.Digest) error {
	wp.mu.Lock()
	wp.latest = d
	wp.mu.Unlock()
	wp.logger.Info("Web publisher updated", zap.String("title", d.Title))
	return nil
}

func (wp *WebPublisher) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	wp.mu.RLock()
	d := wp.latest
	wp.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if d == nil {
		fmt.Fprint(w, `<!DOCTYPE html><html><body><h1>Astro Feed</h1><p>Aucun événement publié pour le moment.</p></body></html>`)
		return
	}

	fmt.Fprint(w, buildHTMLBody(d))
}
