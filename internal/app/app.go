// internal/app/app.go
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"mcp-docgate/internal/mcp"
	"mcp-docgate/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

// Deps adalah semua yang dibutuhkan App untuk registrasi routes.
type Deps struct {
	Handler    *mcp.Handler
	Info       mcp.ServerInfo
	Gatherer   prometheus.Gatherer
	Logger     *zap.Logger
	APIKeyHash string
}

// App menampung router utama
type App struct {
	Router  *mux.Router
	handler http.Handler
	log     *zap.Logger
}

// New membuat instance App + registrasi semua routes (HTTP & MCP)
func New(d Deps) *App {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	r := mux.NewRouter()
	RegisterRoutes(r, d)

	// mux only runs Use() middleware on matched routes, so the chain wraps
	// the router itself and covers 404/405 answers too.
	var h http.Handler = r
	h = middleware.CORS(h)
	h = middleware.Recover(d.Logger)(h)
	h = middleware.AccessLog(d.Logger)(h)
	h = middleware.RequestID(h)

	return &App{Router: r, handler: h, log: d.Logger}
}

// Handler returns the router wrapped in the middleware chain.
func (a *App) Handler() http.Handler { return a.handler }

// Run menjalankan server HTTP sampai ctx selesai, lalu shutdown dengan graceful.
func (a *App) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server.start", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("server.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
