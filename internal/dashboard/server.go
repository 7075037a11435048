// Package dashboard serves a read-only view of the activity store. The
// recorder itself exposes no queries; this is the external inspection
// surface.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartOpts holds configuration for the dashboard server.
type StartOpts struct {
	DB   *gorm.DB
	Port int
	Out  io.Writer
}

// Start launches the dashboard HTTP server. It blocks until ctx is
// cancelled, then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("dashboard: db is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8990
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	cache := newStatsCache(opts.DB)
	registerRoutes(router, opts.DB, cache)

	// Refresh the aggregate snapshot once a minute so /api/stats stays
	// cheap even against a large store.
	c := cron.New()
	if _, err := c.AddFunc("* * * * *", func() {
		if err := cache.refresh(); err != nil {
			log.Printf("dashboard: stats refresh: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("dashboard: schedule stats refresh: %w", err)
	}
	c.Start()
	defer c.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Dashboard running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: serve: %w", err)
	}
	return nil
}
