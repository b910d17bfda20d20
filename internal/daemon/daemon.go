package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heritageworks/engage/internal/api"
	"github.com/heritageworks/engage/internal/app/points"
	"github.com/heritageworks/engage/internal/health"
	_ "github.com/heritageworks/engage/internal/infra/metrics" // Register Prometheus metrics
	"github.com/heritageworks/engage/internal/infra/sqlite"
)

// Daemon is the engine runtime. It wires the store, the award and
// leaderboard services, and the HTTP server.
type Daemon struct {
	Config       Config
	DB           *sqlite.DB
	Awards       *points.AwardService
	Leaderboards *points.LeaderboardService
	Server       *api.Server
	Health       *health.Checker
	cancel       context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dataDir := cfg.Database.Dir
	if dataDir == "" {
		dataDir = engageHome()
	}
	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx := context.Background()

	// Seed the built-in achievement catalog, then apply the external
	// overlay file if one is configured. The overlay is authoritative for
	// the definitions it names.
	if err := db.SeedDefinitions(ctx, points.DefaultCatalog()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed achievements: %w", err)
	}
	if path := cfg.Engine.AchievementsFile; path != "" {
		defs, err := LoadAchievementsFile(path)
		if err != nil {
			db.Close()
			return nil, err
		}
		for _, def := range defs {
			if err := db.ReplaceDefinition(ctx, def); err != nil {
				db.Close()
				return nil, err
			}
		}
		log.Printf("[daemon] loaded %d achievement definitions from %s", len(defs), path)
	}

	awards := points.NewAwardService(db)
	leaderboards := points.NewLeaderboardService(db)
	leaderboards.SetDefaultLimit(cfg.Engine.DefaultLeaderboardLimit)

	checker := health.NewChecker(db, dataDir)

	srv := api.NewServer(awards, leaderboards, db)
	srv.SetHealthChecker(checker)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:       cfg,
		DB:           db,
		Awards:       awards,
		Leaderboards: leaderboards,
		Server:       srv,
		Health:       checker,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	addr := fmt.Sprintf("%s:%d", d.Config.Server.Host, d.Config.Server.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go d.Health.Run(ctx)

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("engage serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop triggers a graceful shutdown.
func (d *Daemon) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
}

// Close releases the daemon's resources without serving. Used by CLI
// commands that only need the wired services.
func (d *Daemon) Close() error {
	return d.DB.Close()
}
