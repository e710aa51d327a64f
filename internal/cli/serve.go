package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labelspread/internal/api"
	"github.com/matzehuels/labelspread/pkg/cache"
	"github.com/matzehuels/labelspread/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// process is told to stop.
const shutdownTimeout = 10 * time.Second

// =============================================================================
// Command Definition
// =============================================================================

func (c *CLI) serveCommand() *cobra.Command {
	cfg := serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the labelspread HTTP API",
		Long: `Run the HTTP API for storing label sets and arranging them on demand.
Sets live in memory by default; --store mongo persists them. The
placement cache is in-process unless --redis points at a shared one.

  labelspread serve
  labelspread serve --addr :9000 --store mongo --mongo-uri mongodb://db:27017
  labelspread serve --redis localhost:6379 --cache-scope prod`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, "addr", ":8753", "listen address")
	cmd.Flags().StringVar(&cfg.store, "store", "memory", "set store backend: memory, mongo")
	cmd.Flags().StringVar(&cfg.mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI (with --store mongo)")
	cmd.Flags().StringVar(&cfg.mongoDB, "mongo-db", "", "MongoDB database name (default labelspread)")
	cmd.Flags().StringVar(&cfg.redisAddr, "redis", "", "Redis address for a shared placement cache (host:port)")
	cmd.Flags().StringVar(&cfg.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&cfg.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&cfg.cacheScope, "cache-scope", "", "prefix cache keys so instances can share a backend")

	return cmd
}

type serveConfig struct {
	addr          string
	store         string
	mongoURI      string
	mongoDB       string
	redisAddr     string
	redisPassword string
	redisDB       int
	cacheScope    string
}

// =============================================================================
// Command Execution
// =============================================================================

func (c *CLI) runServe(ctx context.Context, cfg serveConfig) error {
	store, err := c.newStore(ctx, cfg)
	if err != nil {
		return err
	}

	cch, err := newServeCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect cache: %w", err)
	}

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if cfg.cacheScope != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.cacheScope)
	}

	srv := api.New(api.Config{
		Addr:   cfg.addr,
		Store:  store,
		Runner: pipeline.NewRunner(cch, keyer, c.Logger),
		Logger: c.Logger,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Close(closeCtx)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := srv.Close(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

func (c *CLI) newStore(ctx context.Context, cfg serveConfig) (api.Store, error) {
	switch cfg.store {
	case "", "memory":
		printWarning("Sets are stored in memory and lost on restart (use --store mongo to persist)")
		return api.NewMemoryStore(), nil
	case "mongo":
		c.Logger.Info("connecting to mongodb")
		return api.NewMongoStore(ctx, cfg.mongoURI, cfg.mongoDB, "")
	default:
		return nil, fmt.Errorf("unknown store backend: %q (must be 'memory' or 'mongo')", cfg.store)
	}
}

func newServeCache(ctx context.Context, cfg serveConfig) (cache.Cache, error) {
	if cfg.redisAddr == "" {
		return cache.NewMemoryCache(), nil
	}
	return cache.NewRedisCache(ctx, cfg.redisAddr, cfg.redisPassword, cfg.redisDB)
}
