package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/api"
	"github.com/matzehuels/sunburst/pkg/buildinfo"
	"github.com/matzehuels/sunburst/pkg/cache"
	"github.com/matzehuels/sunburst/pkg/observability"
	"github.com/matzehuels/sunburst/pkg/pipeline"
	"github.com/matzehuels/sunburst/pkg/store"
)

// Backends selectable with --store and --cache.
const (
	backendMemory = "memory"
	backendFile   = "file"
	backendMongo  = "mongo"
	backendRedis  = "redis"
	backendNone   = "none"
)

const shutdownTimeout = 10 * time.Second

type serveOpts struct {
	addr          string
	store         string
	storeDir      string
	mongoURI      string
	mongoDatabase string
	cache         string
	redisAddr     string
	redisPassword string
	redisDB       int
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve charts and their interaction sessions over HTTP",
		Long: `Serve charts and their interaction sessions over HTTP.

Charts are created from query results with POST /v1/charts and kept in the
chart store. Every chart has one hover session driven by POST/DELETE
/v1/charts/{id}/hover; renders are cached like on the command line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.addr, "addr", ":8080", "listen address")
	fs.StringVar(&opts.store, "store", backendMemory, "chart store: memory, file, mongo")
	fs.StringVar(&opts.storeDir, "store-dir", "", "directory of the file store (default: ~/.config/sunburst/charts)")
	fs.StringVar(&opts.mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB connection string")
	fs.StringVar(&opts.mongoDatabase, "mongo-db", "", "MongoDB database (default: sunburst)")
	fs.StringVar(&opts.cache, "cache", backendFile, "render cache: file, redis, none")
	fs.StringVar(&opts.redisAddr, "redis-addr", "localhost:6379", "Redis address")
	fs.StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	fs.IntVar(&opts.redisDB, "redis-db", 0, "Redis database")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	st, err := openStore(ctx, opts)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	cc, err := c.openCache(ctx, opts)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, buildinfo.CacheScope()), c.Logger)
	defer runner.Close()

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetInteractionHooks(hooks)
	defer observability.Reset()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           api.New(api.Config{Store: st, Runner: runner, Logger: c.Logger}).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printSuccess("Serving on %s", opts.addr)
	printKeyValue("store", opts.store)
	printKeyValue("cache", opts.cache)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		printInfo("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func openStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	switch opts.store {
	case backendMemory:
		return store.NewMemoryStore(), nil
	case backendFile:
		return store.NewFileStore(opts.storeDir)
	case backendMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{URI: opts.mongoURI, Database: opts.mongoDatabase})
	default:
		return nil, fmt.Errorf("unknown store %q (must be memory, file or mongo)", opts.store)
	}
}

func (c *CLI) openCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	switch opts.cache {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendFile:
		return c.newCache(false)
	case backendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     opts.redisAddr,
			Password: opts.redisPassword,
			DB:       opts.redisDB,
		})
	default:
		return nil, fmt.Errorf("unknown cache %q (must be file, redis or none)", opts.cache)
	}
}
