package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/planarkit/internal/api"
	"github.com/matzehuels/planarkit/pkg/pipeline"
	"github.com/matzehuels/planarkit/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		mongoURI string
		mongoDB  string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the planarity HTTP API.

POST /v1/check accepts a clustered graph document and returns the verdict.
With --mongo-uri, every check report is archived and retrievable under
GET /v1/reports/{id}. The cache backend follows the CLI configuration
(file by default, redis when redis_addr is set).`,
		Example: `  planarkit serve
  planarkit serve --addr :9090 --mongo-uri mongodb://localhost:27017`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			if addr == "" {
				addr = ":8080"
			}
			if mongoURI == "" {
				mongoURI = c.Config.Serve.MongoURI
			}
			if mongoDB == "" {
				mongoDB = c.Config.Serve.MongoDB
			}
			if mongoDB == "" {
				mongoDB = appName
			}

			cch, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cch, nil, c.Logger)
			defer runner.Close()

			var st store.Store
			if mongoURI != "" {
				ms, err := store.NewMongoStore(ctx, mongoURI, mongoDB)
				if err != nil {
					return err
				}
				defer ms.Close(context.Background())
				st = ms
				c.Logger.Info("report archival enabled", "db", mongoDB)
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           api.New(runner, st, c.Logger).Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				c.Logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB URI for report archival")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "", "MongoDB database name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
