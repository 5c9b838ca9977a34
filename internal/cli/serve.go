package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/soretetsu/tetsunavi/internal/server"
	"github.com/soretetsu/tetsunavi/pkg/catalog"
)

// serveCommand creates the API server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		catalogPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the discovery API server",
		Long: `Serve loads the episode catalog CSV and exposes the discovery API:
GET /api/config, POST /api/discover, GET /api/health and GET /api/stats.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}
			if catalogPath == "" {
				catalogPath = cfg.Serve.Catalog
			}
			logger := loggerFromContext(cmd.Context())

			prog := newProgress(logger)
			store, err := server.LoadCSV(catalogPath)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("loaded %d episodes from %s", store.Len(), catalogPath))

			srv := server.New(store, catalog.FallbackPhilosophers, catalog.FallbackThemes, logger)
			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := httpSrv.Shutdown(shutdownCtx); err != nil {
					return err
				}
				err := <-errCh
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "path to the episode catalog CSV")
	return cmd
}
