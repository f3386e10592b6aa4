package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/preprints/internal/infra/logger"
	"github.com/aalvaropc/preprints/internal/web"
)

const shutdownGrace = 15 * time.Second

func serveCmd() *cobra.Command {
	var workspace string
	var listen string
	var loglevel string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the landing page, provider routes and subject API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			addr := listen
			if addr == "" {
				addr = ws.cfg.Web.Listen
			}

			e := web.BuildServer(web.Deps{
				Landing:  ws.landing(),
				Taxonomy: ws.api,
				PageSize: ws.cfg.Taxonomy.PageSize,
				Log:      logger.Component("web"),
			}, loglevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			context.AfterFunc(ctx, func() {
				graceful, cancel := context.WithTimeout(context.Background(), shutdownGrace)
				defer cancel()
				if err := e.Shutdown(graceful); err != nil {
					logger.L().Warn("web.shutdown.failed", "err", err)
				}
			})

			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
			logger.L().Info("web.start", "addr", addr)
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVar(&listen, "listen", "", "Listen address (defaults to web.listen in preprints.yaml)")
	c.Flags().StringVar(&loglevel, "loglevel", "info", "Server log level: debug|info|warn|error|off")
	return c
}
