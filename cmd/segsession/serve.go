package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/segsession/core/logger"
	"github.com/dmitrymomot/segsession/core/server"
	"github.com/dmitrymomot/segsession/core/sessionhost"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the demo HTTP server. The session backend is selected with
SESSION_STORE (memory, redis or postgres).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			s.Server.Addr = addr
		}

		log := newLogger(cmd, s.App)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, s, log)
		if err != nil {
			log.Error("failed to initialize application", logger.Error(err))
			return err
		}
		defer a.close()

		srv, err := server.NewFromConfig(s.Server, server.WithLogger(log))
		if err != nil {
			return err
		}

		eg, ctx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			return srv.Run(ctx, newRouter(a))
		})
		if a.sweeper != nil {
			janitor := sessionhost.NewJanitor(a.sweeper,
				sessionhost.WithSweepInterval(s.App.SweepInterval),
				sessionhost.WithJanitorLogger(log),
			)
			eg.Go(func() error {
				return janitor.Run(ctx)
			})
		}

		if err := eg.Wait(); err != nil {
			log.Error("server stopped with error", logger.Component("server"), logger.Error(err))
			return err
		}

		log.Info("application stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address; overrides HTTP_ADDR")
}
