package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/medilink/portal/auth/filerepo"
	"github.com/medilink/portal/internal/config"
	"github.com/medilink/portal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portal web server",
	Long: `Start the portal web server.

The server renders the login, dashboard, appointment, and slot views and
proxies all data access through the authenticated API client. A previously
saved session is restored on startup, so a restart does not sign you out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}
	configureLogging(cfg)
	displayAppname(cfg.GetAppName())

	repo := filerepo.New(cfg.GetSessionFile())
	srv, err := server.New(cfg, repo)
	if err != nil {
		return errors.Wrap(err, "create server")
	}

	httpServer := &http.Server{
		Addr:              cfg.GetPort(),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- errors.Wrap(err, "listen and serve")
			return
		}
		errCh <- nil
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server shutdown")
	}
	log.Info().Msg("server stopped")
	return nil
}

func configureLogging(cfg config.Config) {
	if cfg.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
