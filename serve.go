package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"golang.org/x/time/rate"

	"showdeck/api"
	"showdeck/config"
	"showdeck/handlers"
	"showdeck/utils"
)

func makeServeCMD() cli.Command {
	return cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serves the generated dashboard over HTTP",
		Action:  serve,
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:   "host",
				Usage:  "listen host",
				EnvVar: "SHOWDECK_HOST",
			},
			cli.IntFlag{
				Name:   "port, p",
				Usage:  "listen port",
				EnvVar: "SHOWDECK_PORT",
				Value:  8080,
			},
		},
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return err
	}

	r := utils.NewRouter()
	imageDir := ""
	if cfg.ImageCacheEnabled() {
		imageDir = cfg.ImageCacheDir
	}
	handlers.NewDashboard(cfg.OutputHTMLFile, imageDir).Register(r)

	// Status reads files on every hit, so it gets a per-IP ceiling.
	statusRouter := r.NewRoute().Subrouter()
	statusRouter.Use(api.RateLimitMiddleware(api.NewIPRateLimiter(rate.Every(time.Second), 10)))
	handlers.NewStatus(cfg.OutputHTMLFile, cfg.OutputJSONFile, cfg.RefreshInterval()).Register(statusRouter)

	addr := fmt.Sprintf("%s:%d", c.String("host"), c.Int("port"))
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("serving dashboard")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
