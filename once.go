package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"showdeck/config"
	"showdeck/services/tracker"
)

func makeOnceCMD() cli.Command {
	return cli.Command{
		Name:   "once",
		Usage:  "Runs a single fetch-render cycle and exits (cron-friendly)",
		Action: once,
	}
}

func once(c *cli.Context) error {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return err
	}
	tr, err := tracker.New(*cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return tr.RunOnce(ctx)
}
