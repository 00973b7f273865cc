package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"showdeck/config"
	"showdeck/services/tracker"
)

func makeRunCMD() cli.Command {
	return cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Runs the tracker loop, regenerating the dashboard on an interval",
		Action:  run,
	}
}

func run(c *cli.Context) error {
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
	return tr.Run(ctx)
}
