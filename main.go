package main

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"gopkg.in/natefinch/lumberjack.v2"
)

const version = "1.2.0"

func main() {
	app := cli.NewApp()
	app.Name = "showdeck"
	app.Usage = "Sonarr calendar dashboard generator"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "path to the config file",
			EnvVar: "SHOWDECK_CONFIG",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level (debug, info, warn, error)",
			EnvVar: "SHOWDECK_LOG_LEVEL",
			Value:  "info",
		},
		cli.StringFlag{
			Name:   "log-file",
			Usage:  "log to this file with rotation instead of stderr",
			EnvVar: "SHOWDECK_LOG_FILE",
		},
	}
	app.Before = setupLogging
	configure(app)

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("failed to run application")
	}
}

func configure(app *cli.App) {
	app.Commands = []cli.Command{
		makeRunCMD(),
		makeOnceCMD(),
		makeServeCMD(),
		makeSetupCMD(),
	}
}

func setupLogging(c *cli.Context) error {
	level, err := log.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if path := c.String("log-file"); path != "" {
		rotated := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		log.SetOutput(io.MultiWriter(os.Stderr, rotated))
	}
	return nil
}
