package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"showdeck/config"
	"showdeck/internal/setup"
)

func makeSetupCMD() cli.Command {
	return cli.Command{
		Name:   "setup",
		Usage:  "Interactive terminal form to create or edit the config file",
		Action: runSetup,
	}
}

func runSetup(c *cli.Context) error {
	path := setupTargetPath(c.GlobalString("config"))
	saved, err := setup.Run(path)
	if err != nil {
		return err
	}
	if !saved {
		log.Info("setup aborted, nothing written")
		return nil
	}
	fmt.Printf("Configuration written to %s\n", path)
	return nil
}

// setupTargetPath picks where setup writes: the explicit flag, then
// SHOWDECK_CONFIG, then an existing file from the search paths, and
// finally the last (home) default for a fresh install.
func setupTargetPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if envPath := os.Getenv(config.ConfigPathEnvVar); envPath != "" {
		return envPath
	}
	if found, err := config.FindFile(""); err == nil {
		return found
	}
	paths := config.DefaultPaths()
	return paths[len(paths)-1]
}
