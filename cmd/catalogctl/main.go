package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "catalogctl",
		Usage: "Administer the legal services catalog from the command line",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "config-path",
				Aliases: []string{"c"},
				Usage:   "Directories searched for config.yaml",
			},
		},
		Commands: []*cli.Command{
			importCommand,
			exportCommand,
			templateCommand,
			userCommand,
			tokenCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("catalogctl failed")
	}
}
