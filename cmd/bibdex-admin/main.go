package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/bibdex/bibdex/internal/config"
)

func main() {
	app := &cli.Command{
		Name:  "bibdex-admin",
		Usage: "Operate bibdex search indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "Environment name used to locate the config file",
				Value: config.GetEnv(),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path (overrides --env lookup)",
			},
		},
		Commands: []*cli.Command{
			IndexCommand(),
			VersesCommand(),
			VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
