package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bibdex/bibdex/internal/version"
)

// VersesCommand creates the verses command.
func VersesCommand() *cli.Command {
	return &cli.Command{
		Name:  "verses",
		Usage: "Maintain the verse index",
		Commands: []*cli.Command{
			{
				Name:  "init-groups",
				Usage: "Group ungrouped verses with identical text",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withRuntime(ctx, c, func(ctx context.Context, rt *runtime) error {
						n, err := rt.verses.InitGroups(ctx)
						if err != nil {
							return err
						}
						fmt.Printf("%d verse groups created\n", n)
						return nil
					})
				},
			},
		},
	}
}

// VersionCommand creates the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Println(version.String())
			return nil
		},
	}
}
