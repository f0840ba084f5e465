package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/bibdex/bibdex/internal/domain/batch"
	"github.com/bibdex/bibdex/internal/domain/entity"
)

// IndexCommand creates the index command with subcommands.
func IndexCommand() *cli.Command {
	targetFlag := &cli.StringFlag{
		Name:  "entity",
		Usage: "Index target (manuscript, person, occurrence, type, bibliography, verse)",
	}
	return &cli.Command{
		Name:  "index",
		Usage: "Manage search indexes",
		Commands: []*cli.Command{
			{
				Name:  "setup",
				Usage: "Recreate indexes from the entity schemas (existing data is dropped)",
				Flags: []cli.Flag{
					targetFlag,
					&cli.BoolFlag{Name: "all", Usage: "Set up every index"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					targets, err := selectTargets(c.String("entity"), c.Bool("all"))
					if err != nil {
						return err
					}
					return withRuntime(ctx, c, func(ctx context.Context, rt *runtime) error {
						for _, t := range targets {
							if err := rt.index.Setup(ctx, t); err != nil {
								return fmt.Errorf("setup %s: %w", t, err)
							}
							fmt.Printf("Index for %s created\n", t)
						}
						return nil
					})
				},
			},
			{
				Name:  "refresh",
				Usage: "Make recent writes visible to search",
				Flags: []cli.Flag{
					targetFlag,
					&cli.BoolFlag{Name: "all", Usage: "Refresh every index"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					targets, err := selectTargets(c.String("entity"), c.Bool("all"))
					if err != nil {
						return err
					}
					return withRuntime(ctx, c, func(ctx context.Context, rt *runtime) error {
						for _, t := range targets {
							if err := rt.index.Refresh(ctx, t); err != nil {
								return fmt.Errorf("refresh %s: %w", t, err)
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "load",
				Usage: "Bulk write documents from a JSON or YAML file",
				Flags: []cli.Flag{
					targetFlag,
					&cli.StringFlag{Name: "file", Usage: "Document file (a list of records with an id)", Required: true},
					&cli.StringFlag{Name: "op", Usage: "add, update or delete", Value: opAdd},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					target, err := parseTarget(c.String("entity"))
					if err != nil {
						return err
					}
					return withRuntime(ctx, c, func(ctx context.Context, rt *runtime) error {
						return loadFile(ctx, rt, target, c.String("file"), c.String("op"))
					})
				},
			},
		},
	}
}

// Load operations.
const (
	opAdd    = "add"
	opUpdate = "update"
	opDelete = "delete"
)

func loadFile(ctx context.Context, rt *runtime, target entity.Name, path, op string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	docs, err := readDocuments(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var results []batch.Result
	switch op {
	case opAdd:
		results, err = rt.index.Add(ctx, target, docs)
	case opUpdate:
		results, err = rt.index.Update(ctx, target, docs)
	case opDelete:
		ids := make([]string, len(docs))
		for i, d := range docs {
			ids[i] = d.ID()
		}
		results, err = rt.index.Delete(ctx, target, ids)
	default:
		return fmt.Errorf("unknown op %q", op)
	}
	if err != nil {
		return err
	}

	ok, failed := batch.Summary(results)
	for _, r := range results {
		if r.Err() != nil {
			rt.logger.Warn("document failed", zap.String("id", r.ID()), zap.Error(r.Err()))
		}
	}
	fmt.Printf("%s %s: %d ok, %d failed\n", op, target, ok, failed)
	if failed > 0 {
		return fmt.Errorf("%d documents failed", failed)
	}
	return nil
}

func selectTargets(name string, all bool) ([]entity.Name, error) {
	switch {
	case all && name != "":
		return nil, fmt.Errorf("use either --entity or --all")
	case all:
		return allTargets(), nil
	case name == "":
		return nil, fmt.Errorf("--entity or --all is required")
	}
	t, err := parseTarget(name)
	if err != nil {
		return nil, err
	}
	return []entity.Name{t}, nil
}

func withRuntime(ctx context.Context, c *cli.Command, fn func(ctx context.Context, rt *runtime) error) error {
	rt, err := newRuntime(ctx, c)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt.withLogger(ctx), rt)
}
