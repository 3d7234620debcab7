package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/bidsum/internal/auction"
	"github.com/mtlprog/bidsum/internal/config"
	"github.com/mtlprog/bidsum/internal/ingest"
)

func importCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "copy the auctions of a workbook into the watch list database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Value: cfg.EntriesFile, EnvVars: []string{"ENTRIES_FILE"}, Usage: "`.xlsx` workbook of watched auctions"},
			&cli.StringFlag{Name: "sheet", Value: cfg.EntriesSheet, Usage: "sheet name, defaults to the first sheet"},
			&cli.BoolFlag{Name: "prune", Usage: "delete stored auctions that are not in the workbook"},
			&cli.StringFlag{Name: "database-url", Value: cfg.DatabaseURL, EnvVars: []string{"DATABASE_URL"}},
		},
		Action: func(c *cli.Context) error {
			if c.String("file") == "" {
				return errors.New("--file is required")
			}

			auctions, err := ingest.NewXLSXLoader(c.String("file"), c.String("sheet")).Load(c.Context)
			if err != nil {
				return err
			}

			pool, err := openDatabase(c.Context, c.String("database-url"))
			if err != nil {
				return err
			}
			defer pool.Close()

			res, err := auction.Sync(c.Context, auction.NewPgRepository(pool), auctions, c.Bool("prune"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "imported %d auctions: %d added, %d updated, %d unchanged, %d removed\n",
				len(auctions), res.Added, res.Updated, res.Unchanged, res.Removed)
			return nil
		},
	}
}
