package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/bidsum/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg := config.Load()

	app := &cli.App{
		Name:  "bidsum",
		Usage: "price summaries for selections of watched auctions",
		Commands: []*cli.Command{
			serveCommand(cfg),
			sumCommand(cfg),
			importCommand(cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
