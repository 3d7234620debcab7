package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/bidsum/internal/auction"
	"github.com/mtlprog/bidsum/internal/config"
	"github.com/mtlprog/bidsum/internal/domain"
	"github.com/mtlprog/bidsum/internal/external"
	"github.com/mtlprog/bidsum/internal/ingest"
	"github.com/mtlprog/bidsum/internal/price"
	"github.com/mtlprog/bidsum/internal/summary"
)

func sumCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:      "sum",
		Usage:     "print the price summary for rows of a workbook",
		ArgsUsage: "[ROW...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Value: cfg.EntriesFile, EnvVars: []string{"ENTRIES_FILE"}, Usage: "`.xlsx` workbook of watched auctions"},
			&cli.StringFlag{Name: "sheet", Value: cfg.EntriesSheet, Usage: "sheet name, defaults to the first sheet"},
			&cli.StringSliceFlag{Name: "rate", Usage: "exchange rate as `CODE=PER_USD`, e.g. EUR=0.92"},
			&cli.BoolFlag{Name: "fetch-rates", Usage: "fetch current rates from the rates API"},
			&cli.StringFlag{Name: "shipping-label", Value: cfg.ShippingLabel, Usage: "label for the with-shipping total"},
		},
		Action: func(c *cli.Context) error {
			if c.String("file") == "" {
				return errors.New("--file is required")
			}

			repo := external.NewMemoryRateRepository()
			manual, err := parseRates(c.StringSlice("rate"))
			if err != nil {
				return err
			}
			ratesSvc := external.NewService(external.NewRatesClient(cfg.RatesURL, cfg.RatesRetryDelay, cfg.RatesRetryMax), repo, 0)
			if c.Bool("fetch-rates") {
				if err := ratesSvc.FetchAndStoreRates(c.Context); err != nil {
					return err
				}
			}
			// Rates given on the command line win over fetched ones.
			for code, perUSD := range manual {
				if err := repo.SaveRate(c.Context, code, perUSD); err != nil {
					return err
				}
			}

			auctions, err := ingest.NewXLSXLoader(c.String("file"), c.String("sheet")).Load(c.Context)
			if err != nil {
				return err
			}
			price.NewService(ratesSvc).Normalize(c.Context, auctions)
			book := auction.NewBook(auctions)

			rows, err := parseRowArgs(c.Args().Slice(), book.Len())
			if err != nil {
				return err
			}

			text, ok := summary.NewAggregator(c.String("shipping-label")).Summarize(rows, book.Lookup)
			fmt.Fprintln(c.App.Writer, summary.StatusLine(len(rows), text, ok))
			return nil
		},
	}
}

// parseRates parses CODE=PER_USD pairs.
func parseRates(values []string) (map[domain.Currency]decimal.Decimal, error) {
	rates := make(map[domain.Currency]decimal.Decimal, len(values))
	for _, v := range values {
		code, amount, found := strings.Cut(v, "=")
		if !found {
			return nil, fmt.Errorf("invalid rate %q, want CODE=PER_USD", v)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(amount))
		if err != nil || !rate.IsPositive() {
			return nil, fmt.Errorf("invalid rate %q, want a positive number", v)
		}
		cur, err := domain.ParseCurrency(code)
		if err != nil || cur.IsNone() {
			return nil, fmt.Errorf("invalid rate %q: %w", v, domain.ErrUnknownCurrency)
		}
		rates[cur] = rate
	}
	return rates, nil
}

// parseRowArgs parses row numbers. No arguments selects every row.
func parseRowArgs(args []string, total int) ([]int, error) {
	if len(args) == 0 {
		return lo.Range(total), nil
	}
	rows := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid row %q", a)
		}
		rows = append(rows, n)
	}
	return rows, nil
}
