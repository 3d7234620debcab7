// Package ingest loads watched auctions from spreadsheets.
//
// Every source uses the same column layout:
//
//	id | title | currency | current | max_bid | snipe | shipping | insurance | ended
//
// A header row whose first cell is "id" is skipped, as are rows without an id.
// All amounts of a row share the row's currency; empty cells mean no value.
package ingest

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/mtlprog/bidsum/internal/domain"
)

const (
	colID = iota
	colTitle
	colCurrency
	colCurrent
	colMaxBid
	colSnipe
	colShipping
	colInsurance
	colEnded
)

// parseRows converts raw spreadsheet rows into auctions.
func parseRows(rows [][]string) ([]*domain.Auction, error) {
	var auctions []*domain.Auction
	for i, row := range rows {
		id := strings.TrimSpace(cell(row, colID))
		if id == "" || (i == 0 && strings.EqualFold(id, "id")) {
			continue
		}
		a, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i+1, id, err)
		}
		auctions = append(auctions, a)
	}
	return auctions, nil
}

func parseRow(row []string) (*domain.Auction, error) {
	currency := cell(row, colCurrency)

	amounts := make([]domain.Money, 0, 5)
	for _, col := range []int{colCurrent, colMaxBid, colSnipe, colShipping, colInsurance} {
		m, err := domain.ParseMoney(strings.TrimSpace(cell(row, col)), currency)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, m)
	}

	return &domain.Auction{
		Identifier: strings.TrimSpace(cell(row, colID)),
		Title:      strings.TrimSpace(cell(row, colTitle)),
		CurrentBid: amounts[0],
		MaxBid:     amounts[1],
		SnipeBid:   amounts[2],
		Shipping:   amounts[3],
		Insurance:  amounts[4],
		Ended:      parseBool(cell(row, colEnded)),
	}, nil
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col]
}

func parseBool(v string) bool {
	return lo.Contains([]string{"true", "yes", "y", "1", "x"}, strings.ToLower(strings.TrimSpace(v)))
}

// stringify converts loosely typed cell values into strings.
func stringify(values [][]any) [][]string {
	return lo.Map(values, func(row []any, _ int) []string {
		return lo.Map(row, func(v any, _ int) string {
			if v == nil {
				return ""
			}
			return fmt.Sprint(v)
		})
	})
}
