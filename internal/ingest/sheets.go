package ingest

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/mtlprog/bidsum/internal/domain"
)

// DefaultSheetsRange covers the nine columns of the first sheet.
const DefaultSheetsRange = "A:I"

// SheetsLoader reads auctions from a Google Sheets range.
type SheetsLoader struct {
	spreadsheetID string
	readRange     string
	svc           *sheets.Service
}

// NewSheetsLoader creates a SheetsLoader authenticated with a service account JSON.
func NewSheetsLoader(ctx context.Context, spreadsheetID, readRange, credentialsJSON string) (*SheetsLoader, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	if readRange == "" {
		readRange = DefaultSheetsRange
	}
	return &SheetsLoader{spreadsheetID: spreadsheetID, readRange: readRange, svc: svc}, nil
}

// Load reads the configured range and parses its rows.
func (l *SheetsLoader) Load(ctx context.Context) ([]*domain.Auction, error) {
	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, l.readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading sheet range %s: %w", l.readRange, err)
	}
	return parseRows(stringify(resp.Values))
}
