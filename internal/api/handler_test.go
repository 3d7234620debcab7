package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/bidsum/internal/auction"
	"github.com/mtlprog/bidsum/internal/domain"
	"github.com/mtlprog/bidsum/internal/external"
	"github.com/mtlprog/bidsum/internal/summary"
)

type mockRates struct {
	calls   int
	err     error
	stored  []external.RateView
	listErr error
}

func (m *mockRates) FetchAndStoreRates(_ context.Context) error {
	m.calls++
	return m.err
}

func (m *mockRates) Rates(_ context.Context) ([]external.RateView, error) {
	return m.stored, m.listErr
}

func newTestBook() *auction.Book {
	return auction.NewBook([]*domain.Auction{
		{Identifier: "1", CurrentBid: domain.USD("10"), USCurrentBid: domain.USD("10")},
		{Identifier: "2", CurrentBid: domain.USD("5"), USCurrentBid: domain.USD("5"), Shipping: domain.USD("2")},
	})
}

func newTestServer(rates RateService, apiKey string) *httptest.Server {
	srv := NewServer("0", newTestBook(), summary.NewAggregator("s/h"), rates, apiKey)
	return httptest.NewServer(srv.Handler)
}

func getSummary(t *testing.T, ts *httptest.Server, query string) (int, SummaryResponse) {
	t.Helper()
	resp, err := http.Get(ts.URL + "/api/v1/summary" + query)
	if err != nil {
		t.Fatalf("GET summary: %v", err)
	}
	defer resp.Body.Close()

	var body SummaryResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
	return resp.StatusCode, body
}

func TestGetSummary(t *testing.T) {
	ts := newTestServer(nil, "")
	defer ts.Close()

	status, body := getSummary(t, ts, "?rows=0,1")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body.Summary != "15.00 (17.00 with s/h)" {
		t.Errorf("Summary = %q, want 15.00 (17.00 with s/h)", body.Summary)
	}
	if body.Status != "PRICE 2 / 15.00 (17.00 with s/h)" {
		t.Errorf("Status = %q", body.Status)
	}
	if !body.Present || body.Count != 2 {
		t.Errorf("Present = %v, Count = %d; want true, 2", body.Present, body.Count)
	}
}

func TestGetSummaryStaleRow(t *testing.T) {
	ts := newTestServer(nil, "")
	defer ts.Close()

	_, body := getSummary(t, ts, "?rows=0,5")
	if body.Summary != "About 10.00" {
		t.Errorf("Summary = %q, want About 10.00", body.Summary)
	}
}

func TestGetSummaryEmptySelection(t *testing.T) {
	ts := newTestServer(nil, "")
	defer ts.Close()

	_, body := getSummary(t, ts, "")
	if body.Present {
		t.Error("Present = true, want false for empty selection")
	}
	if body.Status != "PRICE  " {
		t.Errorf("Status = %q, want blank placeholder", body.Status)
	}
}

func TestGetSummaryInvalidRows(t *testing.T) {
	ts := newTestServer(nil, "")
	defer ts.Close()

	status, _ := getSummary(t, ts, "?rows=1,x")
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
}

func TestListAuctions(t *testing.T) {
	ts := newTestServer(nil, "")
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/auctions")
	if err != nil {
		t.Fatalf("GET auctions: %v", err)
	}
	defer resp.Body.Close()

	var auctions []domain.Auction
	if err := json.NewDecoder(resp.Body).Decode(&auctions); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(auctions) != 2 {
		t.Fatalf("got %d auctions, want 2", len(auctions))
	}
	if auctions[1].Identifier != "2" {
		t.Errorf("auctions[1].Identifier = %q, want 2", auctions[1].Identifier)
	}
}

func TestRefreshRates(t *testing.T) {
	rates := &mockRates{}
	ts := newTestServer(rates, "secret-key")
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/rates/refresh", nil)
	req.Header.Set("Authorization", "Bearer secret-key")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST refresh: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if rates.calls != 1 {
		t.Errorf("refresh calls = %d, want 1", rates.calls)
	}
}

func TestRefreshRatesFailure(t *testing.T) {
	ts := newTestServer(&mockRates{err: errors.New("upstream down")}, "")
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/rates/refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("POST refresh: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestListRates(t *testing.T) {
	rates := &mockRates{stored: []external.RateView{
		{Rate: external.Rate{Currency: "EUR", PerUSD: decimal.RequireFromString("0.92")}},
		{Rate: external.Rate{Currency: "JPY", PerUSD: decimal.RequireFromString("151.3")}, Stale: true},
	}}
	ts := newTestServer(rates, "secret-key")
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/rates")
	if err != nil {
		t.Fatalf("GET rates: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got []external.RateView
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rates, want 2", len(got))
	}
	if got[0].Currency != "EUR" || !got[0].PerUSD.Equal(decimal.RequireFromString("0.92")) || got[0].Stale {
		t.Errorf("rates[0] = %+v, want fresh EUR 0.92", got[0])
	}
	if !got[1].Stale {
		t.Error("rates[1].Stale = false, want true")
	}
}

func TestListRatesFailure(t *testing.T) {
	ts := newTestServer(&mockRates{listErr: errors.New("db down")}, "")
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/rates")
	if err != nil {
		t.Fatalf("GET rates: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestParseRowList(t *testing.T) {
	rows, err := parseRowList(" 3, 1 ,,7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{3, 1, 7}
	if len(rows) != len(want) {
		t.Fatalf("rows = %v, want %v", rows, want)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("rows[%d] = %d, want %d", i, rows[i], want[i])
		}
	}
}
