package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/mtlprog/bidsum/internal/domain"
	"github.com/mtlprog/bidsum/internal/external"
	"github.com/mtlprog/bidsum/internal/summary"
)

// Book is the live auction list that selections index into.
type Book interface {
	Lookup(row int) (domain.Entry, error)
	Snapshot() []domain.Auction
}

// Summarizer renders the price summary of a selection.
type Summarizer interface {
	Summarize(rows []int, lookup summary.Lookup) (string, bool)
}

// RateService lists stored exchange rates and refreshes them on demand.
type RateService interface {
	FetchAndStoreRates(ctx context.Context) error
	Rates(ctx context.Context) ([]external.RateView, error)
}

// SummaryResponse is the body of GET /api/v1/summary.
type SummaryResponse struct {
	Count   int    `json:"count"`
	Summary string `json:"summary,omitempty"`
	Present bool   `json:"present"`
	Status  string `json:"status"`
}

// Handler provides HTTP endpoints for selection summaries.
type Handler struct {
	book       Book
	summarizer Summarizer
	rates      RateService
}

// NewHandler creates a new API handler.
func NewHandler(book Book, summarizer Summarizer, rates RateService) *Handler {
	return &Handler{book: book, summarizer: summarizer, rates: rates}
}

// GetSummary handles GET /api/v1/summary?rows=0,2,5.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := parseRowList(r.URL.Query().Get("rows"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	text, ok := h.summarizer.Summarize(rows, h.book.Lookup)
	writeJSON(w, http.StatusOK, SummaryResponse{
		Count:   len(rows),
		Summary: text,
		Present: ok,
		Status:  summary.StatusLine(len(rows), text, ok),
	})
}

// ListAuctions handles GET /api/v1/auctions.
func (h *Handler) ListAuctions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.book.Snapshot())
}

// ListRates handles GET /api/v1/rates.
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rates.Rates(r.Context())
	if err != nil {
		slog.Error("failed to list rates", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list rates")
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

// RefreshRates handles POST /api/v1/rates/refresh.
func (h *Handler) RefreshRates(w http.ResponseWriter, r *http.Request) {
	if err := h.rates.FetchAndStoreRates(r.Context()); err != nil {
		slog.Error("failed to refresh rates", "error", err)
		writeError(w, http.StatusBadGateway, "failed to refresh rates")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseRowList parses a comma-separated row list. Blank input is an empty selection.
func parseRowList(raw string) ([]int, error) {
	tokens := lo.Filter(strings.Split(raw, ","), func(s string, _ int) bool {
		return strings.TrimSpace(s) != ""
	})

	rows := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("invalid row %q", tok)
		}
		rows = append(rows, n)
	}
	return rows, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
