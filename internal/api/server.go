// Package api serves selection summaries and the auction book over HTTP.
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// NewServer creates an HTTP server with all routes configured.
// A nil rate service leaves the rate endpoints unregistered.
func NewServer(port string, book Book, summarizer Summarizer, rates RateService, adminAPIKey string) *http.Server {
	handler := NewHandler(book, summarizer, rates)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/summary", handler.GetSummary)
	mux.HandleFunc("GET /api/v1/auctions", handler.ListAuctions)

	if rates != nil {
		mux.HandleFunc("GET /api/v1/rates", handler.ListRates)
		refreshHandler := http.HandlerFunc(handler.RefreshRates)
		if adminAPIKey != "" {
			mux.Handle("POST /api/v1/rates/refresh", requireAuth(adminAPIKey, refreshHandler))
		} else {
			mux.Handle("POST /api/v1/rates/refresh", refreshHandler)
		}
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
