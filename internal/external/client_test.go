package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest/USD" {
			t.Errorf("path = %q, want /latest/USD", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"result": "success",
			"base_code": "USD",
			"rates": {"USD": 1, "EUR": 0.92, "JPY": 151.3, "BAD": 0, "FOK": 6.8}
		}`))
	}))
	defer server.Close()

	client := NewRatesClient(server.URL, 0, 1)
	rates, err := client.FetchRates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := rates["EUR"].String(); got != "0.92" {
		t.Errorf("EUR = %s, want 0.92", got)
	}
	if got := rates["JPY"].String(); got != "151.3" {
		t.Errorf("JPY = %s, want 151.3", got)
	}
	if _, ok := rates["BAD"]; ok {
		t.Error("zero rate should be dropped")
	}
	if _, ok := rates["FOK"]; ok {
		t.Error("non-ISO code should be dropped")
	}
}

func TestFetchRatesWrongBase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","base_code":"EUR","rates":{"USD":1.08}}`))
	}))
	defer server.Close()

	client := NewRatesClient(server.URL, 0, 0)
	if _, err := client.FetchRates(context.Background()); err == nil {
		t.Fatal("expected error for non-USD base")
	}
}

func TestFetchRatesRetryOn429(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"success","base_code":"USD","rates":{"EUR":0.9}}`))
	}))
	defer server.Close()

	client := NewRatesClient(server.URL, 10*time.Millisecond, 2)
	rates, err := client.FetchRates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if got := rates["EUR"].String(); got != "0.9" {
		t.Errorf("EUR = %s, want 0.9", got)
	}
}

func TestFetchRatesContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1 * time.Second)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	client := NewRatesClient(server.URL, 0, 1)
	_, err := client.FetchRates(ctx)
	if err == nil {
		t.Fatal("expected error on cancelled context")
	}
}
