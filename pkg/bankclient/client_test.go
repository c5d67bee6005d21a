package bankclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetAccountBalance(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"balance":125000}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bank-api-key")
	balance, err := client.GetAccountBalance(context.Background(), "0077777777")
	if err != nil {
		t.Fatalf("GetAccountBalance() error = %v", err)
	}
	if balance != 125000 {
		t.Fatalf("balance = %d, want 125000", balance)
	}
	if gotPath != "/accounts/0077777777" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer bank-api-key" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestGetAccountBalanceNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bank-api-key")
	_, err := client.GetAccountBalance(context.Background(), "0000000000")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestGetAccountBalanceUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bank-api-key")
	_, err := client.GetAccountBalance(context.Background(), "0077777777")
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if errors.Is(err, ErrAccountNotFound) {
		t.Fatal("a failing upstream must not masquerade as not-found")
	}
}

func TestGetAccountBalanceBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bank-api-key")
	if _, err := client.GetAccountBalance(context.Background(), "0077777777"); err == nil {
		t.Fatal("expected decode error")
	}
}
