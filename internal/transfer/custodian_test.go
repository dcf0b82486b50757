package transfer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/efreitasn/minidex/internal/domain"
)

func TestCustodian_TransferIn(t *testing.T) {
	var gotPath string
	var gotBody transferRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewCustodian(srv.URL, 2*time.Second)
	err := c.TransferIn(context.Background(), domain.Token("GOLD"), "u1", 42)
	if err != nil {
		t.Fatalf("TransferIn() unexpected error: %v", err)
	}

	if gotPath != "/transfers/in" {
		t.Errorf("path = %q, want /transfers/in", gotPath)
	}
	if gotBody.Asset != domain.Token("GOLD") || gotBody.Account != "u1" || gotBody.Amount != 42 {
		t.Errorf("request body = %+v", gotBody)
	}
}

func TestCustodian_TransferOut(t *testing.T) {
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewCustodian(srv.URL, 2*time.Second)
	if err := c.TransferOut(context.Background(), domain.Native(), "u2", 7); err != nil {
		t.Fatalf("TransferOut() unexpected error: %v", err)
	}
	if gotPath != "/transfers/out" {
		t.Errorf("path = %q, want /transfers/out", gotPath)
	}
}

func TestCustodian_RejectedTransfer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient external custody", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewCustodian(srv.URL, 2*time.Second)
	if err := c.TransferIn(context.Background(), domain.Token("GOLD"), "u1", 42); err == nil {
		t.Fatal("TransferIn() should fail on non-2xx response")
	}
}

func TestCustodian_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // shut down before use

	c := NewCustodian(srv.URL, time.Second)
	if err := c.TransferIn(context.Background(), domain.Token("GOLD"), "u1", 1); err == nil {
		t.Fatal("TransferIn() should fail when custodian is unreachable")
	}
}

func TestLoopback_AlwaysApproves(t *testing.T) {
	l := NewLoopback()

	if err := l.TransferIn(context.Background(), domain.Token("GOLD"), "u1", 1); err != nil {
		t.Errorf("TransferIn() = %v, want nil", err)
	}
	if err := l.TransferOut(context.Background(), domain.Native(), "u1", 1); err != nil {
		t.Errorf("TransferOut() = %v, want nil", err)
	}
}
