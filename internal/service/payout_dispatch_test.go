package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookd/internal/bank"
	"bookd/internal/models"
)

func TestPayoutDispatcher_RunOnce(t *testing.T) {
	repo := newStubRepo()
	repo.payouts = []models.Payout{
		{ID: "pay-1", MarketID: "game-1", Account: "alice", Amount: 130, Denom: "usd", Kind: models.PayoutKindWinnings, Status: models.PayoutStatusPending},
		{ID: "pay-2", MarketID: "game-1", Account: "unknown", Amount: 10, Denom: "usd", Kind: models.PayoutKindFee, Status: models.PayoutStatusPending},
		{ID: "pay-3", MarketID: "game-1", Account: "bob", Amount: 260, Denom: "usd", Kind: models.PayoutKindWinnings, Status: models.PayoutStatusPending},
	}

	var refs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var order bank.TransferOrder
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			t.Errorf("decode order: %v", err)
		}
		refs = append(refs, order.Ref)
		if order.To == "unknown" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	d := &PayoutDispatcher{
		Repo: repo,
		Bank: bank.NewClient(srv.Client(), srv.URL),
	}
	if err := d.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}

	if len(refs) != 3 {
		t.Fatalf("transfers sent=%d want 3", len(refs))
	}
	byID := map[string]models.Payout{}
	for _, p := range repo.payouts {
		byID[p.ID] = p
	}
	if byID["pay-1"].Status != models.PayoutStatusSent || byID["pay-3"].Status != models.PayoutStatusSent {
		t.Fatalf("accepted orders not marked sent: %+v", repo.payouts)
	}
	// A 4xx from the host is final; the order must not stay pending.
	if byID["pay-2"].Status != models.PayoutStatusFailed {
		t.Fatalf("rejected order status=%s want failed", byID["pay-2"].Status)
	}
	if byID["pay-2"].LastError == "" {
		t.Fatalf("rejected order has no recorded error")
	}
}

func TestPayoutDispatcher_TransportErrorLeavesPending(t *testing.T) {
	repo := newStubRepo()
	repo.payouts = []models.Payout{
		{ID: "pay-1", MarketID: "game-1", Account: "alice", Amount: 130, Denom: "usd", Kind: models.PayoutKindWinnings, Status: models.PayoutStatusPending},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := &PayoutDispatcher{
		Repo: repo,
		Bank: bank.NewClient(srv.Client(), srv.URL),
	}
	if err := d.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if repo.payouts[0].Status != models.PayoutStatusPending {
		t.Fatalf("status=%s want pending for retry", repo.payouts[0].Status)
	}
}
