package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bookd/internal/bank"
	"bookd/internal/models"
	"bookd/internal/repository"
)

// PayoutDispatcher forwards pending payout orders to the bank host. Dispatch
// is at-least-once: a transport failure leaves the order pending for the next
// run, and the payout row ID is the idempotency reference so the host can
// drop duplicates. Orders the host rejects outright are marked failed for
// operator review instead of being retried forever.
type PayoutDispatcher struct {
	Repo      repository.Repository
	Bank      *bank.Client
	Logger    *zap.Logger
	BatchSize int
}

func (d *PayoutDispatcher) RunOnce(ctx context.Context) error {
	if d == nil || d.Repo == nil || d.Bank == nil {
		return nil
	}
	batch := d.BatchSize
	if batch <= 0 {
		batch = 100
	}
	pending, err := d.Repo.ListPendingPayouts(ctx, batch)
	if err != nil {
		return err
	}
	for _, p := range pending {
		if err := d.dispatch(ctx, p); err != nil && d.Logger != nil {
			d.Logger.Warn("payout dispatch failed",
				zap.String("payout_id", p.ID),
				zap.String("market_id", p.MarketID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (d *PayoutDispatcher) dispatch(ctx context.Context, p models.Payout) error {
	err := d.Bank.SendTransfer(ctx, bank.TransferOrder{
		Ref:    p.ID,
		To:     p.Account,
		Amount: p.Amount,
		Denom:  p.Denom,
		Memo:   fmt.Sprintf("%s:%s", p.Kind, p.MarketID),
	})
	if err != nil {
		var apiErr *bank.APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			// The host refused the order; retrying the same payload is futile.
			if markErr := d.Repo.MarkPayoutFailed(ctx, p.ID, apiErr.Error()); markErr != nil {
				return markErr
			}
		}
		return err
	}
	if err := d.Repo.MarkPayoutSent(ctx, p.ID, time.Now().UTC()); err != nil {
		return err
	}
	if d.Logger != nil {
		d.Logger.Info("payout sent",
			zap.String("payout_id", p.ID),
			zap.String("market_id", p.MarketID),
			zap.String("account", p.Account),
			zap.String("kind", p.Kind),
			zap.Int64("amount", p.Amount),
		)
	}
	return nil
}
