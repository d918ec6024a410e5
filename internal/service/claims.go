package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookd/internal/engine"
	"bookd/internal/models"
	"bookd/internal/stream"
)

type ClaimParams struct {
	MarketID string
	Actor    string
	Receiver string
}

type ClaimReceipt struct {
	Account string
	Gross   int64
	Fee     int64
	Payout  int64
	// PayoutID references the transfer order to the beneficiary; FeePayoutID
	// the one to the treasury, empty when no fee applied.
	PayoutID    string
	FeePayoutID string
}

// ClaimWinnings pays an account exactly once after the market reaches a
// terminal state. Scored markets pay per the market's settlement policy minus
// the protocol fee; cancelled markets refund all stakes fee-free. A zero net
// entitlement fails with ErrNoWinnings and does not mark the account claimed,
// so the call stays retryable if it was made prematurely by mistake.
func (s *MarketService) ClaimWinnings(ctx context.Context, params ClaimParams) (*ClaimReceipt, error) {
	account := strings.TrimSpace(params.Receiver)
	if account == "" {
		account = strings.TrimSpace(params.Actor)
	}
	if account == "" {
		return nil, engine.ErrUnauthorized
	}

	var receipt *ClaimReceipt
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		m, err := s.marketForUpdate(ctx, tx, params.MarketID)
		if err != nil {
			return err
		}
		if !engine.Status(m.Status).Terminal() {
			return engine.ErrMarketNotClosed
		}
		claimed, err := s.Repo.HasClaim(ctx, tx, m.ID, account)
		if err != nil {
			return err
		}
		if claimed {
			return engine.ErrClaimAlreadyMade
		}

		gross, err := s.grossEntitlement(ctx, tx, m, account)
		if err != nil {
			return err
		}
		var fee int64
		if engine.Status(m.Status) == engine.StatusClosed {
			fee = engine.FeeAmount(gross, s.Cfg.FeeBps)
		}
		payout := gross - fee
		if payout <= 0 {
			return engine.ErrNoWinnings
		}

		claim := &models.Claim{
			MarketID: m.ID,
			Account:  account,
			Gross:    gross,
			Fee:      fee,
			Payout:   payout,
		}
		if err := s.Repo.InsertClaim(ctx, tx, claim); err != nil {
			return err
		}

		kind := models.PayoutKindWinnings
		if engine.Status(m.Status) == engine.StatusCancelled {
			kind = models.PayoutKindRefund
		}
		order := &models.Payout{
			ID:       uuid.New().String(),
			MarketID: m.ID,
			Account:  account,
			Amount:   payout,
			Denom:    s.Cfg.Denom,
			Kind:     kind,
			Status:   models.PayoutStatusPending,
		}
		if err := s.Repo.InsertPayout(ctx, tx, order); err != nil {
			return err
		}
		receipt = &ClaimReceipt{
			Account:  account,
			Gross:    gross,
			Fee:      fee,
			Payout:   payout,
			PayoutID: order.ID,
		}

		if fee > 0 {
			feeOrder := &models.Payout{
				ID:       uuid.New().String(),
				MarketID: m.ID,
				Account:  s.Cfg.TreasuryAccount,
				Amount:   fee,
				Denom:    s.Cfg.Denom,
				Kind:     models.PayoutKindFee,
				Status:   models.PayoutStatusPending,
			}
			if err := s.Repo.InsertPayout(ctx, tx, feeOrder); err != nil {
				return err
			}
			receipt.FeePayoutID = feeOrder.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logInfo("winnings claimed",
		zap.String("action", "claim_winnings"),
		zap.String("market_id", params.MarketID),
		zap.String("sender", params.Actor),
		zap.String("receiver", account),
		zap.Int64("gross", receipt.Gross),
		zap.Int64("fee", receipt.Fee),
		zap.Int64("payout", receipt.Payout),
	)
	s.publish(stream.Event{
		Type:     stream.EventWinningsClaimed,
		MarketID: params.MarketID,
		Attrs: map[string]string{
			"account": account,
		},
	})
	return receipt, nil
}

// grossEntitlement computes what the account is owed before fees: a full
// refund on cancellation, otherwise the settlement policy's winnings for the
// recorded result.
func (s *MarketService) grossEntitlement(ctx context.Context, tx *gorm.DB, m *models.Market, account string) (int64, error) {
	stakes, err := s.Repo.SumStakesByAccount(ctx, tx, m.ID, account)
	if err != nil {
		return 0, err
	}
	if engine.Status(m.Status) == engine.StatusCancelled {
		return stakes.Sum(), nil
	}
	if m.Result == nil {
		return 0, nil
	}
	result := engine.Outcome(*m.Result)

	switch engine.Kind(m.Kind) {
	case engine.KindFixedOdds:
		bets, err := s.Repo.ListBetsByAccountOutcome(ctx, tx, m.ID, account, result)
		if err != nil {
			return 0, err
		}
		var gross int64
		for _, b := range bets {
			if b.LockedOdds == nil {
				continue
			}
			gross += engine.FixedOddsWinnings(b.Amount, *b.LockedOdds)
		}
		return gross, nil
	default:
		totals := marketTotals(m)
		return engine.ParimutuelWinnings(totals.Sum(), totals.For(result), stakes.For(result)), nil
	}
}
