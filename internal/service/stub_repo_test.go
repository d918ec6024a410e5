package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bookd/internal/engine"
	"bookd/internal/models"
	"bookd/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// Transactions degrade to plain calls; locking semantics are not exercised.
type stubRepo struct {
	markets map[string]*models.Market
	bets    []models.Bet
	claims  []models.Claim
	payouts []models.Payout
}

func newStubRepo() *stubRepo {
	return &stubRepo{markets: make(map[string]*models.Market)}
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func (s *stubRepo) CreateMarket(ctx context.Context, tx *gorm.DB, item *models.Market) error {
	cp := *item
	s.markets[item.ID] = &cp
	return nil
}

func (s *stubRepo) GetMarket(ctx context.Context, id string) (*models.Market, error) {
	m, ok := s.markets[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *stubRepo) GetMarketForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Market, error) {
	return s.GetMarket(ctx, id)
}

func (s *stubRepo) SaveMarket(ctx context.Context, tx *gorm.DB, item *models.Market) error {
	cp := *item
	s.markets[item.ID] = &cp
	return nil
}

func (s *stubRepo) ListMarkets(ctx context.Context, params repository.ListMarketsParams) ([]models.Market, error) {
	var out []models.Market
	for _, m := range s.markets {
		if params.Status != nil && m.Status != *params.Status {
			continue
		}
		if params.Kind != nil && m.Kind != *params.Kind {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (s *stubRepo) CountMarkets(ctx context.Context, params repository.ListMarketsParams) (int64, error) {
	items, _ := s.ListMarkets(ctx, params)
	return int64(len(items)), nil
}

func (s *stubRepo) InsertBet(ctx context.Context, tx *gorm.DB, item *models.Bet) error {
	s.bets = append(s.bets, *item)
	return nil
}

func (s *stubRepo) SumStakesByAccount(ctx context.Context, tx *gorm.DB, marketID, account string) (engine.StakeTotals, error) {
	var totals engine.StakeTotals
	for _, b := range s.bets {
		if b.MarketID != marketID || b.Account != account {
			continue
		}
		switch engine.Outcome(b.Outcome) {
		case engine.OutcomeHome:
			totals.Home += b.Amount
		case engine.OutcomeAway:
			totals.Away += b.Amount
		case engine.OutcomeDraw:
			totals.Draw += b.Amount
		}
	}
	return totals, nil
}

func (s *stubRepo) ListBetsByAccountOutcome(ctx context.Context, tx *gorm.DB, marketID, account string, outcome engine.Outcome) ([]models.Bet, error) {
	var out []models.Bet
	for _, b := range s.bets {
		if b.MarketID == marketID && b.Account == account && b.Outcome == string(outcome) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubRepo) HasClaim(ctx context.Context, tx *gorm.DB, marketID, account string) (bool, error) {
	for _, c := range s.claims {
		if c.MarketID == marketID && c.Account == account {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) InsertClaim(ctx context.Context, tx *gorm.DB, item *models.Claim) error {
	s.claims = append(s.claims, *item)
	return nil
}

func (s *stubRepo) InsertPayout(ctx context.Context, tx *gorm.DB, item *models.Payout) error {
	s.payouts = append(s.payouts, *item)
	return nil
}

func (s *stubRepo) ListPendingPayouts(ctx context.Context, limit int) ([]models.Payout, error) {
	var out []models.Payout
	for _, p := range s.payouts {
		if p.Status != models.PayoutStatusPending {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *stubRepo) MarkPayoutSent(ctx context.Context, id string, at time.Time) error {
	for i := range s.payouts {
		if s.payouts[i].ID == id {
			s.payouts[i].Status = models.PayoutStatusSent
			s.payouts[i].SentAt = &at
		}
	}
	return nil
}

func (s *stubRepo) MarkPayoutFailed(ctx context.Context, id string, reason string) error {
	for i := range s.payouts {
		if s.payouts[i].ID == id {
			s.payouts[i].Status = models.PayoutStatusFailed
			s.payouts[i].LastError = reason
		}
	}
	return nil
}

var _ repository.Repository = (*stubRepo)(nil)
