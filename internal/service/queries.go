package service

import (
	"context"

	"bookd/internal/config"
	"bookd/internal/engine"
	"bookd/internal/models"
	"bookd/internal/repository"
)

func (s *MarketService) Config() config.ProtocolConfig {
	return s.Cfg
}

func (s *MarketService) GetMarket(ctx context.Context, id string) (*models.Market, error) {
	m, err := s.Repo.GetMarket(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, engine.ErrMarketNotFound
	}
	return m, nil
}

func (s *MarketService) ListMarkets(ctx context.Context, params repository.ListMarketsParams) ([]models.Market, int64, error) {
	items, err := s.Repo.ListMarkets(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.Repo.CountMarkets(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

// Odds returns the current quotes of a fixed-odds market at OddsScale.
func (s *MarketService) Odds(ctx context.Context, id string) (home, away int64, err error) {
	m, err := s.GetMarket(ctx, id)
	if err != nil {
		return 0, 0, err
	}
	if engine.Kind(m.Kind) != engine.KindFixedOdds || m.HomeOdds == nil || m.AwayOdds == nil {
		return 0, 0, engine.ErrKindMismatch
	}
	return *m.HomeOdds, *m.AwayOdds, nil
}

// MaxBet returns the largest stake currently acceptable on an outcome under
// the solvency bound, so clients can size bets without burning failed calls.
func (s *MarketService) MaxBet(ctx context.Context, id string, outcome engine.Outcome) (int64, error) {
	m, err := s.GetMarket(ctx, id)
	if err != nil {
		return 0, err
	}
	if engine.Kind(m.Kind) != engine.KindFixedOdds {
		return 0, engine.ErrKindMismatch
	}
	var quoted, committed int64
	switch outcome {
	case engine.OutcomeHome:
		if m.HomeOdds != nil {
			quoted = *m.HomeOdds
		}
		committed = m.LiabilityHome
	case engine.OutcomeAway:
		if m.AwayOdds != nil {
			quoted = *m.AwayOdds
		}
		committed = m.LiabilityAway
	default:
		return 0, engine.ErrInvalidOutcome
	}
	return engine.MaxStake(marketTotals(m).Opposing(outcome), committed, quoted), nil
}

// Totals returns the market-wide stake per outcome.
func (s *MarketService) Totals(ctx context.Context, id string) (engine.StakeTotals, error) {
	m, err := s.GetMarket(ctx, id)
	if err != nil {
		return engine.StakeTotals{}, err
	}
	return marketTotals(m), nil
}

// BetsByAccount returns one account's accumulated stake per outcome.
func (s *MarketService) BetsByAccount(ctx context.Context, id, account string) (engine.StakeTotals, error) {
	if _, err := s.GetMarket(ctx, id); err != nil {
		return engine.StakeTotals{}, err
	}
	return s.Repo.SumStakesByAccount(ctx, nil, id, account)
}

type Estimate struct {
	Gross int64
	Fee   int64
	Net   int64
}

// EstimateWinnings computes an account's entitlement under a hypothetical
// result, using current pools and locked odds. Purely informational; the
// pari-mutuel figure keeps moving until betting closes.
func (s *MarketService) EstimateWinnings(ctx context.Context, id, account string, result engine.Outcome) (Estimate, error) {
	m, err := s.GetMarket(ctx, id)
	if err != nil {
		return Estimate{}, err
	}
	var gross int64
	switch engine.Kind(m.Kind) {
	case engine.KindFixedOdds:
		bets, err := s.Repo.ListBetsByAccountOutcome(ctx, nil, m.ID, account, result)
		if err != nil {
			return Estimate{}, err
		}
		for _, b := range bets {
			if b.LockedOdds == nil {
				continue
			}
			gross += engine.FixedOddsWinnings(b.Amount, *b.LockedOdds)
		}
	default:
		stakes, err := s.Repo.SumStakesByAccount(ctx, nil, m.ID, account)
		if err != nil {
			return Estimate{}, err
		}
		totals := marketTotals(m)
		gross = engine.ParimutuelWinnings(totals.Sum(), totals.For(result), stakes.For(result))
	}
	fee := engine.FeeAmount(gross, s.Cfg.FeeBps)
	return Estimate{Gross: gross, Fee: fee, Net: gross - fee}, nil
}
