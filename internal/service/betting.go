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

// Funds is the settled transfer attached to a bet by the gateway. The amount
// credited to the ledger is always taken from here, never from a separate
// client-supplied field.
type Funds struct {
	Denom  string
	Amount int64
}

type PlaceBetParams struct {
	MarketID string
	Actor    string
	// Receiver optionally redirects the position to another account; it
	// arrives address-validated by the gateway.
	Receiver string
	Outcome  engine.Outcome
	// MinimumOdds at OddsScale guards fixed-odds bets against quotes moving
	// between read and inclusion; 0 disables the guard.
	MinimumOdds int64
	Funds       Funds
}

type BetReceipt struct {
	BetID      string
	Account    string
	Outcome    engine.Outcome
	Amount     int64
	LockedOdds int64
	Totals     engine.StakeTotals
}

// PlaceBet validates market state, timing window and payment, then credits
// the stake to the account's position. Fixed-odds bets additionally lock the
// current quote and are bounded so the book stays solvent: the committed
// liability on an outcome never exceeds what the opposing outcomes have
// staked.
func (s *MarketService) PlaceBet(ctx context.Context, params PlaceBetParams) (*BetReceipt, error) {
	account := strings.TrimSpace(params.Receiver)
	if account == "" {
		account = strings.TrimSpace(params.Actor)
	}
	if account == "" {
		return nil, engine.ErrUnauthorized
	}

	var receipt *BetReceipt
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		m, err := s.marketForUpdate(ctx, tx, params.MarketID)
		if err != nil {
			return err
		}
		if params.Outcome == engine.OutcomeDraw && !m.Drawable {
			return engine.ErrMarketNotDrawable
		}
		if engine.Status(m.Status) != engine.StatusActive {
			return engine.ErrMarketNotActive
		}
		if !engine.BetsAccepted(m.StartTime, s.now(), s.cutoff()) {
			return engine.ErrBetsNotAccepted
		}
		if params.Funds.Amount <= 0 || params.Funds.Denom != s.Cfg.Denom {
			return engine.ErrInvalidPayment
		}

		bet := &models.Bet{
			ID:       uuid.New().String(),
			MarketID: m.ID,
			Account:  account,
			Outcome:  string(params.Outcome),
			Amount:   params.Funds.Amount,
		}

		var locked int64
		if engine.Kind(m.Kind) == engine.KindFixedOdds {
			locked, err = s.acceptFixedOdds(m, params, bet)
			if err != nil {
				return err
			}
		}

		switch params.Outcome {
		case engine.OutcomeHome:
			m.TotalHome += bet.Amount
		case engine.OutcomeAway:
			m.TotalAway += bet.Amount
		case engine.OutcomeDraw:
			m.TotalDraw += bet.Amount
		default:
			return engine.ErrInvalidOutcome
		}

		if err := s.Repo.InsertBet(ctx, tx, bet); err != nil {
			return err
		}
		if err := s.Repo.SaveMarket(ctx, tx, m); err != nil {
			return err
		}
		receipt = &BetReceipt{
			BetID:      bet.ID,
			Account:    account,
			Outcome:    params.Outcome,
			Amount:     bet.Amount,
			LockedOdds: locked,
			Totals:     marketTotals(m),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logInfo("bet placed",
		zap.String("action", "place_bet"),
		zap.String("market_id", params.MarketID),
		zap.String("sender", params.Actor),
		zap.String("receiver", account),
		zap.String("result", string(params.Outcome)),
		zap.Int64("bet_amount", receipt.Amount),
		zap.Int64("locked_odds", receipt.LockedOdds),
		zap.Int64("total_home", receipt.Totals.Home),
		zap.Int64("total_away", receipt.Totals.Away),
		zap.Int64("total_draw", receipt.Totals.Draw),
	)
	s.publish(stream.Event{
		Type:     stream.EventBetPlaced,
		MarketID: params.MarketID,
		Attrs: map[string]string{
			"account": account,
			"outcome": string(params.Outcome),
		},
	})
	return receipt, nil
}

// acceptFixedOdds locks the current quote onto the bet after the slippage
// guard and the solvency bound pass. Totals on the market row are still
// pre-bet here, so the opposing total is exactly the collateral available.
func (s *MarketService) acceptFixedOdds(m *models.Market, params PlaceBetParams, bet *models.Bet) (int64, error) {
	var quoted int64
	switch params.Outcome {
	case engine.OutcomeHome:
		if m.HomeOdds != nil {
			quoted = *m.HomeOdds
		}
	case engine.OutcomeAway:
		if m.AwayOdds != nil {
			quoted = *m.AwayOdds
		}
	default:
		return 0, engine.ErrInvalidOutcome
	}
	if quoted <= engine.OddsScale {
		return 0, engine.ErrInvalidOdds
	}
	if params.MinimumOdds > 0 && quoted < params.MinimumOdds {
		return 0, engine.ErrMinimumOdds
	}

	totals := marketTotals(m)
	committed := m.LiabilityHome
	if params.Outcome == engine.OutcomeAway {
		committed = m.LiabilityAway
	}
	liability := engine.Liability(bet.Amount, quoted)
	if committed+liability > totals.Opposing(params.Outcome) {
		return 0, engine.ErrMaxBetExceeded
	}

	if params.Outcome == engine.OutcomeHome {
		m.LiabilityHome += liability
	} else {
		m.LiabilityAway += liability
	}
	bet.LockedOdds = &quoted
	return quoted, nil
}
