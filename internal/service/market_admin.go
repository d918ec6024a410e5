package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"bookd/internal/engine"
	"bookd/internal/models"
	"bookd/internal/stream"
)

type CreateMarketParams struct {
	Actor     string
	ID        string
	Kind      engine.Kind
	Label     string
	HomeTeam  string
	AwayTeam  string
	Metadata  json.RawMessage
	StartTime time.Time
	Drawable  bool

	// Initial quotes at OddsScale, fixed-odds markets only.
	HomeOdds int64
	AwayOdds int64
}

func (s *MarketService) CreateMarket(ctx context.Context, params CreateMarketParams) (*models.Market, error) {
	if err := s.requireAdmin(params.Actor); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(params.ID)
	if id == "" {
		return nil, engine.ErrMarketNotFound
	}
	switch params.Kind {
	case engine.KindParimutuel:
	case engine.KindFixedOdds:
		// Fixed-odds markets settle home or away only.
		if params.Drawable {
			return nil, engine.ErrMarketNotDrawable
		}
		if params.HomeOdds <= engine.OddsScale || params.AwayOdds <= engine.OddsScale {
			return nil, engine.ErrInvalidOdds
		}
	default:
		return nil, engine.ErrInvalidKind
	}

	item := &models.Market{
		ID:        id,
		Kind:      string(params.Kind),
		Label:     strings.TrimSpace(params.Label),
		HomeTeam:  strings.TrimSpace(params.HomeTeam),
		AwayTeam:  strings.TrimSpace(params.AwayTeam),
		StartTime: params.StartTime.UTC(),
		Status:    string(engine.StatusActive),
		Drawable:  params.Drawable,
	}
	if len(params.Metadata) > 0 {
		item.Metadata = datatypes.JSON(params.Metadata)
	}
	if params.Kind == engine.KindFixedOdds {
		home, away := params.HomeOdds, params.AwayOdds
		item.HomeOdds = &home
		item.AwayOdds = &away
	}

	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		existing, err := s.Repo.GetMarketForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			return engine.ErrMarketExists
		}
		return s.Repo.CreateMarket(ctx, tx, item)
	})
	if err != nil {
		return nil, err
	}

	s.logInfo("market created",
		zap.String("action", "create_market"),
		zap.String("market_id", item.ID),
		zap.String("market_type", item.Kind),
		zap.String("sender", params.Actor),
		zap.String("label", item.Label),
		zap.String("home_team", item.HomeTeam),
		zap.String("away_team", item.AwayTeam),
		zap.Time("start_time", item.StartTime),
	)
	s.publish(stream.Event{
		Type:     stream.EventMarketCreated,
		MarketID: item.ID,
		Attrs: map[string]string{
			"market_type": item.Kind,
			"label":       item.Label,
		},
	})
	return item, nil
}

// UpdateSchedule moves the scheduled start of an active market.
func (s *MarketService) UpdateSchedule(ctx context.Context, actor, marketID string, start time.Time) (*models.Market, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	var updated *models.Market
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		m, err := s.marketForUpdate(ctx, tx, marketID)
		if err != nil {
			return err
		}
		if engine.Status(m.Status) != engine.StatusActive {
			return engine.ErrMarketNotActive
		}
		m.StartTime = start.UTC()
		if err := s.Repo.SaveMarket(ctx, tx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logInfo("market rescheduled",
		append([]zap.Field{
			zap.String("action", "update_market"),
			zap.String("market_id", updated.ID),
			zap.String("market_type", updated.Kind),
			zap.String("sender", actor),
			zap.Time("start_time", updated.StartTime),
		}, totalFields(updated)...)...,
	)
	s.publish(stream.Event{
		Type:     stream.EventMarketUpdated,
		MarketID: updated.ID,
		Attrs: map[string]string{
			"start_time": updated.StartTime.Format(time.RFC3339),
		},
	})
	return updated, nil
}

// UpdateOdds adjusts the quoted odds of an active fixed-odds market. Already
// placed bets keep the odds locked at placement.
func (s *MarketService) UpdateOdds(ctx context.Context, actor, marketID string, homeOdds, awayOdds int64) (*models.Market, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if homeOdds <= engine.OddsScale || awayOdds <= engine.OddsScale {
		return nil, engine.ErrInvalidOdds
	}
	var updated *models.Market
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		m, err := s.marketForUpdate(ctx, tx, marketID)
		if err != nil {
			return err
		}
		if engine.Kind(m.Kind) != engine.KindFixedOdds {
			return engine.ErrKindMismatch
		}
		if engine.Status(m.Status) != engine.StatusActive {
			return engine.ErrMarketNotActive
		}
		m.HomeOdds = &homeOdds
		m.AwayOdds = &awayOdds
		if err := s.Repo.SaveMarket(ctx, tx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logInfo("odds updated",
		zap.String("action", "update_odds"),
		zap.String("market_id", updated.ID),
		zap.String("sender", actor),
		zap.Int64("home_odds", homeOdds),
		zap.Int64("away_odds", awayOdds),
	)
	s.publish(stream.Event{
		Type:     stream.EventOddsUpdated,
		MarketID: updated.ID,
		Attrs: map[string]string{
			"home_odds": strconv.FormatInt(homeOdds, 10),
			"away_odds": strconv.FormatInt(awayOdds, 10),
		},
	})
	return updated, nil
}

// Score records the final result and closes the market. It fails with
// ErrNoWinnings when either side of the book is empty: with no losing stake
// there is nothing to pay winners from, and with no winning stake nobody can
// claim. Such markets are cancelled instead.
func (s *MarketService) Score(ctx context.Context, actor, marketID string, result engine.Outcome) (*models.Market, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	var updated *models.Market
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		m, err := s.marketForUpdate(ctx, tx, marketID)
		if err != nil {
			return err
		}
		if result == engine.OutcomeDraw && !m.Drawable {
			return engine.ErrMarketNotDrawable
		}
		if !engine.CanTransition(engine.Status(m.Status), engine.StatusClosed) {
			return engine.ErrMarketNotActive
		}
		totals := marketTotals(m)
		if totals.For(result) <= 0 || totals.Opposing(result) <= 0 {
			return engine.ErrNoWinnings
		}
		res := string(result)
		m.Status = string(engine.StatusClosed)
		m.Result = &res
		if err := s.Repo.SaveMarket(ctx, tx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logInfo("market scored",
		append([]zap.Field{
			zap.String("action", "score_market"),
			zap.String("market_id", updated.ID),
			zap.String("market_type", updated.Kind),
			zap.String("sender", actor),
			zap.String("status", updated.Status),
			zap.String("result", string(result)),
		}, totalFields(updated)...)...,
	)
	s.publish(stream.Event{
		Type:     stream.EventMarketScored,
		MarketID: updated.ID,
		Attrs: map[string]string{
			"result": string(result),
			"status": updated.Status,
		},
	})
	return updated, nil
}

// Cancel voids an active market; every bettor becomes entitled to a fee-free
// refund of their stakes.
func (s *MarketService) Cancel(ctx context.Context, actor, marketID string) (*models.Market, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	var updated *models.Market
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		m, err := s.marketForUpdate(ctx, tx, marketID)
		if err != nil {
			return err
		}
		if !engine.CanTransition(engine.Status(m.Status), engine.StatusCancelled) {
			return engine.ErrMarketNotActive
		}
		m.Status = string(engine.StatusCancelled)
		if err := s.Repo.SaveMarket(ctx, tx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logInfo("market cancelled",
		append([]zap.Field{
			zap.String("action", "cancel_market"),
			zap.String("market_id", updated.ID),
			zap.String("market_type", updated.Kind),
			zap.String("sender", actor),
			zap.String("status", updated.Status),
		}, totalFields(updated)...)...,
	)
	s.publish(stream.Event{
		Type:     stream.EventMarketCancelled,
		MarketID: updated.ID,
		Attrs: map[string]string{
			"status": updated.Status,
		},
	})
	return updated, nil
}
