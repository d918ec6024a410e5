package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookd/internal/config"
	"bookd/internal/engine"
	"bookd/internal/models"
	"bookd/internal/repository"
	"bookd/internal/stream"
)

// MarketService hosts the settlement core: market lifecycle, bet ledger,
// settlement/fee math and the claim guard. Every public method is one atomic
// step: all writes happen inside a single repository transaction with the
// market row locked, so a failed call leaves no partial state.
type MarketService struct {
	Repo   repository.Repository
	Cfg    config.ProtocolConfig
	Logger *zap.Logger
	Stream *stream.Hub

	// Clock overrides time.Now in tests; nil means wall clock.
	Clock func() time.Time
}

func (s *MarketService) now() time.Time {
	if s != nil && s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

func (s *MarketService) cutoff() time.Duration {
	if s.Cfg.BetCutoff > 0 {
		return s.Cfg.BetCutoff
	}
	return engine.DefaultBetCutoff
}

func (s *MarketService) requireAdmin(actor string) error {
	if strings.TrimSpace(actor) == "" || actor != s.Cfg.AdminAccount {
		return engine.ErrUnauthorized
	}
	return nil
}

func (s *MarketService) marketForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Market, error) {
	m, err := s.Repo.GetMarketForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, engine.ErrMarketNotFound
	}
	return m, nil
}

func (s *MarketService) publish(ev stream.Event) {
	if s.Stream != nil {
		s.Stream.Publish(ev)
	}
}

func (s *MarketService) logInfo(msg string, fields ...zap.Field) {
	if s.Logger != nil {
		s.Logger.Info(msg, fields...)
	}
}

func marketTotals(m *models.Market) engine.StakeTotals {
	return engine.StakeTotals{
		Home: m.TotalHome,
		Away: m.TotalAway,
		Draw: m.TotalDraw,
	}
}

func totalFields(m *models.Market) []zap.Field {
	return []zap.Field{
		zap.Int64("total_home", m.TotalHome),
		zap.Int64("total_away", m.TotalAway),
		zap.Int64("total_draw", m.TotalDraw),
	}
}
