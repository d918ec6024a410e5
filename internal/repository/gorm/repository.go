package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookd/internal/engine"
	"bookd/internal/models"
	"bookd/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// conn picks the transaction handle when one is in flight.
func (s *Store) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}

// --- markets ----------------------------------------------------------------

func (s *Store) CreateMarket(ctx context.Context, tx *gorm.DB, item *models.Market) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.conn(ctx, tx).Create(item).Error
}

func (s *Store) GetMarket(ctx context.Context, id string) (*models.Market, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Market
	err := s.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetMarketForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Market, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Market
	err := s.conn(ctx, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", strings.TrimSpace(id)).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveMarket(ctx context.Context, tx *gorm.DB, item *models.Market) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.conn(ctx, tx).Save(item).Error
}

func (s *Store) ListMarkets(ctx context.Context, params repository.ListMarketsParams) ([]models.Market, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.marketsQuery(ctx, params)
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Market
	if err := query.Order("start_time asc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountMarkets(ctx context.Context, params repository.ListMarketsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	if err := s.marketsQuery(ctx, params).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) marketsQuery(ctx context.Context, params repository.ListMarketsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Market{})
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	if params.Kind != nil && strings.TrimSpace(*params.Kind) != "" {
		query = query.Where("kind = ?", strings.TrimSpace(*params.Kind))
	}
	return query
}

// --- bets -------------------------------------------------------------------

func (s *Store) InsertBet(ctx context.Context, tx *gorm.DB, item *models.Bet) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.conn(ctx, tx).Create(item).Error
}

func (s *Store) SumStakesByAccount(ctx context.Context, tx *gorm.DB, marketID, account string) (engine.StakeTotals, error) {
	if s == nil || s.db == nil {
		return engine.StakeTotals{}, nil
	}
	type row struct {
		Outcome string
		Total   int64
	}
	var rows []row
	err := s.conn(ctx, tx).
		Model(&models.Bet{}).
		Select("outcome, COALESCE(SUM(amount),0) AS total").
		Where("market_id = ?", marketID).
		Where("account = ?", account).
		Group("outcome").
		Scan(&rows).Error
	if err != nil {
		return engine.StakeTotals{}, err
	}
	var totals engine.StakeTotals
	for _, r := range rows {
		switch engine.Outcome(r.Outcome) {
		case engine.OutcomeHome:
			totals.Home = r.Total
		case engine.OutcomeAway:
			totals.Away = r.Total
		case engine.OutcomeDraw:
			totals.Draw = r.Total
		}
	}
	return totals, nil
}

func (s *Store) ListBetsByAccountOutcome(ctx context.Context, tx *gorm.DB, marketID, account string, outcome engine.Outcome) ([]models.Bet, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Bet
	err := s.conn(ctx, tx).
		Where("market_id = ?", marketID).
		Where("account = ?", account).
		Where("outcome = ?", string(outcome)).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- claims -----------------------------------------------------------------

func (s *Store) HasClaim(ctx context.Context, tx *gorm.DB, marketID, account string) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	var count int64
	err := s.conn(ctx, tx).
		Model(&models.Claim{}).
		Where("market_id = ?", marketID).
		Where("account = ?", account).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) InsertClaim(ctx context.Context, tx *gorm.DB, item *models.Claim) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.conn(ctx, tx).Create(item).Error
}

// --- payouts ----------------------------------------------------------------

func (s *Store) InsertPayout(ctx context.Context, tx *gorm.DB, item *models.Payout) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.conn(ctx, tx).Create(item).Error
}

func (s *Store) ListPendingPayouts(ctx context.Context, limit int) ([]models.Payout, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 100)
	var items []models.Payout
	err := s.db.WithContext(ctx).
		Where("status = ?", models.PayoutStatusPending).
		Order("created_at asc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) MarkPayoutSent(ctx context.Context, id string, at time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Payout{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":  models.PayoutStatusSent,
			"sent_at": at,
		}).Error
}

func (s *Store) MarkPayoutFailed(ctx context.Context, id string, reason string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Payout{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     models.PayoutStatusFailed,
			"last_error": reason,
		}).Error
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 || limit > 1000 {
		return fallback
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
