package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bookd/internal/engine"
	"bookd/internal/models"
)

// Repository is the persistence surface of the settlement core. Methods that
// accept a tx participate in the surrounding transaction when tx is non-nil
// and run standalone otherwise; every public operation on a market runs
// inside InTx with the market row locked for update, which is what makes each
// call a single atomic step.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	CreateMarket(ctx context.Context, tx *gorm.DB, item *models.Market) error
	GetMarket(ctx context.Context, id string) (*models.Market, error)
	GetMarketForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Market, error)
	SaveMarket(ctx context.Context, tx *gorm.DB, item *models.Market) error
	ListMarkets(ctx context.Context, params ListMarketsParams) ([]models.Market, error)
	CountMarkets(ctx context.Context, params ListMarketsParams) (int64, error)

	InsertBet(ctx context.Context, tx *gorm.DB, item *models.Bet) error
	SumStakesByAccount(ctx context.Context, tx *gorm.DB, marketID, account string) (engine.StakeTotals, error)
	ListBetsByAccountOutcome(ctx context.Context, tx *gorm.DB, marketID, account string, outcome engine.Outcome) ([]models.Bet, error)

	HasClaim(ctx context.Context, tx *gorm.DB, marketID, account string) (bool, error)
	InsertClaim(ctx context.Context, tx *gorm.DB, item *models.Claim) error

	InsertPayout(ctx context.Context, tx *gorm.DB, item *models.Payout) error
	ListPendingPayouts(ctx context.Context, limit int) ([]models.Payout, error)
	MarkPayoutSent(ctx context.Context, id string, at time.Time) error
	MarkPayoutFailed(ctx context.Context, id string, reason string) error
}

type ListMarketsParams struct {
	Limit  int
	Offset int
	Status *string
	Kind   *string
}
