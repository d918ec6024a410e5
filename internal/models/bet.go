package models

import "time"

// Bet is one accepted wager. The ledger keeps one row per bet rather than an
// accumulator per account so fixed-odds bets retain the odds locked at
// placement even when quotes move between bets.
type Bet struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	MarketID string `gorm:"type:varchar(100);not null;index:idx_bets_market_account"`
	Account  string `gorm:"type:varchar(100);not null;index:idx_bets_market_account"`
	Outcome  string `gorm:"type:varchar(10);not null"`
	Amount   int64  `gorm:"not null"`

	// LockedOdds is nil for pari-mutuel bets.
	LockedOdds *int64 `gorm:"type:bigint"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Bet) TableName() string {
	return "bets"
}
