package models

import "time"

// Claim marks an account as paid for a market. Existence of the row is the
// claimed flag; it is written exactly once and never updated.
type Claim struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	MarketID string `gorm:"type:varchar(100);not null;uniqueIndex:idx_claims_market_account"`
	Account  string `gorm:"type:varchar(100);not null;uniqueIndex:idx_claims_market_account"`

	Gross  int64 `gorm:"not null"`
	Fee    int64 `gorm:"not null"`
	Payout int64 `gorm:"not null"`

	ClaimedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Claim) TableName() string {
	return "claims"
}
