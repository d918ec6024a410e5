package models

import "time"

const (
	PayoutKindWinnings = "winnings"
	PayoutKindRefund   = "refund"
	PayoutKindFee      = "fee"

	PayoutStatusPending = "pending"
	PayoutStatusSent    = "sent"
	PayoutStatusFailed  = "failed"
)

// Payout is an outbound transfer order. The settlement transaction persists
// it as pending; the dispatcher forwards it to the bank host and records the
// result. The row ID doubles as the idempotency reference on the wire.
type Payout struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	MarketID string `gorm:"type:varchar(100);not null;index"`
	Account  string `gorm:"type:varchar(100);not null"`
	Amount   int64  `gorm:"not null"`
	Denom    string `gorm:"type:varchar(40);not null"`
	Kind     string `gorm:"type:varchar(20);not null"`
	Status   string `gorm:"type:varchar(20);not null;index"`

	LastError string     `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"type:timestamptz;autoCreateTime"`
	SentAt    *time.Time `gorm:"type:timestamptz"`
}

func (Payout) TableName() string {
	return "payouts"
}
