package models

import (
	"time"

	"gorm.io/datatypes"
)

// Market is the authoritative lifecycle record for one event. Per-outcome
// totals and committed fixed-odds liabilities live on the row so a single
// SELECT ... FOR UPDATE makes every mutating operation atomic.
type Market struct {
	ID       string         `gorm:"primaryKey;type:varchar(100)"`
	Kind     string         `gorm:"type:varchar(20);not null;index"`
	Label    string         `gorm:"type:text;not null"`
	HomeTeam string         `gorm:"type:text;not null"`
	AwayTeam string         `gorm:"type:text;not null"`
	Metadata datatypes.JSON `gorm:"type:jsonb"`

	StartTime time.Time `gorm:"type:timestamptz;not null"`
	Status    string    `gorm:"type:varchar(20);not null;index"`
	Result    *string   `gorm:"type:varchar(10)"`
	Drawable  bool      `gorm:"not null;default:false"`

	// Quoted odds at OddsScale, fixed-odds markets only.
	HomeOdds *int64 `gorm:"type:bigint"`
	AwayOdds *int64 `gorm:"type:bigint"`

	TotalHome int64 `gorm:"not null;default:0"`
	TotalAway int64 `gorm:"not null;default:0"`
	TotalDraw int64 `gorm:"not null;default:0"`

	// Worst-case payout obligations beyond stakes, fixed-odds markets only.
	LiabilityHome int64 `gorm:"not null;default:0"`
	LiabilityAway int64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Market) TableName() string {
	return "markets"
}
