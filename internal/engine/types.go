package engine

import "strings"

// OddsScale is the fixed fractional scale for locked odds: a multiplier of
// 2.5x is stored as 25000.
const OddsScale int64 = 10000

// FeeDenominator is the basis-point denominator for protocol fees.
const FeeDenominator int64 = 10000

type Status string

const (
	StatusActive    Status = "active"
	StatusClosed    Status = "closed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusCancelled
}

type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeAway Outcome = "away"
	OutcomeDraw Outcome = "draw"
)

func ParseOutcome(raw string) (Outcome, error) {
	switch Outcome(strings.ToLower(strings.TrimSpace(raw))) {
	case OutcomeHome:
		return OutcomeHome, nil
	case OutcomeAway:
		return OutcomeAway, nil
	case OutcomeDraw:
		return OutcomeDraw, nil
	}
	return "", ErrInvalidOutcome
}

// Kind selects the settlement policy a market was created with.
type Kind string

const (
	// KindParimutuel pools all stakes and splits the pool among winners by
	// stake share.
	KindParimutuel Kind = "parimutuel"
	// KindFixedOdds locks a payout multiplier per bet at placement time.
	KindFixedOdds Kind = "fixed_odds"
)

func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindParimutuel:
		return KindParimutuel, nil
	case KindFixedOdds:
		return KindFixedOdds, nil
	}
	return "", ErrInvalidKind
}

// StakeTotals holds per-outcome stake amounts, either market-wide or for a
// single account.
type StakeTotals struct {
	Home int64
	Away int64
	Draw int64
}

func (t StakeTotals) Sum() int64 {
	return t.Home + t.Away + t.Draw
}

func (t StakeTotals) For(o Outcome) int64 {
	switch o {
	case OutcomeHome:
		return t.Home
	case OutcomeAway:
		return t.Away
	case OutcomeDraw:
		return t.Draw
	}
	return 0
}

// Opposing returns the combined stake on every outcome other than o.
func (t StakeTotals) Opposing(o Outcome) int64 {
	return t.Sum() - t.For(o)
}
