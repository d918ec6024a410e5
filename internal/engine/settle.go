package engine

import "github.com/shopspring/decimal"

// mulDivFloor computes floor(a*b/c) exactly. Inputs must be non-negative and
// c must be positive; the intermediate product is kept at full precision so
// the result never overflows or rounds before the final division.
func mulDivFloor(a, b, c int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	q, _ := decimal.NewFromInt(a).Mul(decimal.NewFromInt(b)).QuoRem(decimal.NewFromInt(c), 0)
	return q.IntPart()
}

// ParimutuelWinnings returns the gross entitlement for a stake on the scored
// outcome: floor(pool * stake / outcomeTotal), where pool is the combined
// stake across all outcomes. Zero when the account had no winning stake or
// the outcome collected nothing.
func ParimutuelWinnings(pool, outcomeTotal, stake int64) int64 {
	if pool == 0 || outcomeTotal == 0 || stake == 0 {
		return 0
	}
	return mulDivFloor(pool, stake, outcomeTotal)
}

// FixedOddsWinnings returns the gross entitlement for a single bet at its
// locked odds: floor(stake * odds / OddsScale). The stake itself is part of
// the result (a 2.5x bet of 100 pays 250).
func FixedOddsWinnings(stake, odds int64) int64 {
	if stake == 0 || odds == 0 {
		return 0
	}
	return mulDivFloor(stake, odds, OddsScale)
}

// FeeAmount returns floor(amount * feeBps / 10000). feeBps outside [0,10000]
// is clamped by config validation before it reaches here.
func FeeAmount(amount, feeBps int64) int64 {
	if amount == 0 || feeBps == 0 {
		return 0
	}
	return mulDivFloor(amount, feeBps, FeeDenominator)
}

// Liability is the worst-case amount owed beyond the stake itself if the bet
// wins: floor(stake * (odds - OddsScale) / OddsScale). The stake is excluded
// because it is already held by the market.
func Liability(stake, odds int64) int64 {
	if odds <= OddsScale {
		return 0
	}
	return mulDivFloor(stake, odds-OddsScale, OddsScale)
}

// MaxStake returns the largest stake whose liability at the quoted odds fits
// under the solvency bound: liabilities already committed on the outcome plus
// the new bet's liability must not exceed the total staked on the opposing
// outcomes. Returns 0 when no headroom remains.
func MaxStake(opposingTotal, committedLiability, odds int64) int64 {
	if odds <= OddsScale {
		return 0
	}
	headroom := opposingTotal - committedLiability
	if headroom <= 0 {
		return 0
	}
	return mulDivFloor(headroom, OddsScale, odds-OddsScale)
}
