package engine

import "time"

// DefaultBetCutoff is how long before the scheduled start bets stop being
// accepted.
const DefaultBetCutoff = 5 * time.Minute

// BetsAccepted reports whether a bet submitted at now is still inside the
// betting window. A bet at or after (start - cutoff) is rejected even while
// the market is active.
func BetsAccepted(start, now time.Time, cutoff time.Duration) bool {
	if cutoff <= 0 {
		cutoff = DefaultBetCutoff
	}
	return now.Before(start.Add(-cutoff))
}

// CanTransition validates the one-way lifecycle: active markets may close or
// cancel, terminal states never change.
func CanTransition(from, to Status) bool {
	if from != StatusActive {
		return false
	}
	return to == StatusClosed || to == StatusCancelled
}
