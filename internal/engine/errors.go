package engine

import "errors"

// Every failed operation aborts atomically and surfaces one of these. The
// HTTP layer maps them to status codes; anything else is an infrastructure
// error and propagates as-is.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMarketNotFound    = errors.New("market not found")
	ErrMarketExists      = errors.New("market already exists")
	ErrMarketNotActive   = errors.New("market not active")
	ErrMarketNotClosed   = errors.New("market not closed")
	ErrMarketNotDrawable = errors.New("market not drawable")
	ErrBetsNotAccepted   = errors.New("bets no longer accepted")
	ErrInvalidPayment    = errors.New("payment missing or wrong denomination")
	ErrMinimumOdds       = errors.New("minimum odds not fulfilled")
	ErrMaxBetExceeded    = errors.New("bet exceeds solvency bound")
	ErrClaimAlreadyMade  = errors.New("claim already made")
	ErrNoWinnings        = errors.New("no winnings")
	ErrInvalidOdds       = errors.New("odds must be greater than 1.0")
	ErrInvalidOutcome    = errors.New("invalid outcome")
	ErrInvalidKind       = errors.New("invalid market kind")
	ErrKindMismatch      = errors.New("operation not supported by market kind")
)
