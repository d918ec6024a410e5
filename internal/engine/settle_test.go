package engine

import "testing"

func TestParimutuelWinnings_Rounding(t *testing.T) {
	// Pool Home=300 Away=100, 100 staked on the scored Home outcome.
	gross := ParimutuelWinnings(400, 300, 100)
	if gross != 133 {
		t.Fatalf("gross=%d want 133", gross)
	}
	fee := FeeAmount(gross, 500)
	if fee != 6 {
		t.Fatalf("fee=%d want 6", fee)
	}
	if gross-fee != 127 {
		t.Fatalf("net=%d want 127", gross-fee)
	}
}

func TestParimutuelWinnings_ZeroInputs(t *testing.T) {
	if got := ParimutuelWinnings(0, 300, 100); got != 0 {
		t.Fatalf("zero pool: got %d", got)
	}
	if got := ParimutuelWinnings(400, 0, 100); got != 0 {
		t.Fatalf("zero outcome total: got %d", got)
	}
	if got := ParimutuelWinnings(400, 300, 0); got != 0 {
		t.Fatalf("zero stake: got %d", got)
	}
}

func TestParimutuelWinnings_NeverExceedsPool(t *testing.T) {
	// Sole winner takes the whole pool.
	if got := ParimutuelWinnings(500, 200, 200); got != 500 {
		t.Fatalf("got %d want 500", got)
	}
}

func TestFixedOddsWinnings(t *testing.T) {
	if got := FixedOddsWinnings(100, 25000); got != 250 {
		t.Fatalf("got %d want 250", got)
	}
	// Truncation: 33 * 1.5001 = 49.5033 -> 49.
	if got := FixedOddsWinnings(33, 15001); got != 49 {
		t.Fatalf("got %d want 49", got)
	}
	if got := FixedOddsWinnings(0, 25000); got != 0 {
		t.Fatalf("zero stake: got %d", got)
	}
}

func TestFeeAmount(t *testing.T) {
	if got := FeeAmount(133, 0); got != 0 {
		t.Fatalf("zero bps: got %d", got)
	}
	if got := FeeAmount(133, 10000); got != 133 {
		t.Fatalf("full bps: got %d", got)
	}
	if got := FeeAmount(999, 1); got != 0 {
		t.Fatalf("floor: got %d", got)
	}
}

func TestMulDivFloor_NoOverflow(t *testing.T) {
	// a*b far exceeds int64; exact floor(a*b/c) must still come back.
	a := int64(1) << 62
	got := mulDivFloor(a, 4, 8)
	if want := a / 2; got != want {
		t.Fatalf("got %d want %d", got, want)
	}
}

func TestLiability(t *testing.T) {
	if got := Liability(100, 25000); got != 150 {
		t.Fatalf("got %d want 150", got)
	}
	// Odds at or below 1.0 carry no liability beyond the stake.
	if got := Liability(100, 10000); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
}

func TestMaxStake(t *testing.T) {
	// 1000 opposing, no prior liability, 2.5x odds:
	// floor(1000*10000/15000) = 666, and its liability fits the headroom.
	max := MaxStake(1000, 0, 25000)
	if max != 666 {
		t.Fatalf("max=%d want 666", max)
	}
	if liab := Liability(max, 25000); liab > 1000 {
		t.Fatalf("liability %d exceeds opposing total", liab)
	}

	// At 2.0x, liability equals stake and the bound is exact.
	if got := MaxStake(1000, 0, 20000); got != 1000 {
		t.Fatalf("max=%d want 1000", got)
	}
	if liab := Liability(1001, 20000); liab <= 1000 {
		t.Fatalf("liability(max+1)=%d should exceed opposing total", liab)
	}
}

func TestMaxStake_CommittedLiability(t *testing.T) {
	if got := MaxStake(1000, 1000, 25000); got != 0 {
		t.Fatalf("no headroom: got %d", got)
	}
	if got := MaxStake(1000, 400, 20000); got != 600 {
		t.Fatalf("got %d want 600", got)
	}
	if got := MaxStake(1000, 0, 10000); got != 0 {
		t.Fatalf("odds at scale: got %d", got)
	}
}
