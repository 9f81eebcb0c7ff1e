package shard

import "testing"

func dataAreaOf(numData int, usable int, fill byte) []byte {
	area := make([]byte, numData*4096)
	for i := 0; i < usable; i++ {
		area[i] = fill
	}
	return area
}

func TestPaddingRoundTrip(t *testing.T) {
	numData := 2
	capacity := DataAreaSize(numData) // N*B - 1 == 8191

	cases := []int{0, 1, 127, 128, 200, capacity - 1, capacity}
	for _, usable := range cases {
		area := dataAreaOf(numData, usable, 0xAA)
		ApplyPadding(area, usable)
		got := StripPadding(area)
		if got != usable {
			t.Fatalf("usable=%d: StripPadding returned %d", usable, got)
		}
	}
}

func TestPaddingFlagBytes(t *testing.T) {
	numData := 2
	capacity := DataAreaSize(numData)

	full := dataAreaOf(numData, capacity, 0xAA)
	ApplyPadding(full, capacity)
	if full[len(full)-1] != 0 {
		t.Fatalf("full block: flag byte = %d want 0", full[len(full)-1])
	}

	// A shortfall of 100 bytes fits the single-byte form directly.
	tiny := dataAreaOf(numData, capacity-100, 0x33)
	ApplyPadding(tiny, capacity-100)
	if tiny[len(tiny)-1] != 100 {
		t.Fatalf("tiny shortfall: flag byte = %d want 100", tiny[len(tiny)-1])
	}

	// A shortfall of 200 bytes is >= 128, so it takes the 32-bit escape
	// form (flag byte 0x80, shortfall stored as a 4-byte field), not a
	// literal single-byte count - the single-byte form only covers
	// shortfalls in [1,127].
	short := dataAreaOf(numData, capacity-200, 0x55)
	ApplyPadding(short, capacity-200)
	if short[len(short)-1] != 0x80 {
		t.Fatalf("short block: flag byte = %#x want 0x80", short[len(short)-1])
	}
	if got := getUint32LE(short[len(short)-9 : len(short)-5]); got != 200 {
		t.Fatalf("short block: stored shortfall = %d want 200", got)
	}

	wayShort := dataAreaOf(numData, 0, 0)
	ApplyPadding(wayShort, 0)
	if wayShort[len(wayShort)-1] != 0x80 {
		t.Fatalf("empty block: flag byte = %#x want 0x80", wayShort[len(wayShort)-1])
	}
	missing := getUint32LE(wayShort[len(wayShort)-9 : len(wayShort)-5])
	if int(missing) != capacity {
		t.Fatalf("empty block: missing = %d want %d", missing, capacity)
	}
}
