package collectible

import (
	"math"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	cases := []struct {
		series uint32
		item   uint32
	}{
		{0, 0},
		{0, 1},
		{1, 0},
		{100, 1},
		{100, math.MaxUint32},
		{math.MaxUint32, 1},
		{math.MaxUint32, math.MaxUint32},
		{12345, 67890},
	}
	for _, tc := range cases {
		encoded := EncodeItemID(tc.series, tc.item)
		series, item := DecodeItemID(encoded)
		if series != tc.series || item != tc.item {
			t.Fatalf("round trip (%d,%d) -> %d -> (%d,%d)", tc.series, tc.item, encoded, series, item)
		}
	}
}

func TestCodecDisjointHalves(t *testing.T) {
	a := EncodeItemID(1, 0)
	b := EncodeItemID(0, 1)
	if a == b {
		t.Fatalf("distinct pairs must not collide: %d", a)
	}
	if a != 1<<32 {
		t.Fatalf("series must occupy the high half, got %d", a)
	}
	if b != 1 {
		t.Fatalf("item must occupy the low half, got %d", b)
	}
}

func TestCodecNoCollisionAcrossSeriesBoundary(t *testing.T) {
	// The largest item of one series and the zero item of the next differ.
	top := EncodeItemID(100, math.MaxUint32)
	next := EncodeItemID(101, 0)
	if top+1 != next {
		t.Fatalf("expected adjacent encodings, got %d and %d", top, next)
	}
}
