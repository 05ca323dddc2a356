package models

import "testing"

func TestHolderTicketValue(t *testing.T) {
	cases := []struct {
		holder int
		want   int
	}{
		{1, 30},
		{4, 30},
		{5, 50},
		{8, 50},
		{9, 20},
		{14, 20},
		{15, 10},
		{32, 10},
		{33, 5},  // the $5 range overrides the $10 block
		{41, 5},  // last holder of the $5 range
		{42, 10}, // forced back to $10 after the $5 range
		{43, 1},
		{46, 1},
		{47, 2},
		{55, 2},
		{56, 5},
		{0, 0},
		{57, 0},
		{-3, 0},
	}
	for _, tc := range cases {
		if got := HolderTicketValue(tc.holder); got != tc.want {
			t.Errorf("HolderTicketValue(%d) = %d, want %d", tc.holder, got, tc.want)
		}
	}
}

func TestHolderSequenceCoversEveryHolderOnce(t *testing.T) {
	seq := HolderSequence()
	if len(seq) != HolderCount {
		t.Fatalf("sequence length = %d, want %d", len(seq), HolderCount)
	}

	seen := make(map[int]bool, HolderCount)
	for _, h := range seq {
		if h < 1 || h > HolderCount {
			t.Fatalf("sequence contains out-of-range holder %d", h)
		}
		if seen[h] {
			t.Fatalf("sequence contains holder %d twice", h)
		}
		seen[h] = true
	}
}

func TestHolderSequenceWalkOrder(t *testing.T) {
	seq := HolderSequence()

	// Spot-check the turns of the walk: down 1-14, back up 28-15, down
	// 29-42, back up 56-43.
	checks := []struct {
		index int
		want  int
	}{
		{0, 1},
		{13, 14},
		{14, 28},
		{27, 15},
		{28, 29},
		{41, 42},
		{42, 56},
		{55, 43},
	}
	for _, tc := range checks {
		if seq[tc.index] != tc.want {
			t.Errorf("seq[%d] = %d, want %d", tc.index, seq[tc.index], tc.want)
		}
	}
}
