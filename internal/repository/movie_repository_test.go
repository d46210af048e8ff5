package repository

import "testing"

func TestDedupeGenreIDs(t *testing.T) {
	tests := []struct {
		name string
		in   []uint64
		want []uint64
	}{
		{"nil", nil, nil},
		{"single", []uint64{4}, []uint64{4}},
		{"no repeats", []uint64{1, 2, 3}, []uint64{1, 2, 3}},
		{"adjacent repeat", []uint64{1, 1}, []uint64{1}},
		{"scattered repeats keep first-seen order", []uint64{2, 1, 2, 3, 1}, []uint64{2, 1, 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := dedupeGenreIDs(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("dedupeGenreIDs(%v) = %v, want %v", tc.in, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("dedupeGenreIDs(%v) = %v, want %v", tc.in, got, tc.want)
				}
			}
		})
	}
}

func TestDedupeGenreIDsDoesNotMutateInput(t *testing.T) {
	in := []uint64{5, 5, 6}
	_ = dedupeGenreIDs(in)
	if in[0] != 5 || in[1] != 5 || in[2] != 6 {
		t.Errorf("input slice mutated: %v", in)
	}
}
