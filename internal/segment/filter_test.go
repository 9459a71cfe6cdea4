package segment

import (
	"math/rand"
	"testing"
)

func TestFilterOuter_HoleSuppression(t *testing.T) {
	m := newMask(60, 60)
	fillRect(m, 10, 10, 50, 50, 255)
	fillRect(m, 20, 20, 30, 30, 0)

	boxes, err := FindBoxes(m, DefaultConfig())
	if err != nil {
		t.Fatalf("FindBoxes failed: %v", err)
	}

	got := FilterOuter(boxes)
	if len(got) != 1 {
		t.Fatalf("boxes: got %v, want only the outer box", got)
	}
	if got[0] != (Box{X: 10, Y: 10, W: 40, H: 40}) {
		t.Errorf("survivor: got %v, want (10,10 40x40)", got[0])
	}
}

func TestFilterOuter(t *testing.T) {
	tests := []struct {
		name  string
		boxes []Box
		want  []Box
	}{
		{
			name:  "empty",
			boxes: nil,
			want:  []Box{},
		},
		{
			name:  "disjoint boxes kept in order",
			boxes: []Box{{30, 0, 5, 5}, {0, 0, 5, 5}, {10, 10, 3, 3}},
			want:  []Box{{30, 0, 5, 5}, {0, 0, 5, 5}, {10, 10, 3, 3}},
		},
		{
			name:  "inner box listed first",
			boxes: []Box{{5, 5, 2, 2}, {0, 0, 20, 20}},
			want:  []Box{{0, 0, 20, 20}},
		},
		{
			name:  "chain of three",
			boxes: []Box{{0, 0, 30, 30}, {5, 5, 20, 20}, {10, 10, 5, 5}},
			want:  []Box{{0, 0, 30, 30}},
		},
		{
			name:  "inner box touching the boundary",
			boxes: []Box{{0, 0, 20, 20}, {10, 0, 10, 20}},
			want:  []Box{{0, 0, 20, 20}},
		},
		{
			name:  "overlapping boxes both kept",
			boxes: []Box{{0, 0, 10, 10}, {5, 5, 10, 10}},
			want:  []Box{{0, 0, 10, 10}, {5, 5, 10, 10}},
		},
		{
			name:  "duplicates keep the first",
			boxes: []Box{{3, 3, 8, 8}, {50, 0, 4, 4}, {3, 3, 8, 8}, {3, 3, 8, 8}},
			want:  []Box{{3, 3, 8, 8}, {50, 0, 4, 4}},
		},
		{
			name:  "duplicates inside a larger box",
			boxes: []Box{{4, 4, 2, 2}, {4, 4, 2, 2}, {0, 0, 10, 10}},
			want:  []Box{{0, 0, 10, 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterOuter(tt.boxes)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("box %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFilterOuter_NoNestedSurvivors(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		boxes := make([]Box, rng.Intn(25))
		for i := range boxes {
			boxes[i] = Box{
				X: rng.Intn(40),
				Y: rng.Intn(40),
				W: 1 + rng.Intn(20),
				H: 1 + rng.Intn(20),
			}
			// Force some duplicates.
			if i > 0 && rng.Intn(5) == 0 {
				boxes[i] = boxes[rng.Intn(i)]
			}
		}

		out := FilterOuter(boxes)
		for i := range out {
			for j := range out {
				if i != j && out[j].Encloses(out[i]) {
					t.Fatalf("round %d: %v survived inside %v", round, out[i], out[j])
				}
			}
		}
		if len(boxes) > 0 && len(out) == 0 {
			t.Fatalf("round %d: every box was dropped from %v", round, boxes)
		}
	}
}
