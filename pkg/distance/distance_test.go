package distance

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"testing"
)

func TestSum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		left  []int
		right []int
		want  int
	}{
		{"single value, no distance", []int{1}, []int{1}, 0},
		{"single value, positive distance", []int{1}, []int{2}, 1},
		{"single value, negative distance", []int{1}, []int{-1}, 2},
		{"multi value, no distance", []int{1, 1}, []int{1, 1}, 0},
		{"multi value, positive distance", []int{1, 1}, []int{2, 2}, 2},
		{"multi value, negative distance", []int{1, 1}, []int{-1, -1}, 4},
		{"sort relevant, no distance", []int{1, 2}, []int{2, 1}, 0},
		{"sort relevant, positive distance", []int{1, 2}, []int{3, 2}, 2},
		{"sort relevant, negative distance", []int{2, 1}, []int{-2, -1}, 6},
		{"puzzle example", []int{3, 4, 2, 1, 3, 3}, []int{4, 3, 5, 3, 9, 3}, 11},
		{"empty columns", []int{}, []int{}, 0},
		{"largest pair distance", []int{math.MaxInt}, []int{0}, math.MaxInt},
		{"extremes of the same sign", []int{math.MinInt}, []int{-1}, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sum(tt.left, tt.right)
			if err != nil {
				t.Fatalf("Sum() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Sum() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSum_Overflow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		left  []int
		right []int
	}{
		{"pair distance", []int{math.MaxInt}, []int{math.MinInt}},
		{"pair distance, one past", []int{0}, []int{math.MinInt}},
		{"running sum", []int{math.MaxInt, math.MaxInt}, []int{0, 0}},
		{"running sum, one past", []int{math.MaxInt, 1}, []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sum(tt.left, tt.right)
			if !errors.Is(err, ErrOverflow) {
				t.Fatalf("Sum() = %d, %v; want ErrOverflow", got, err)
			}
			if got != 0 {
				t.Errorf("Sum() = %d on overflow, want 0", got)
			}
		})
	}
}

func TestPairs_Overflow(t *testing.T) {
	t.Parallel()

	pairs, err := Pairs([]int{math.MaxInt}, []int{math.MinInt})
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("Pairs() error = %v, want ErrOverflow", err)
	}
	if pairs != nil {
		t.Errorf("Pairs() = %v on overflow, want nil", pairs)
	}
}

func TestSum_LengthMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		left  []int
		right []int
	}{
		{[]int{1, 1}, []int{2}},
		{[]int{1}, []int{2, 1}},
	}

	for _, tt := range tests {
		_, err := Sum(tt.left, tt.right)

		var mismatch *LengthMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("expected LengthMismatchError, got %v", err)
		}
		if mismatch.Left != len(tt.left) || mismatch.Right != len(tt.right) {
			t.Errorf("mismatch = %d vs %d, want %d vs %d",
				mismatch.Left, mismatch.Right, len(tt.left), len(tt.right))
		}
		want := fmt.Sprintf("unequal length of lists, %d vs %d", len(tt.left), len(tt.right))
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	}
}

func TestSum_DoesNotModifyInputs(t *testing.T) {
	t.Parallel()

	left := []int{3, 1, 2}
	right := []int{9, 7, 8}

	if _, err := Sum(left, right); err != nil {
		t.Fatalf("Sum() error = %v", err)
	}
	if !slices.Equal(left, []int{3, 1, 2}) {
		t.Errorf("left modified: %v", left)
	}
	if !slices.Equal(right, []int{9, 7, 8}) {
		t.Errorf("right modified: %v", right)
	}
}

func TestSum_Properties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		n := rng.Intn(50)
		left := randomInts(rng, n)
		right := randomInts(rng, n)

		got, err := Sum(left, right)
		if err != nil {
			t.Fatalf("Sum() error = %v", err)
		}
		if got < 0 {
			t.Errorf("Sum() = %d, want non-negative", got)
		}

		presorted, _ := Sum(slices.Sorted(slices.Values(left)), slices.Sorted(slices.Values(right)))
		if presorted != got {
			t.Errorf("pre-sorting changed the result: %d vs %d", presorted, got)
		}

		swapped, _ := Sum(right, left)
		if swapped != got {
			t.Errorf("distance not symmetric: %d vs %d", swapped, got)
		}

		if self, _ := Sum(left, left); self != 0 {
			t.Errorf("Sum(x, x) = %d, want 0", self)
		}
	}
}

func TestPairs(t *testing.T) {
	t.Parallel()

	pairs, err := Pairs([]int{2, 1}, []int{-2, -1})
	if err != nil {
		t.Fatalf("Pairs() error = %v", err)
	}

	want := []Pair{
		{Left: 1, Right: -2, Distance: 3},
		{Left: 2, Right: -1, Distance: 3},
	}
	if !slices.Equal(pairs, want) {
		t.Errorf("Pairs() = %v, want %v", pairs, want)
	}
}

func randomInts(rng *rand.Rand, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = rng.Intn(200001) - 100000
	}
	return out
}
