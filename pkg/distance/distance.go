// Package distance computes the summed distance between two columns of
// location IDs.
package distance

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrOverflow is returned when a pair distance or the running sum does not
// fit in an int.
var ErrOverflow = errors.New("distance overflows int")

// LengthMismatchError is returned when the two columns differ in length.
type LengthMismatchError struct {
	Left  int
	Right int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("unequal length of lists, %d vs %d", e.Left, e.Right)
}

// Pair is one position of the sorted columns.
type Pair struct {
	Left     int `json:"left"`
	Right    int `json:"right"`
	Distance int `json:"distance"`
}

// Sum sorts copies of left and right independently, pairs them by position
// and returns the sum of the absolute differences. The inputs are not
// modified.
func Sum(left, right []int) (int, error) {
	pairs, err := Pairs(left, right)
	if err != nil {
		return 0, err
	}

	total := 0
	for i, p := range pairs {
		if total > math.MaxInt-p.Distance {
			return 0, fmt.Errorf("%w: sum exceeds %d at position %d", ErrOverflow, math.MaxInt, i)
		}
		total += p.Distance
	}
	return total, nil
}

// Pairs returns the per-position breakdown that Sum adds up.
func Pairs(left, right []int) ([]Pair, error) {
	if len(left) != len(right) {
		return nil, &LengthMismatchError{Left: len(left), Right: len(right)}
	}

	l := slices.Clone(left)
	r := slices.Clone(right)
	slices.Sort(l)
	slices.Sort(r)

	pairs := make([]Pair, len(l))
	for i := range l {
		d, ok := absDiff(l[i], r[i])
		if !ok {
			return nil, fmt.Errorf("%w: |%d - %d| at position %d", ErrOverflow, l[i], r[i], i)
		}
		pairs[i] = Pair{Left: l[i], Right: r[i], Distance: d}
	}
	return pairs, nil
}

// absDiff returns |a-b| and false when it does not fit in an int.
func absDiff(a, b int) (int, bool) {
	if a < b {
		a, b = b, a
	}
	d := a - b
	// a >= b, so a wrapped difference shows up as negative.
	return d, d >= 0
}
