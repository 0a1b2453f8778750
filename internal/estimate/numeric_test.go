package estimate

import (
	"errors"
	"math"
	"testing"
)

func TestFraction_RejectsLessThanOneDay(t *testing.T) {
	t.Parallel()

	for _, days := range []int{0, -1, -30} {
		if _, err := Fraction(DefaultSource(), days); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("Fraction(%d) err=%v want ErrInvalidArgument", days, err)
		}
	}
}

func TestFraction_Buckets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		days   int
		lo, hi float64
	}{
		{1, 0.10, 0.35},
		{7, 0.10, 0.35},
		{10, 0.10, 0.35},
		{11, 0.36, 0.70},
		{20, 0.36, 0.70},
		{21, 0.71, 0.90},
		{30, 0.71, 0.90},
		{365, 0.71, 0.90},
	}
	for _, tc := range tests {
		for i := 0; i < 200; i++ {
			got, err := Fraction(DefaultSource(), tc.days)
			if err != nil {
				t.Fatalf("Fraction(%d): %v", tc.days, err)
			}
			if got < tc.lo || got >= tc.hi {
				t.Fatalf("Fraction(%d)=%v want in [%v, %v)", tc.days, got, tc.lo, tc.hi)
			}
		}
	}
}

func TestFraction_FixedSourceBounds(t *testing.T) {
	t.Parallel()

	if got, _ := Fraction(FixedSource(0), 5); got != 0.10 {
		t.Fatalf("Fraction(src=0, 5)=%v want 0.10", got)
	}
	if got, _ := Fraction(FixedSource(0), 15); got != 0.36 {
		t.Fatalf("Fraction(src=0, 15)=%v want 0.36", got)
	}
	if got, _ := Fraction(FixedSource(0.5), 25); math.Abs(got-0.805) > 1e-9 {
		t.Fatalf("Fraction(src=0.5, 25)=%v want 0.805", got)
	}
}

func TestBoundedRandomInt_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                string
		low, high, fraction float64
	}{
		{"fraction above range", 100, 200, 1},
		{"fraction below range", 100, 200, 0.05},
		{"fraction NaN", 100, 200, math.NaN()},
		{"min NaN", math.NaN(), 200, 0.5},
		{"max infinite", 100, math.Inf(1), 0.5},
		{"min greater than max", 12, 10, 0.9},
		{"min equals max", 10, 10, 0.5},
	}
	for _, tc := range tests {
		if _, err := BoundedRandomInt(tc.low, tc.high, tc.fraction); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: err=%v want ErrInvalidArgument", tc.name, err)
		}
	}
}

func TestBoundedRandomInt_FractionMessage(t *testing.T) {
	t.Parallel()

	_, err := BoundedRandomInt(0, 0, 1)
	if err == nil || err.Error() != "invalid argument: fraction must be between 0.1 and 0.9" {
		t.Fatalf("err=%v", err)
	}
}

func TestBoundedRandomInt_WithinRange(t *testing.T) {
	t.Parallel()

	for _, f := range []float64{0.1, 0.25, 0.5, 0.7, 0.9} {
		for _, r := range [][2]float64{{100, 200}, {0, 1}, {17580, 17759}, {-5, 5}, {1, 2}} {
			got, err := BoundedRandomInt(r[0], r[1], f)
			if err != nil {
				t.Fatalf("BoundedRandomInt(%v, %v, %v): %v", r[0], r[1], f, err)
			}
			if float64(got) < r[0] || float64(got) >= r[1] {
				t.Fatalf("BoundedRandomInt(%v, %v, %v)=%d want in [%v, %v)", r[0], r[1], f, got, r[0], r[1])
			}
		}
	}
}

func TestBoundedRandomInt_RoundsRangeInward(t *testing.T) {
	t.Parallel()

	// [ceil(10.2), floor(20.9)) = [11, 20); floor(0.5*9)+11 = 15
	got, err := BoundedRandomInt(10.2, 20.9, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 15 {
		t.Fatalf("got %d want 15", got)
	}
}
