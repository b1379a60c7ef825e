package align

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestFromCosts(t *testing.T) {
	four, err := FromCosts(10, -5, -10, -1)
	if err != nil {
		t.Fatalf("FromCosts(4) error: %v", err)
	}
	if four.Shape() != ShapeFourCost {
		t.Errorf("shape = %v, want four-cost", four.Shape())
	}
	if !reflect.DeepEqual(four.Costs(), []float64{10, -5, -10, -1}) {
		t.Errorf("costs = %v", four.Costs())
	}

	six, err := FromCosts(8, -4, -7, -7, -3, 0)
	if err != nil {
		t.Fatalf("FromCosts(6) error: %v", err)
	}
	if six.Shape() != ShapeSixCost {
		t.Errorf("shape = %v, want six-cost", six.Shape())
	}
	if six.Score('a', 'a') != 8 || six.Score('a', 'b') != -4 {
		t.Errorf("unexpected pairwise scores %v / %v", six.Score('a', 'a'), six.Score('a', 'b'))
	}

	for _, n := range []int{0, 1, 3, 5, 7} {
		_, err := FromCosts(make([]float64, n)...)
		if !errors.Is(err, ErrConfiguration) {
			t.Errorf("FromCosts with %d costs: expected ErrConfiguration, got %v", n, err)
		}
	}
}

func TestConstructorsRejectMalformedInput(t *testing.T) {
	if _, err := Custom(nil, -1, -1, -1, -1); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Custom(nil): expected ErrConfiguration, got %v", err)
	}
	if _, err := SixCost(math.NaN(), -4, -7, -7, -3, 0); !errors.Is(err, ErrConfiguration) {
		t.Errorf("SixCost(NaN): expected ErrConfiguration, got %v", err)
	}
	if _, err := FourCost(10, -5, math.Inf(-1), -1); !errors.Is(err, ErrConfiguration) {
		t.Errorf("FourCost(-Inf): expected ErrConfiguration, got %v", err)
	}
}

func TestFourCostIsSymmetric(t *testing.T) {
	s, err := FourCost(10, -5, -10, -1)
	if err != nil {
		t.Fatalf("FourCost error: %v", err)
	}
	if s.openX != s.openY || s.extendX != s.extendY {
		t.Errorf("four-cost gap costs differ by axis: %+v", s)
	}
	if got := s.GapCost(4); got != -14 {
		t.Errorf("GapCost(4) = %v, want -14", got)
	}
	if got := s.GapCost(0); got != 0 {
		t.Errorf("GapCost(0) = %v, want 0", got)
	}
}

func TestCustomHasNoFlatCosts(t *testing.T) {
	s, err := Custom(func(a, b rune) float64 { return 0 }, -1, -2, -3, -4)
	if err != nil {
		t.Fatalf("Custom error: %v", err)
	}
	if s.Costs() != nil {
		t.Errorf("expected nil costs, got %v", s.Costs())
	}
	if s.Shape().String() != "custom" {
		t.Errorf("shape = %q", s.Shape())
	}
}
