package split

import (
	"math"
	"testing"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		rate         float64
		splitCount   int
		wantTotal    float64
		wantMyShare  float64
		wantDebtOwed float64
	}{
		{
			name:   "tokyo scenario, four-way split",
			amount: 1000, rate: 0.22, splitCount: 4,
			wantTotal: 220, wantMyShare: 55, wantDebtOwed: 165,
		},
		{
			name:   "no split",
			amount: 500, rate: 1, splitCount: 1,
			wantTotal: 500, wantMyShare: 500, wantDebtOwed: 0,
		},
		{
			name:   "split count defaults to one when below one",
			amount: 300, rate: 0.5, splitCount: 0,
			wantTotal: 150, wantMyShare: 150, wantDebtOwed: 0,
		},
		{
			name:   "two-way split",
			amount: 99.9, rate: 2, splitCount: 2,
			wantTotal: 199.8, wantMyShare: 99.9, wantDebtOwed: 99.9,
		},
		{
			name:   "zero amount",
			amount: 0, rate: 31.5, splitCount: 3,
			wantTotal: 0, wantMyShare: 0, wantDebtOwed: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.amount, tt.rate, tt.splitCount)
			if math.Abs(got.TotalHome-tt.wantTotal) > 1e-9 {
				t.Errorf("TotalHome = %v, want %v", got.TotalHome, tt.wantTotal)
			}
			if math.Abs(got.MyShare-tt.wantMyShare) > 1e-9 {
				t.Errorf("MyShare = %v, want %v", got.MyShare, tt.wantMyShare)
			}
			if math.Abs(got.DebtOwed-tt.wantDebtOwed) > 1e-9 {
				t.Errorf("DebtOwed = %v, want %v", got.DebtOwed, tt.wantDebtOwed)
			}
		})
	}
}

// MyShare × splitCount must equal TotalHome within floating-point tolerance,
// and MyShare + DebtOwed must equal TotalHome, for valid inputs.
func TestComputeInvariants(t *testing.T) {
	amounts := []float64{0, 1, 99.99, 1000, 123456.78}
	rates := []float64{0.0321, 0.22, 1, 4.5, 31.205}
	counts := []int{1, 2, 3, 4, 7, 12}

	for _, amount := range amounts {
		for _, rate := range rates {
			for _, count := range counts {
				got := Compute(amount, rate, count)

				if math.Abs(got.MyShare*float64(count)-got.TotalHome) > 1e-6 {
					t.Errorf("Compute(%v, %v, %d): MyShare×count = %v, want %v",
						amount, rate, count, got.MyShare*float64(count), got.TotalHome)
				}
				if math.Abs(got.MyShare+got.DebtOwed-got.TotalHome) > 1e-9 {
					t.Errorf("Compute(%v, %v, %d): MyShare+DebtOwed = %v, want %v",
						amount, rate, count, got.MyShare+got.DebtOwed, got.TotalHome)
				}
				if count == 1 && (got.DebtOwed != 0 || got.MyShare != got.TotalHome) {
					t.Errorf("Compute(%v, %v, 1): MyShare = %v, DebtOwed = %v, want exact total and zero debt",
						amount, rate, got.MyShare, got.DebtOwed)
				}
			}
		}
	}
}

func TestComputeIdempotent(t *testing.T) {
	first := Compute(1000, 0.22, 4)
	second := Compute(1000, 0.22, 4)
	if first != second {
		t.Errorf("Compute is not idempotent: %v != %v", first, second)
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"valid value passes through", 42.5, 42.5},
		{"zero passes through", 0, 0},
		{"NaN coerced to zero", math.NaN(), 0},
		{"positive infinity coerced to zero", math.Inf(1), 0},
		{"negative infinity coerced to zero", math.Inf(-1), 0},
		{"negative coerced to zero", -3.2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coerce(tt.in); got != tt.want {
				t.Errorf("Coerce(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
