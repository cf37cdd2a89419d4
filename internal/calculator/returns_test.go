package calculator

import (
	"math"
	"testing"
)

func TestReturnRate(t *testing.T) {
	if got := ReturnRate(10, 11.5); math.Abs(got-0.15) > 1e-9 {
		t.Errorf("ReturnRate(10, 11.5) = %.6f, want 0.15", got)
	}
	if got := ReturnRate(10, 8); math.Abs(got+0.2) > 1e-9 {
		t.Errorf("ReturnRate(10, 8) = %.6f, want -0.2", got)
	}
}

func TestProfitAmount(t *testing.T) {
	if got := ProfitAmount(10, 12, 100); got != 200 {
		t.Errorf("ProfitAmount(10, 12, 100) = %.2f, want 200", got)
	}
}

func TestAnnualizedReturn(t *testing.T) {
	// 10% over 73 days: 0.10 × 365/73 = 0.5
	if got := AnnualizedReturn(10, 11, 73); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("AnnualizedReturn(10, 11, 73) = %.6f, want 0.5", got)
	}

	// Non-positive holding periods return 0 rather than dividing by zero.
	if got := AnnualizedReturn(10, 11, 0); got != 0 {
		t.Errorf("AnnualizedReturn with 0 days = %.6f, want 0", got)
	}
	if got := AnnualizedReturn(10, 11, -5); got != 0 {
		t.Errorf("AnnualizedReturn with negative days = %.6f, want 0", got)
	}
}

func TestValidateParameters(t *testing.T) {
	tests := []struct {
		name     string
		step     float64
		rate     float64
		valid    bool
		errCount int
	}{
		{"defaults", 0.05, 0.20, true, 0},
		{"boundary values", 0, 10, true, 0},
		{"upper boundary step", 1, 0.20, true, 0},
		{"step too high", 1.5, 0.20, false, 1},
		{"step negative", -0.1, 0.20, false, 1},
		{"rate too high", 0.05, 11, false, 1},
		{"rate negative", 0.05, -1, false, 1},
		{"both invalid", 2, 20, false, 2},
	}
	for _, tt := range tests {
		valid, errs := ValidateParameters(tt.step, tt.rate)
		if valid != tt.valid {
			t.Errorf("%s: valid = %v, want %v", tt.name, valid, tt.valid)
		}
		if len(errs) != tt.errCount {
			t.Errorf("%s: got %d errors, want %d: %v", tt.name, len(errs), tt.errCount, errs)
		}
	}
}
