package forecast

import (
	"errors"
	"math"
	"testing"

	"PricePulse/internal/domain/models"
)

func TestSplitIndexChronological(t *testing.T) {
	idx, err := SplitIndex(100, 0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 80 {
		t.Fatalf("want trainEnd 80, got %d", idx)
	}

	// a tiny fraction still holds out at least one row
	idx, err = SplitIndex(10, 0.01)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 9 {
		t.Fatalf("want trainEnd 9, got %d", idx)
	}
}

func TestSplitIndexInvalidFraction(t *testing.T) {
	var cfgErr *models.InvalidConfigurationError
	if _, err := SplitIndex(100, 0); !errors.As(err, &cfgErr) {
		t.Fatalf("expected InvalidConfigurationError for fraction 0, got %v", err)
	}
	if _, err := SplitIndex(100, 1.2); !errors.As(err, &cfgErr) {
		t.Fatalf("expected InvalidConfigurationError for fraction 1.2, got %v", err)
	}
}

func TestSplitIndexTooFewRows(t *testing.T) {
	var insufficient *models.InsufficientDataError
	if _, err := SplitIndex(1, 0.2); !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestValidateWindowsOverlap(t *testing.T) {
	if err := ValidateWindows(10, 10); err != nil {
		t.Fatalf("adjacent windows must be accepted: %v", err)
	}
	var cfgErr *models.InvalidConfigurationError
	if err := ValidateWindows(10, 9); !errors.As(err, &cfgErr) {
		t.Fatalf("expected InvalidConfigurationError for overlap, got %v", err)
	}
}

func TestMetricsPerfectFit(t *testing.T) {
	m := Metrics([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 4})
	if m["mae"] != 0 || m["rmse"] != 0 {
		t.Fatalf("perfect fit should have zero error: %v", m)
	}
	if m["r2"] != 1 || m["accuracy"] != 1 {
		t.Fatalf("perfect fit should have r2 1: %v", m)
	}
	if m["directional_accuracy"] != 1 {
		t.Fatalf("perfect fit should match every direction: %v", m)
	}
}

func TestMetricsKnownValues(t *testing.T) {
	m := Metrics([]float64{2, 4, 6}, []float64{3, 3, 3})
	if math.Abs(m["mae"]-5.0/3) > 1e-12 {
		t.Fatalf("mae: want %v, got %v", 5.0/3, m["mae"])
	}
	if math.Abs(m["rmse"]-math.Sqrt(11.0/3)) > 1e-12 {
		t.Fatalf("rmse: want %v, got %v", math.Sqrt(11.0/3), m["rmse"])
	}
	if math.Abs(m["r2"]-(-0.375)) > 1e-12 {
		t.Fatalf("r2: want -0.375, got %v", m["r2"])
	}
	// negative r2 clamps to zero
	if m["accuracy"] != 0 {
		t.Fatalf("accuracy: want 0, got %v", m["accuracy"])
	}
	if m["directional_accuracy"] != 0 {
		t.Fatalf("directional_accuracy: want 0, got %v", m["directional_accuracy"])
	}
}

func TestMetricsConstantActuals(t *testing.T) {
	// zero total variance must not divide by zero
	m := Metrics([]float64{5, 5, 5}, []float64{4, 5, 6})
	if m["r2"] != 0 {
		t.Fatalf("r2 for constant actuals should be 0, got %v", m["r2"])
	}
}

func TestMetricsSkipsZeroActualsInMAPE(t *testing.T) {
	m := Metrics([]float64{0, 100}, []float64{10, 110})
	if math.Abs(m["mape"]-10) > 1e-12 {
		t.Fatalf("mape should skip zero actuals: want 10, got %v", m["mape"])
	}
}

func TestMetricsMismatchedLengths(t *testing.T) {
	if m := Metrics([]float64{1, 2}, []float64{1}); len(m) != 0 {
		t.Fatalf("mismatched lengths should yield empty metrics, got %v", m)
	}
}

func TestResidualStdDev(t *testing.T) {
	// residuals -1, 0, 1 have sample stddev 1
	got := ResidualStdDev([]float64{1, 2, 3}, []float64{2, 2, 2})
	if math.Abs(got-1) > 1e-12 {
		t.Fatalf("want 1, got %v", got)
	}
	if ResidualStdDev([]float64{1}, []float64{1}) != 0 {
		t.Fatalf("single residual should yield 0")
	}
}
