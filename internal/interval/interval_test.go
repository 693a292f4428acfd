package interval

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", New(at(10, 0), at(11, 0)), New(at(10, 0), at(11, 0)), true},
		{"partial overlap", New(at(10, 0), at(11, 0)), New(at(10, 30), at(11, 30)), true},
		{"containment", New(at(9, 0), at(12, 0)), New(at(10, 0), at(11, 0)), true},
		{"touching end to start", New(at(10, 0), at(11, 0)), New(at(11, 0), at(12, 0)), false},
		{"touching start to end", New(at(11, 0), at(12, 0)), New(at(10, 0), at(11, 0)), false},
		{"disjoint", New(at(9, 0), at(10, 0)), New(at(11, 0), at(12, 0)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("reverse Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	iv := New(at(10, 0), at(11, 0))

	if !iv.Contains(at(10, 0)) {
		t.Error("start point should be contained (closed at start)")
	}
	if !iv.Contains(at(10, 59)) {
		t.Error("interior point should be contained")
	}
	if iv.Contains(at(11, 0)) {
		t.Error("end point should not be contained (open at end)")
	}
	if iv.Contains(at(9, 59)) {
		t.Error("point before start should not be contained")
	}
}

func TestValidate(t *testing.T) {
	if err := New(at(10, 0), at(11, 0)).Validate(); err != nil {
		t.Errorf("valid interval rejected: %v", err)
	}
	if err := New(at(11, 0), at(10, 0)).Validate(); err == nil {
		t.Error("inverted interval accepted")
	}
	if err := New(at(10, 0), at(10, 0)).Validate(); err == nil {
		t.Error("zero-length interval accepted")
	}
}

func TestDuration(t *testing.T) {
	if got := New(at(10, 0), at(11, 30)).Duration(); got != 90*time.Minute {
		t.Errorf("Duration = %v, want 90m", got)
	}
}
