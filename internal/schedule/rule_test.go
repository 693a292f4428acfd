package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseMinuteOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    MinuteOfDay
		wantErr bool
	}{
		{"09:00", 540, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"-1:00", 0, true},
		{"lunch", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMinuteOfDay(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMinuteOfDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseMinuteOfDay(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMinuteOfDayRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "09:30", "17:05", "23:59"} {
		m, err := ParseMinuteOfDay(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if m.String() != s {
			t.Errorf("round trip %q -> %q", s, m.String())
		}
	}
}

func TestMinuteOfDayAt(t *testing.T) {
	date := time.Date(2025, time.June, 2, 15, 44, 59, 12, time.UTC)
	got := MinuteOfDay(9*60 + 30).At(date)
	want := time.Date(2025, time.June, 2, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("At = %v, want %v", got, want)
	}
}

func TestRuleValidate(t *testing.T) {
	valid := Rule{ProviderID: uuid.New(), Weekday: time.Monday, Open: 540, Close: 1020}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid rule rejected: %v", err)
	}

	inverted := valid
	inverted.Open, inverted.Close = inverted.Close, inverted.Open
	if err := inverted.Validate(); err == nil {
		t.Error("open after close accepted")
	}

	empty := valid
	empty.Close = empty.Open
	if err := empty.Validate(); err == nil {
		t.Error("zero-width window accepted")
	}

	noProvider := valid
	noProvider.ProviderID = uuid.Nil
	if err := noProvider.Validate(); err == nil {
		t.Error("missing provider accepted")
	}
}
