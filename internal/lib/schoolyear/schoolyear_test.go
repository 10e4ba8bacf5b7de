package schoolyear

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEndDate_TableTests(t *testing.T) {
	tests := []struct {
		name     string
		purchase time.Time
		want     time.Time
	}{
		{
			name:     "purchase in march ends same year",
			purchase: date(2024, time.March, 1),
			want:     date(2024, time.July, 31),
		},
		{
			name:     "purchase in september ends next year",
			purchase: date(2024, time.September, 15),
			want:     date(2025, time.July, 31),
		},
		{
			name:     "purchase in august ends next year",
			purchase: date(2024, time.August, 1),
			want:     date(2025, time.July, 31),
		},
		{
			name:     "purchase in july ends same month",
			purchase: date(2024, time.July, 31),
			want:     date(2024, time.July, 31),
		},
		{
			name:     "purchase in october ends next july",
			purchase: date(2024, time.October, 1),
			want:     date(2025, time.July, 31),
		},
		{
			name:     "purchase in january ends same year",
			purchase: date(2025, time.January, 10),
			want:     date(2025, time.July, 31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EndDate(tt.purchase)
			if !got.Equal(tt.want) {
				t.Errorf("EndDate(%v) = %v, want %v", tt.purchase, got, tt.want)
			}
		})
	}
}

func TestDaysRemaining(t *testing.T) {
	tests := []struct {
		name    string
		endDate time.Time
		today   time.Time
		want    int
	}{
		{
			name:    "one week left",
			endDate: date(2024, time.July, 31),
			today:   date(2024, time.July, 24),
			want:    7,
		},
		{
			name:    "last day",
			endDate: date(2024, time.July, 31),
			today:   date(2024, time.July, 31),
			want:    0,
		},
		{
			name:    "already past is floored at zero",
			endDate: date(2024, time.July, 31),
			today:   date(2024, time.August, 10),
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysRemaining(tt.endDate, tt.today); got != tt.want {
				t.Errorf("DaysRemaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMonthsRemaining(t *testing.T) {
	// 90 days out -> 3 months
	if got := MonthsRemaining(date(2024, time.July, 31), date(2024, time.May, 2)); got != 3 {
		t.Errorf("MonthsRemaining() = %d, want 3", got)
	}
	// expired -> 0
	if got := MonthsRemaining(date(2024, time.July, 31), date(2024, time.September, 1)); got != 0 {
		t.Errorf("MonthsRemaining() = %d, want 0", got)
	}
}
