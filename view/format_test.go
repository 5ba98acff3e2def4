package view

import (
	"testing"

	"github.com/dhchun1203/Trend-Analyzer-project/model"
)

func TestFormatPostDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"20240115", "2024.01.15"},
		{"19991231", "1999.12.31"},
		{"Jan 2024", "Jan 2024"},
		{"2024-01-15", "2024-01-15"},
		{"2024011", "2024011"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FormatPostDate(tt.input); got != tt.want {
			t.Errorf("FormatPostDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTrendIcon(t *testing.T) {
	tests := []struct {
		direction string
		want      string
	}{
		{"상승", "📈"},
		{"하락", "📉"},
		{"유지", "➡️"},
		{"", "➡️"},
		{"unknown", "➡️"},
	}

	for _, tt := range tests {
		if got := TrendIcon(tt.direction); got != tt.want {
			t.Errorf("TrendIcon(%q) = %q, want %q", tt.direction, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1200, "1,200"},
		{36000000, "36,000,000"},
	}

	for _, tt := range tests {
		if got := FormatCount(tt.n); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatStat(t *testing.T) {
	stats := &model.SearchVolumeStats{DailySearches: 1200, WeeklySearches: 8400, MonthlySearches: 36000}

	if got := FormatStat(stats, "monthly"); got != "36,000" {
		t.Errorf("Expected 36,000, got %q", got)
	}
	if got := FormatStat(nil, "daily"); got != NotAvailable {
		t.Errorf("Expected N/A for missing stats, got %q", got)
	}
	if got := FormatStat(stats, "yearly"); got != NotAvailable {
		t.Errorf("Expected N/A for unknown field, got %q", got)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price string
		want  string
	}{
		{"399000", "399,000원"},
		{" 1500 ", "1,500원"},
		{"12,900원", "12,900원"},
		{"가격문의", "가격문의"},
		{"", NotAvailable},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.price); got != tt.want {
			t.Errorf("FormatPrice(%q) = %q, want %q", tt.price, got, tt.want)
		}
	}
}

func TestOrNA(t *testing.T) {
	if got := OrNA("중간"); got != "중간" {
		t.Errorf("Expected value passed through, got %q", got)
	}
	if got := OrNA("  "); got != NotAvailable {
		t.Errorf("Expected N/A, got %q", got)
	}
}
