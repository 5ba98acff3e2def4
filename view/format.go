// Package view holds the pure rendering helpers used by the page templates.
package view

import (
	"strconv"
	"strings"

	"github.com/dhchun1203/Trend-Analyzer-project/model"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const NotAvailable = "N/A"

var printer = message.NewPrinter(language.Korean)

// FormatPostDate renders a YYYYMMDD blog post date as YYYY.MM.DD. Any other
// input is returned unchanged.
func FormatPostDate(date string) string {
	if len(date) != 8 || !isDigits(date) {
		return date
	}
	return date[:4] + "." + date[4:6] + "." + date[6:]
}

// TrendIcon maps a trend direction to its emoji.
func TrendIcon(direction string) string {
	switch direction {
	case model.TrendUp:
		return "📈"
	case model.TrendDown:
		return "📉"
	default:
		return "➡️"
	}
}

// FormatCount renders n with Korean thousands separators.
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatStat renders one search volume counter, or N/A when the backend
// sent no statistics block.
func FormatStat(stats *model.SearchVolumeStats, field string) string {
	if stats == nil {
		return NotAvailable
	}
	switch field {
	case "daily":
		return FormatCount(stats.DailySearches)
	case "weekly":
		return FormatCount(stats.WeeklySearches)
	case "monthly":
		return FormatCount(stats.MonthlySearches)
	}
	return NotAvailable
}

// FormatPrice renders a bare digit price as "399,000원". Prices the backend
// already formatted are passed through.
func FormatPrice(price string) string {
	price = strings.TrimSpace(price)
	if price == "" {
		return NotAvailable
	}
	if !isDigits(price) {
		return price
	}
	n, err := strconv.ParseInt(price, 10, 64)
	if err != nil {
		return price
	}
	return FormatCount(n) + "원"
}

// OrNA returns s, or N/A when s is blank.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
