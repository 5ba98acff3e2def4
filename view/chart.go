package view

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dhchun1203/Trend-Analyzer-project/model"
)

// TrendDays is the length of the trend chart.
const TrendDays = 7

// TrendPoint is one labelled day of the trend chart.
type TrendPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// VolumeShare is one slice of the search volume chart.
type VolumeShare struct {
	Label   string  `json:"label"`
	Value   int64   `json:"value"`
	Color   string  `json:"color"`
	Percent float64 `json:"percent"`
}

// BuildTrendSeries prefers the measured chart series and falls back to a
// synthetic one. synthetic is true when the points are demo data.
func BuildTrendSeries(report *model.TrendReport, chart []model.ChartPoint, now time.Time, rnd func() float64) (points []TrendPoint, synthetic bool) {
	if len(chart) > 0 {
		return TrendSeriesFromChart(chart), false
	}
	if report == nil || report.TrendAnalysis == nil {
		return nil, false
	}
	return SyntheticTrendSeries(*report.TrendAnalysis, now, rnd), true
}

// TrendSeriesFromChart keeps the last TrendDays measured points, clamped to
// [0,100].
func TrendSeriesFromChart(chart []model.ChartPoint) []TrendPoint {
	if len(chart) > TrendDays {
		chart = chart[len(chart)-TrendDays:]
	}
	points := make([]TrendPoint, 0, len(chart))
	for _, c := range chart {
		points = append(points, TrendPoint{Label: chartLabel(c.Date), Value: clamp(c.Trend)})
	}
	return points
}

// SyntheticTrendSeries fabricates TrendDays points ending today around the
// average trend. With a measured data point count the noise spans the
// average-to-max band, otherwise a fixed band of ±10. rnd must return values
// in [0,1). The result is presentation noise, never a measurement.
func SyntheticTrendSeries(ta model.TrendAnalysis, now time.Time, rnd func() float64) []TrendPoint {
	base := ta.AverageTrend
	spread := 20.0
	if ta.DataPoints() > 0 {
		spread = ta.Max() - base
	}

	points := make([]TrendPoint, 0, TrendDays)
	for i := TrendDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		value := base + (rnd()-0.5)*spread
		points = append(points, TrendPoint{Label: koreanDay(day), Value: clamp(value)})
	}
	return points
}

// SearchVolumeShares splits the daily, weekly and monthly counters into
// chart slices. Nil stats yield no slices.
func SearchVolumeShares(stats *model.SearchVolumeStats) []VolumeShare {
	if stats == nil {
		return nil
	}
	shares := []VolumeShare{
		{Label: "일일", Value: stats.DailySearches, Color: "#3B82F6"},
		{Label: "주간", Value: stats.WeeklySearches, Color: "#10B981"},
		{Label: "월간", Value: stats.MonthlySearches, Color: "#F59E0B"},
	}

	var total int64
	for _, s := range shares {
		if s.Value > 0 {
			total += s.Value
		}
	}
	if total == 0 {
		return shares
	}
	for i := range shares {
		if shares[i].Value > 0 {
			shares[i].Percent = math.Round(float64(shares[i].Value)/float64(total)*1000) / 10
		}
	}
	return shares
}

// ChartPolyline returns SVG polyline coordinates for points drawn on a
// width x height canvas, 100 at the top.
func ChartPolyline(points []TrendPoint, width, height float64) string {
	if len(points) == 0 {
		return ""
	}
	step := 0.0
	if len(points) > 1 {
		step = width / float64(len(points)-1)
	}

	coords := make([]string, 0, len(points))
	for i, p := range points {
		x := step * float64(i)
		y := height - clamp(p.Value)/100*height
		coords = append(coords, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	return strings.Join(coords, " ")
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

func koreanDay(t time.Time) string {
	return fmt.Sprintf("%d월 %d일", int(t.Month()), t.Day())
}

func chartLabel(date string) string {
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if t, err := time.Parse(layout, date); err == nil {
			return koreanDay(t)
		}
	}
	return date
}
