package view

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/dhchun1203/Trend-Analyzer-project/model"
)

func fixedRand(v float64) func() float64 {
	return func() float64 { return v }
}

func trendAnalysis(avg, max float64, points int) model.TrendAnalysis {
	return model.TrendAnalysis{AverageTrend: avg, MaxTrend: &max, DataPointCount: &points}
}

func TestSyntheticTrendSeries_Labels(t *testing.T) {
	now := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

	points := SyntheticTrendSeries(trendAnalysis(50, 70, 30), now, fixedRand(0.5))
	if len(points) != TrendDays {
		t.Fatalf("Expected %d points, got %d", TrendDays, len(points))
	}
	if points[0].Label != "1월 9일" || points[6].Label != "1월 15일" {
		t.Errorf("Unexpected labels: first %q last %q", points[0].Label, points[6].Label)
	}
	for _, p := range points {
		if p.Value != 50 {
			t.Errorf("Midpoint noise should yield the average, got %v", p.Value)
		}
	}
}

func TestSyntheticTrendSeries_Banding(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		ta   model.TrendAnalysis
		rnd  float64
		want float64
	}{
		{"Measured band upper", trendAnalysis(50, 70, 30), 0.999999, 60},
		{"Measured band lower", trendAnalysis(50, 70, 30), 0, 40},
		{"Fixed band upper", trendAnalysis(50, 90, 0), 0.999999, 60},
		{"Fixed band lower", model.TrendAnalysis{AverageTrend: 50}, 0, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := SyntheticTrendSeries(tt.ta, now, fixedRand(tt.rnd))
			if diff := points[0].Value - tt.want; diff > 0.01 || diff < -0.01 {
				t.Errorf("Expected about %v, got %v", tt.want, points[0].Value)
			}
		})
	}
}

func TestSyntheticTrendSeries_Clamped(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	inputs := []model.TrendAnalysis{
		trendAnalysis(-40, 10, 5),
		trendAnalysis(99, 400, 5),
		trendAnalysis(150, 150, 0),
		{AverageTrend: -5},
		{AverageTrend: 105},
	}

	for _, ta := range inputs {
		for run := 0; run < 50; run++ {
			for _, p := range SyntheticTrendSeries(ta, now, rng.Float64) {
				if p.Value < 0 || p.Value > 100 {
					t.Fatalf("Value %v out of [0,100] for %+v", p.Value, ta)
				}
			}
		}
	}
}

func TestTrendSeriesFromChart(t *testing.T) {
	chart := make([]model.ChartPoint, 0, 10)
	for day := 1; day <= 10; day++ {
		chart = append(chart, model.ChartPoint{
			Date:  time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Trend: float64(day * 15),
		})
	}

	points := TrendSeriesFromChart(chart)
	if len(points) != TrendDays {
		t.Fatalf("Expected the last %d points, got %d", TrendDays, len(points))
	}
	if points[0].Label != "3월 4일" {
		t.Errorf("Expected first label 3월 4일, got %q", points[0].Label)
	}
	if points[6].Value != 100 {
		t.Errorf("Expected value clamped to 100, got %v", points[6].Value)
	}

	odd := TrendSeriesFromChart([]model.ChartPoint{{Date: "week 3", Trend: -2}})
	if odd[0].Label != "week 3" || odd[0].Value != 0 {
		t.Errorf("Unexpected point %+v", odd[0])
	}
}

func TestBuildTrendSeries(t *testing.T) {
	now := time.Now()
	ta := trendAnalysis(50, 70, 30)
	report := &model.TrendReport{TrendAnalysis: &ta}

	points, synthetic := BuildTrendSeries(report, []model.ChartPoint{{Date: "2024-01-15", Trend: 33}}, now, fixedRand(0.5))
	if synthetic || len(points) != 1 || points[0].Value != 33 {
		t.Errorf("Measured series should win, got %+v synthetic=%v", points, synthetic)
	}

	points, synthetic = BuildTrendSeries(report, nil, now, fixedRand(0.5))
	if !synthetic || len(points) != TrendDays {
		t.Errorf("Expected synthetic fallback, got %d points synthetic=%v", len(points), synthetic)
	}

	points, synthetic = BuildTrendSeries(nil, nil, now, fixedRand(0.5))
	if synthetic || points != nil {
		t.Errorf("Expected no series without a report, got %+v", points)
	}
}

func TestSearchVolumeShares(t *testing.T) {
	shares := SearchVolumeShares(&model.SearchVolumeStats{DailySearches: 100, WeeklySearches: 300, MonthlySearches: 600})
	if len(shares) != 3 {
		t.Fatalf("Expected 3 slices, got %d", len(shares))
	}

	want := []struct {
		label   string
		color   string
		percent float64
	}{
		{"일일", "#3B82F6", 10},
		{"주간", "#10B981", 30},
		{"월간", "#F59E0B", 60},
	}
	for i, w := range want {
		if shares[i].Label != w.label || shares[i].Color != w.color || shares[i].Percent != w.percent {
			t.Errorf("Slice %d = %+v, want %+v", i, shares[i], w)
		}
	}

	if SearchVolumeShares(nil) != nil {
		t.Error("Expected no slices for nil stats")
	}
	for _, s := range SearchVolumeShares(&model.SearchVolumeStats{}) {
		if s.Percent != 0 {
			t.Errorf("Expected 0%% for zero totals, got %+v", s)
		}
	}
}

func TestChartPolyline(t *testing.T) {
	points := []TrendPoint{{Value: 0}, {Value: 50}, {Value: 100}}

	got := ChartPolyline(points, 200, 100)
	want := "0.0,100.0 100.0,50.0 200.0,0.0"
	if got != want {
		t.Errorf("ChartPolyline() = %q, want %q", got, want)
	}

	if ChartPolyline(nil, 200, 100) != "" {
		t.Error("Expected empty polyline for no points")
	}
	if single := ChartPolyline([]TrendPoint{{Value: 150}}, 200, 100); !strings.HasPrefix(single, "0.0,0.0") {
		t.Errorf("Expected clamped single point, got %q", single)
	}
}
