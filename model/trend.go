package model

// Trend directions reported by the backend.
const (
	TrendUp   = "상승"
	TrendDown = "하락"
	TrendFlat = "유지"
)

// TrendAnalysis is the trend_analysis block of /api/datalab/trend.
type TrendAnalysis struct {
	AverageTrend   float64  `json:"avg_trend"`
	TrendDirection string   `json:"trend_direction"`
	TrendScore     float64  `json:"trend_score"`
	MaxTrend       *float64 `json:"max_trend,omitempty"`
	DataPointCount *int     `json:"data_points,omitempty"`
}

// Max returns max_trend, falling back to the average when absent.
func (t TrendAnalysis) Max() float64 {
	if t.MaxTrend == nil {
		return t.AverageTrend
	}
	return *t.MaxTrend
}

// DataPoints returns data_points or 0 when absent.
func (t TrendAnalysis) DataPoints() int {
	if t.DataPointCount == nil {
		return 0
	}
	return *t.DataPointCount
}

// TrendSummary is the summary block of /api/datalab/trend.
type TrendSummary struct {
	Keyword        string  `json:"keyword"`
	TrendScore     float64 `json:"trend_score"`
	Popularity     string  `json:"popularity"`
	TrendDirection string  `json:"trend_direction"`
}

type SearchVolumeStats struct {
	DailySearches   int64  `json:"daily_searches"`
	WeeklySearches  int64  `json:"weekly_searches"`
	MonthlySearches int64  `json:"monthly_searches"`
	VolumeLevel     string `json:"volume_level"`
	Competition     string `json:"competition"`
	Seasonality     string `json:"seasonality"`
	TrendDirection  string `json:"trend_direction,omitempty"`
	GrowthRate      string `json:"growth_rate,omitempty"`
}

// TrendReport is the full /api/datalab/trend payload.
type TrendReport struct {
	SearchKeyword     string             `json:"search_keyword,omitempty"`
	TrendAnalysis     *TrendAnalysis     `json:"trend_analysis"`
	Summary           *TrendSummary      `json:"summary,omitempty"`
	RelatedKeywords   []RelatedKeyword   `json:"related_keywords"`
	SearchVolumeStats *SearchVolumeStats `json:"search_volume_stats,omitempty"`
	Insights          []string           `json:"analysis_insights,omitempty"`
}

// ChartPoint is one day of the trend chart.
type ChartPoint struct {
	Date  string  `json:"date"`
	Trend float64 `json:"trend"`
}
