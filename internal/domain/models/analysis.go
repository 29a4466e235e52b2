package models

// AnalysisKind selects the analytical view.
type AnalysisKind string

const (
	KindPrice         AnalysisKind = "price"
	KindMovingAverage AnalysisKind = "moving-average"
	KindVolume        AnalysisKind = "volume"
	KindRegression    AnalysisKind = "regression"
)

// AnalysisKinds lists the supported kinds.
var AnalysisKinds = []AnalysisKind{KindPrice, KindMovingAverage, KindVolume, KindRegression}

// IsValidKind returns true if k is a supported analysis kind.
func IsValidKind(k AnalysisKind) bool {
	switch k {
	case KindPrice, KindMovingAverage, KindVolume, KindRegression:
		return true
	default:
		return false
	}
}

// Trend directions.
const (
	TrendUpward   = "Upward"
	TrendDownward = "Downward"
	TrendFlat     = "Flat"
)

type RegressionStats struct {
	Slope           float64    `json:"slope"`
	Intercept       float64    `json:"intercept"`
	TrendDirection  string     `json:"trend_direction"`
	PriceColumnUsed ColumnName `json:"price_column_used"`
	RSquared        float64    `json:"r_squared"`
}

// AnalysisResult is a chart, plus regression stats for the regression kind.
type AnalysisResult struct {
	ChartData ChartSpec        `json:"chart_data"`
	Stats     *RegressionStats `json:"stats,omitempty"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Summary is the "fetch summary" payload.
type Summary struct {
	Success        bool       `json:"success"`
	Symbol         string     `json:"symbol"`
	LatestPrice    float64    `json:"latest_price"`
	PriceChange    float64    `json:"price_change"`
	PriceChangePct float64    `json:"price_change_pct"`
	DataPoints     int        `json:"data_points"`
	DateRange      DateRange  `json:"date_range"`
	Currency       string     `json:"currency"`
	PriceColumn    ColumnName `json:"price_column"`
}
