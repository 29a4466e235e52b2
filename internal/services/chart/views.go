package chart

import (
	"StockLens/internal/domain/service"
	"StockLens/internal/services/series"
)

// View titles.
const (
	TitlePrice         = "Stock Price Analysis"
	TitleMovingAverage = "Moving Average Analysis"
	TitleVolume        = "Volume Analysis"
	TitleRegression    = "Linear Regression Trend Analysis"
)

func priceLayout() service.LayoutOptions {
	return service.LayoutOptions{XAxisTitle: defaultXTitle, YAxisTitle: defaultYTitle, Height: defaultHeight}
}

// PriceTraces renders the price line.
func PriceTraces(p series.PriceView) []service.TraceInput {
	return []service.TraceInput{{
		Name: "Stock Price", X: p.Dates, Y: p.Values,
		Style: service.Style{Kind: service.TraceLine, Color: ColorPrice, Width: priceLineWidth},
	}}
}

func MovingAverageTraces(v series.MovingAverageView) []service.TraceInput {
	return []service.TraceInput{
		{Name: "Price", X: v.Dates, Y: v.Price, Style: service.Style{Color: ColorPrice}},
		{Name: "50-Day MA", X: v.Dates, Y: v.Short, Style: service.Style{Color: ColorAccent}},
		{Name: "200-Day MA", X: v.Dates, Y: v.Long, Style: service.Style{Color: ColorLongMA}},
	}
}

func VolumeTraces(v series.VolumeView) []service.TraceInput {
	return []service.TraceInput{{
		Name: "Volume", X: v.Dates, Y: v.Values,
		Style: service.Style{Kind: service.TraceBar, Color: ColorVolume},
	}}
}

// RegressionTraces renders actual prices and the fitted line.
func RegressionTraces(r series.TrendResult) []service.TraceInput {
	return []service.TraceInput{
		{Name: "Actual Price", X: r.Dates, Y: r.Actual, Style: service.Style{Color: ColorPrice}},
		{Name: "Trend Line", X: r.Dates, Y: r.Fitted, Style: service.Style{Color: ColorAccent, Dash: DashTrendLine}},
	}
}

// Layouts per view.
func PriceLayout() service.LayoutOptions         { return priceLayout() }
func MovingAverageLayout() service.LayoutOptions { return priceLayout() }
func RegressionLayout() service.LayoutOptions    { return priceLayout() }
func VolumeLayout() service.LayoutOptions {
	return service.LayoutOptions{XAxisTitle: defaultXTitle, YAxisTitle: "Volume", Height: defaultHeight}
}
