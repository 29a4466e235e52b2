// Command stockctl runs a summary or one analysis view against the
// configured market data provider and prints the result.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"StockLens/internal/di"
	"StockLens/internal/domain/models"
	internalrepo "StockLens/internal/repository"
	"StockLens/internal/usecase"
	"StockLens/pkg/config"
	"StockLens/pkg/util"

	"github.com/fatih/color"
)

type options struct {
	configPath string
	symbol     string
	start      string
	end        string
	kind       string
	asJSON     bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	now := time.Now().UTC()
	var o options
	fs := flag.NewFlagSet("stockctl", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "config file path (defaults and env only when empty)")
	fs.StringVar(&o.symbol, "symbol", "AAPL", "ticker symbol")
	fs.StringVar(&o.start, "start", util.FormatDate(now.AddDate(-1, 0, 0)), "start date YYYY-MM-DD")
	fs.StringVar(&o.end, "end", util.FormatDate(now), "end date YYYY-MM-DD")
	fs.StringVar(&o.kind, "kind", "summary", "summary|price|moving-average|volume|regression")
	fs.BoolVar(&o.asJSON, "json", false, "print raw JSON")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

func run(args []string, out io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := config.LoadWithEnv(o.configPath)
	if err != nil {
		return err
	}
	cfg.Logging.Output = "stderr"
	cfg.Logging.Aggregate.Enabled = false

	uc, err := buildUseCase(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var result interface{}
	if o.kind == "summary" {
		result, err = uc.Summarize(ctx, usecase.SummaryParams{Symbol: o.symbol, StartDate: o.start, EndDate: o.end})
	} else {
		result, err = uc.Handle(ctx, usecase.AnalysisParams{Symbol: o.symbol, StartDate: o.start, EndDate: o.end, Kind: o.kind})
	}
	if err != nil {
		var aerr *models.AnalysisError
		if errors.As(err, &aerr) {
			printError(out, aerr)
		}
		return err
	}

	if o.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	switch r := result.(type) {
	case *models.Summary:
		printSummary(out, r)
	case *models.AnalysisResult:
		printAnalysis(out, o.kind, r)
	}
	return nil
}

func buildUseCase(cfg *config.Config) (*usecase.AnalysisUseCase, error) {
	logger, err := di.ProvideLogger(cfg, nil)
	if err != nil {
		return nil, err
	}
	reg := di.ProvideRegistry()
	provider, err := di.ProvideMarketDataProvider(cfg, di.ProvideHTTPClient(cfg), logger, reg)
	if err != nil {
		return nil, err
	}
	return usecase.NewAnalysisUseCase(provider, di.ProvideNormalizer(logger), di.ProvideChartAssembler(), logger,
		usecase.WithAdjust(cfg.Provider.Adjust),
		usecase.WithEvents(internalrepo.NewNopEventPublisher()),
	), nil
}

var (
	label = color.New(color.FgHiBlack).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	up    = color.New(color.FgGreen).SprintFunc()
	down  = color.New(color.FgRed).SprintFunc()
)

func signed(v float64, s string) string {
	switch {
	case v > 0:
		return up(s)
	case v < 0:
		return down(s)
	default:
		return s
	}
}

func printSummary(w io.Writer, s *models.Summary) {
	fmt.Fprintf(w, "%s %s\n", bold(s.Symbol), label(fmt.Sprintf("(%s to %s)", s.DateRange.Start, s.DateRange.End)))
	fmt.Fprintf(w, "  %s %s%.2f\n", label("latest:"), s.Currency, s.LatestPrice)
	fmt.Fprintf(w, "  %s %s\n", label("change:"), signed(s.PriceChange, fmt.Sprintf("%+.2f (%+.2f%%)", s.PriceChange, s.PriceChangePct)))
	fmt.Fprintf(w, "  %s %d rows, %s\n", label("data:"), s.DataPoints, s.PriceColumn)
}

func printAnalysis(w io.Writer, kind string, r *models.AnalysisResult) {
	fmt.Fprintf(w, "%s %s\n", bold(r.ChartData.Layout.Title), label("["+kind+"]"))
	for _, t := range r.ChartData.Data {
		first, last := "-", "-"
		if n := len(t.X); n > 0 {
			first, last = t.X[0], t.X[n-1]
		}
		fmt.Fprintf(w, "  %-20s %5d points  %s .. %s\n", t.Name, len(t.Y), first, last)
	}
	if st := r.Stats; st != nil {
		trend := st.TrendDirection
		switch trend {
		case models.TrendUpward:
			trend = up(trend)
		case models.TrendDownward:
			trend = down(trend)
		}
		fmt.Fprintf(w, "  %s %s  %s %.4f  %s %.4f  %s %.4f\n",
			label("trend:"), trend,
			label("slope:"), st.Slope,
			label("intercept:"), st.Intercept,
			label("r2:"), st.RSquared)
	}
}

func printError(w io.Writer, e *models.AnalysisError) {
	fmt.Fprintf(w, "%s %s\n", down(string(e.Kind)), e.Message)
	for _, s := range e.Suggestions {
		fmt.Fprintf(w, "  - %s\n", s)
	}
}
