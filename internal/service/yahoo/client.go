// Package yahoo implements MarketDataProvider on the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockLens/internal/domain/models"
	domrepo "StockLens/internal/domain/repository"
	xhttp "StockLens/pkg/http"
	xlogger "StockLens/pkg/logger"
	"StockLens/pkg/util"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultUserAgent = "Mozilla/5.0 (compatible; StockLens/1.0)"
	maxParallel      = 4
)

// Option configures Client.
type Option func(*Client)

// WithBaseURL points the client at another host (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithChunkYears splits long ranges into windows of n years fetched in parallel.
func WithChunkYears(n int) Option {
	return func(c *Client) { c.chunkYears = n }
}

// WithRetries sets attempts for transient failures (429, 5xx, transport errors).
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// WithBackoff sets the base delay between retries.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// WithSymbolMap maps aliases onto Yahoo tickers ("SPX" -> "^GSPC").
func WithSymbolMap(m map[string]string) Option {
	return func(c *Client) { c.symbols = m }
}

// Client fetches daily bars.
type Client struct {
	http       *xhttp.Client
	logger     *xlogger.Logger
	baseURL    string
	chunkYears int
	retries    int
	backoff    time.Duration
	symbols    map[string]string
}

var _ domrepo.MarketDataProvider = (*Client)(nil)

func New(httpClient *xhttp.Client, logger *xlogger.Logger, opts ...Option) *Client {
	c := &Client{
		http:       httpClient,
		logger:     logger,
		baseURL:    DefaultBaseURL,
		chunkYears: 0,
		retries:    3,
		backoff:    200 * time.Millisecond,
		symbols: map[string]string{
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"NIFTY":  "^NSEI",
			"SENSEX": "^BSESN",
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return "yahoo" }

func (c *Client) ticker(symbol string) string {
	if mapped, ok := c.symbols[symbol]; ok {
		return mapped
	}
	return symbol
}

// Fetch returns bars in [start, endExclusive). An unknown symbol yields an empty table.
func (c *Client) Fetch(ctx context.Context, symbol string, start, endExclusive time.Time, adjust bool) (*models.RawTable, error) {
	meta := models.TableMeta{Symbol: symbol, Provider: c.Name()}
	windows := util.SplitYears(start, endExclusive, c.chunkYears)
	if len(windows) == 0 {
		return &models.RawTable{Meta: meta}, nil
	}

	results := make([]*chartResult, len(windows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, w := range windows {
		g.Go(func() error {
			res, err := c.fetchWindow(gctx, c.ticker(symbol), w[0], w[1])
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []bar
	for _, r := range results {
		if r == nil {
			continue
		}
		if meta.Currency == "" {
			meta.Currency = r.Meta.Currency
		}
		all = append(all, r.bars()...)
	}
	all = mergeBars(all, start, endExclusive)

	if c.logger != nil {
		c.logger.Debug("yahoo fetch",
			xlogger.String("symbol", symbol),
			xlogger.Int("windows", len(windows)),
			xlogger.Int("rows", len(all)))
	}
	return toTable(all, meta, adjust), nil
}

// mergeBars sorts by date, keeps the first bar per date and drops bars
// outside [start, end).
func mergeBars(bars []bar, start, end time.Time) []bar {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].date.Before(bars[j].date) })
	out := bars[:0]
	for _, b := range bars {
		if b.date.Before(start) || !b.date.Before(end) {
			continue
		}
		if len(out) > 0 && out[len(out)-1].date.Equal(b.date) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// fetchWindow asks for one extra day before from: exchanges east of UTC
// (NZX, ASX) stamp a session on the previous UTC day. mergeBars trims it.
func (c *Client) fetchWindow(ctx context.Context, ticker string, from, to time.Time) (*chartResult, error) {
	opts := &xhttp.RequestOptions{
		URL: fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(ticker)),
		QueryParams: map[string][]string{
			"period1":              {strconv.FormatInt(from.AddDate(0, 0, -1).Unix(), 10)},
			"period2":              {strconv.FormatInt(to.Unix(), 10)},
			"interval":             {"1d"},
			"events":               {"div,splits"},
			"includeAdjustedClose": {"true"},
		},
	}

	var resp chartResponse
	err := c.withRetry(ctx, func() error {
		resp = chartResponse{}
		return c.http.SendAndParse(ctx, opts, &resp)
	})
	if err != nil {
		if xhttp.IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}
	if e := resp.Chart.Error; e != nil {
		if strings.EqualFold(e.Code, "Not Found") {
			return nil, nil
		}
		return nil, fmt.Errorf("yahoo chart %s: %s: %s", ticker, e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}
	return &resp.Chart.Result[0], nil
}

func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	attempts := c.retries
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil || !retryable(err) || i == attempts {
			return err
		}
		select {
		case <-time.After(time.Duration(i) * c.backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	// transport errors are worth another attempt, malformed bodies are not
	return !errors.Is(err, xhttp.ErrDecode)
}
