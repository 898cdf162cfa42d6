package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dnldd/signal/shared"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	// requestTimeout is the per request timeout for the bridge.
	requestTimeout = time.Second * 5
	// maxRetries bounds the retry attempts for a bridge request.
	maxRetries = 3
	// requestsPerSecond is the bridge request rate limit.
	requestsPerSecond = 5

	// Bridge paths.
	barsPath   = "/bars"
	tickPath   = "/tick"
	symbolPath = "/symbol"
)

// BridgeConfig represents the configuration for the terminal bridge client.
type BridgeConfig struct {
	// BaseURL is the terminal bridge endpoint.
	BaseURL string
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *BridgeConfig) Validate() error {
	var errs error

	if cfg.BaseURL == "" {
		errs = errors.Join(errs, fmt.Errorf("bridge base url cannot be an empty string"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// BridgeClient fetches bars, ticks and symbol metadata from a terminal bridge
// serving market data over http.
type BridgeClient struct {
	cfg     *BridgeConfig
	httpc   http.Client
	limiter *rate.Limiter
	buf     *bytes.Buffer
}

// Ensure the bridge client implements the MarketFetcher interface.
var _ shared.MarketFetcher = (*BridgeClient)(nil)

// NewBridgeClient initializes a new terminal bridge client.
func NewBridgeClient(cfg *BridgeConfig) (*BridgeClient, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating bridge config: %w", err)
	}

	return &BridgeClient{
		cfg:     cfg,
		httpc:   http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		buf:     bytes.NewBuffer(make([]byte, 0, 512)),
	}, nil
}

// formURL creates full urls including parameters for the bridge.
func (c *BridgeClient) formURL(path string, params string) string {
	c.buf.WriteString(c.cfg.BaseURL)
	c.buf.WriteString(path)
	c.buf.WriteString("?")
	c.buf.WriteString(params)
	url := c.buf.String()
	c.buf.Reset()

	return url
}

// fetchJSON fetches the provided url, retrying transient failures with
// exponential backoff.
func (c *BridgeClient) fetchJSON(ctx context.Context, formedURL string) (*gjson.Result, error) {
	err := c.limiter.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("awaiting rate limiter: %w", err)
	}

	var body []byte
	fetch := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, formedURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected bridge status: %s", resp.Status)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		return nil
	}

	err = backoff.Retry(fetch,
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx))
	if err != nil {
		return nil, err
	}

	result := gjson.ParseBytes(body)

	return &result, nil
}

// FetchBars fetches the most recent count bars for the provided market,
// ordered by ascending timestamp.
func (c *BridgeClient) FetchBars(ctx context.Context, market string, timeframe shared.Timeframe, count int) ([]shared.Candlestick, error) {
	params := url.Values{}
	params.Add("symbol", market)
	params.Add("timeframe", timeframe.String())
	params.Add("count", strconv.Itoa(count))

	result, err := c.fetchJSON(ctx, c.formURL(barsPath, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("fetching bars for %s (%s): %w", market, timeframe.String(), err)
	}

	candles, err := shared.ParseCandlesticks(result.Array(), market, timeframe)
	if err != nil {
		return nil, fmt.Errorf("parsing bars for %s: %w", market, err)
	}

	return candles, nil
}

// FetchMarketContext fetches the current quote and symbol metadata for the
// provided market.
func (c *BridgeClient) FetchMarketContext(ctx context.Context, market string) (*shared.MarketContext, error) {
	params := url.Values{}
	params.Add("symbol", market)
	encoded := params.Encode()

	tick, err := c.fetchJSON(ctx, c.formURL(tickPath, encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: fetching tick for %s: %v", shared.ErrMarketContextUnavailable, market, err)
	}

	info, err := c.fetchJSON(ctx, c.formURL(symbolPath, encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: fetching symbol info for %s: %v", shared.ErrMarketContextUnavailable, market, err)
	}

	mktCtx := &shared.MarketContext{
		Bid:       tick.Get("bid").Float(),
		Ask:       tick.Get("ask").Float(),
		PointSize: info.Get("point").Float(),
		Digits:    int(info.Get("digits").Int()),
	}

	err = mktCtx.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMarketContextUnavailable, err)
	}

	return mktCtx, nil
}
