// Package explorer is an HTTP client for eIquidus-style block explorer APIs.
package explorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/pkg/numeric"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const (
	blockCountPath    = "/api/getblockcount"
	difficultyPath    = "/api/getdifficulty"
	networkHashPSPath = "/api/getnetworkhashps"
	blockHashPath     = "/api/getblockhash"
	blockPath         = "/api/getblock"
	moneySupplyPath   = "/ext/getmoneysupply"
	summaryPath       = "/ext/getsummary"

	defaultTimeout = 5 * time.Second
	defaultRPS     = 20
	maxBodyBytes   = 1 << 20

	breakerFailures = 5
	breakerTimeout  = 30 * time.Second
)

// ErrEmptyBody is returned when the explorer answers with no content.
var ErrEmptyBody = errors.New("empty response body")

// errCallerDone marks failures caused by the caller's own context. They are
// returned as is but do not count against the endpoint's breaker.
var errCallerDone = errors.New("caller context done")

var endpointPaths = []string{
	blockCountPath,
	difficultyPath,
	networkHashPSPath,
	blockHashPath,
	blockPath,
	moneySupplyPath,
	summaryPath,
}

// Config holds explorer client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RPS caps outgoing requests per second across all callers.
	RPS int
}

// Client fetches raw chain metrics from the explorer.
type Client struct {
	baseURL string
	http    *http.Client
	limiter ratelimit.Limiter
	// Keyed by endpoint path.
	breakers map[string]*gobreaker.CircuitBreaker[[]byte]
	metrics Metrics
	logger  *zap.Logger
}

// NewClient builds a Client. A nil httpClient uses a client with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, metrics Metrics, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("explorer base url is required")
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse explorer url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("explorer url scheme %q not supported", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("explorer url missing host")
	}
	if metrics == nil {
		return nil, errors.New("explorer metrics is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	logger = logger.Named("explorer")
	breakers := make(map[string]*gobreaker.CircuitBreaker[[]byte], len(endpointPaths))
	for _, path := range endpointPaths {
		breakers[path] = newBreaker("explorer"+path, logger)
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     httpClient,
		limiter:  ratelimit.New(rps),
		breakers: breakers,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

func newBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    name,
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerDone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// BlockCount returns the current chain height.
func (c *Client) BlockCount(ctx context.Context) (count int64, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_block_count", err, started)
	}()
	raw, err := c.fetch(ctx, blockCountPath, nil)
	if err != nil {
		return 0, err
	}
	f := numeric.ParseString(raw)
	if f <= 0 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("parse block count %q: out of range", raw)
	}
	return int64(f), nil
}

// Difficulty returns the raw difficulty text.
func (c *Client) Difficulty(ctx context.Context) (raw string, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_difficulty", err, started)
	}()
	return c.fetch(ctx, difficultyPath, nil)
}

// NetworkHashPS returns the raw network hashrate text in H/s.
func (c *Client) NetworkHashPS(ctx context.Context) (raw string, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_network_hashps", err, started)
	}()
	return c.fetch(ctx, networkHashPSPath, nil)
}

// MoneySupply returns the raw circulating supply text.
func (c *Client) MoneySupply(ctx context.Context) (raw string, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_money_supply", err, started)
	}()
	return c.fetch(ctx, moneySupplyPath, nil)
}

// BlockHash returns the hash of the block at height.
func (c *Client) BlockHash(ctx context.Context, height uint64) (hash *chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_block_hash", err, started)
	}()
	raw, err := c.fetch(ctx, blockHashPath, url.Values{"index": {strconv.FormatUint(height, 10)}})
	if err != nil {
		return nil, err
	}
	hash, err = chainhash.NewHashFromStr(raw)
	if err != nil {
		return nil, fmt.Errorf("parse block hash at height %d: %w", height, err)
	}
	return hash, nil
}

// Block returns the block with the given hash.
func (c *Client) Block(ctx context.Context, hash *chainhash.Hash) (res *btcjson.GetBlockVerboseResult, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_block", err, started)
	}()
	body, err := c.fetchBytes(ctx, blockPath, url.Values{"hash": {hash.String()}})
	if err != nil {
		return nil, err
	}
	res = &btcjson.GetBlockVerboseResult{}
	if err = json.Unmarshal(body, res); err != nil {
		// Explorers for non-bitcoin chains add or retype fields; a type
		// mismatch elsewhere still leaves a usable timestamp.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) || res.Time <= 0 {
			return nil, fmt.Errorf("decode block %s: %w", hash, err)
		}
		c.logger.Debug("partial block decode", zap.String("hash", hash.String()), zap.Error(err))
		err = nil
	}
	return res, nil
}

// Summary returns the decoded aggregate summary. Explorers answer either with
// an object or with a one-element array holding the object.
func (c *Client) Summary(ctx context.Context) (summary map[string]any, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_summary", err, started)
	}()
	body, err := c.fetchBytes(ctx, summaryPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeSummary(body)
}

func decodeSummary(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	switch value := v.(type) {
	case map[string]any:
		return value, nil
	case []any:
		if len(value) > 0 {
			if m, ok := value[0].(map[string]any); ok {
				return m, nil
			}
		}
	}
	return nil, fmt.Errorf("decode summary: unexpected %T", v)
}

func (c *Client) fetch(ctx context.Context, path string, query url.Values) (string, error) {
	body, err := c.fetchBytes(ctx, path, query)
	if err != nil {
		return "", err
	}
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return "", fmt.Errorf("get %s: %w", path, ErrEmptyBody)
	}
	return raw, nil
}

func (c *Client) fetchBytes(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.limiter.Take()
	return c.breakers[path].Execute(func() ([]byte, error) {
		body, err := c.get(ctx, path, query)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errCallerDone, err)
		}
		return body, err
	})
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("get %s: unexpected status %d", path, resp.StatusCode)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("get %s: %w", path, ErrEmptyBody)
	}
	return body, nil
}
