package footballdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/football-history/internal/config"
	"github.com/riskibarqy/football-history/internal/domain/competition"
	"github.com/riskibarqy/football-history/internal/domain/match"
	"github.com/riskibarqy/football-history/internal/platform/logging"
	"github.com/riskibarqy/football-history/internal/platform/resilience"
	"github.com/riskibarqy/football-history/internal/usecase"
)

const (
	defaultBaseURL = "https://api.football-data.org/v4"
	defaultTimeout = 30 * time.Second
	authHeader     = "X-Auth-Token"
	dateLayout     = "2006-01-02"
	maxBodyBytes   = 16 << 20
)

const (
	opListCompetitions   = "list_competitions"
	opCompetitionMatches = "competition_matches"
	opMatchesByDate      = "matches_by_date"
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Secrets        config.SecretProvider
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the football-data.org v4 API. Every call is a single
// blocking request; there are no retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secrets    config.SecretProvider
	timeout    time.Duration
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker

	tokenMu sync.Mutex
	token   string
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	secrets := cfg.Secrets
	if secrets == nil {
		secrets = config.EnvSecrets{}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		secrets:    secrets,
		timeout:    timeout,
		logger:     logger,
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}
}

// ListCompetitions returns the competitions the token can access, ordered by
// area then name.
func (c *Client) ListCompetitions(ctx context.Context) ([]competition.Summary, error) {
	var payload competitionsEnvelope
	if err := c.doJSON(ctx, opListCompetitions, "/competitions", nil, &payload); err != nil {
		return nil, err
	}

	items := make([]competition.Summary, 0, len(payload.Competitions))
	for _, item := range payload.Competitions {
		items = append(items, competition.Summary{
			Code:     item.Code,
			Name:     item.Name,
			AreaName: item.Area.Name,
			Type:     item.Type,
		})
	}
	return competition.Clean(items), nil
}

// FetchCompetitionMatches returns every match of one competition season.
func (c *Client) FetchCompetitionMatches(ctx context.Context, code string, season int) (match.Payload, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return match.Payload{}, fmt.Errorf("%w: competition code is required", usecase.ErrInvalidInput)
	}

	query := url.Values{}
	query.Set("season", strconv.Itoa(season))

	var payload match.Payload
	path := "/competitions/" + url.PathEscape(code) + "/matches"
	if err := c.doJSON(ctx, opCompetitionMatches, path, query, &payload); err != nil {
		return match.Payload{}, err
	}
	return payload, nil
}

// FetchMatchesByDate returns finished matches between two calendar dates,
// inclusive, optionally limited to the given competitions.
func (c *Client) FetchMatchesByDate(ctx context.Context, from, to time.Time, codes []string) (match.Payload, error) {
	query := url.Values{}
	query.Set("dateFrom", from.Format(dateLayout))
	query.Set("dateTo", to.Format(dateLayout))
	query.Set("status", match.StatusFinished)
	if joined := joinCodes(codes); joined != "" {
		query.Set("competitions", joined)
	}

	var payload match.Payload
	if err := c.doJSON(ctx, opMatchesByDate, "/matches", query, &payload); err != nil {
		return match.Payload{}, err
	}
	return payload, nil
}

func (c *Client) doJSON(ctx context.Context, op, path string, query url.Values, target any) error {
	token, err := c.apiToken()
	if err != nil {
		return err
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	var raw []byte
	err = c.breaker.Execute(ctx, func(ctx context.Context) error {
		var reqErr error
		raw, reqErr = c.executeRequest(ctx, op, fullURL, token)
		return reqErr
	}, isTransient)
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "op", op, "state", c.breaker.State())
		return &usecase.RemoteError{Op: op, Err: err}
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return &usecase.RemoteError{Op: op, StatusCode: http.StatusOK, Err: crerr.Wrap(err, "decode response")}
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, op, fullURL, token string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrapf(err, "build %s request", op)
	}
	req.Header.Set(authHeader, token)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		remote := &usecase.RemoteError{
			Op:      op,
			Timeout: isTimeout(err),
			Err:     crerr.Newf("send request: %s", sanitizeSensitiveText(err.Error(), token)),
		}
		c.logger.WarnContext(ctx, "football-data request failed", "op", op, "url", fullURL, "timeout", remote.Timeout, "error", remote.Err)
		return nil, remote
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &usecase.RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Timeout:    isTimeout(err),
			Err:        crerr.Wrap(err, "read response body"),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		remote := &usecase.RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       abbreviateBody(sanitizeSensitiveText(string(raw), token)),
		}
		c.logger.WarnContext(ctx, "football-data returned non-success status", "op", op, "url", fullURL, "status", resp.StatusCode, "body", remote.Body)
		return nil, remote
	}

	c.logger.DebugContext(ctx, "football-data request completed", "op", op, "url", fullURL, "bytes", len(raw), "elapsed", time.Since(started))
	return raw, nil
}

// apiToken resolves the token on first use and keeps it once found.
func (c *Client) apiToken() (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" {
		return c.token, nil
	}
	token, ok := c.secrets.Secret(config.TokenKey)
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return "", &usecase.ConfigurationError{Key: config.TokenKey}
	}
	c.token = token
	return token, nil
}

func joinCodes(codes []string) string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		out = append(out, code)
	}
	return strings.Join(out, ",")
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

func isTransient(err error) bool {
	var remote *usecase.RemoteError
	if !stderrors.As(err, &remote) {
		return true
	}
	return remote.StatusCode == 0 || remote.StatusCode == http.StatusTooManyRequests || remote.StatusCode >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" || token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}

func abbreviateBody(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

type competitionsEnvelope struct {
	Count        int               `json:"count"`
	Competitions []competitionItem `json:"competitions"`
}

type competitionItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Type string `json:"type"`
	Area struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"area"`
}
