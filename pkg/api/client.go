package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coolbeans/hemiciclo/pkg/legislature"
)

// DefaultBaseURL is the base URL of the transparency backend.
const DefaultBaseURL = "http://localhost:8000"

// DefaultUserAgent is the User-Agent header sent with requests.
const DefaultUserAgent = "hemiciclo/1.0"

// DefaultTimeout is the per-request timeout of the default HTTP client.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 16 << 20

// Config holds configuration for a Client.
type Config struct {
	// BaseURL is the backend root, without a trailing /api.
	BaseURL string

	// HTTPClient is the underlying HTTP client. If nil, an *http.Client with
	// Timeout is used.
	HTTPClient HTTPClient

	// RateLimit is the minimum interval between requests. Zero disables
	// rate limiting.
	RateLimit time.Duration

	// CacheTTL is how long successful responses are reused. Zero disables
	// caching.
	CacheTTL time.Duration

	// UserAgent is the User-Agent header.
	UserAgent string

	// Timeout applies to the default HTTP client only.
	Timeout time.Duration

	// Logger receives request diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		RateLimit: DefaultRequestInterval,
		CacheTTL:  DefaultCacheTTL,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
	}
}

// Client fetches data from the transparency backend.
//
// Each call is independent: there is no retry, and concurrent calls are not
// ordered against each other.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	limiter    *Throttle
	cache      *ResponseCache
	userAgent  string
	logger     *zap.Logger
}

// NewClient creates a Client with the given configuration.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	underlying := config.HTTPClient
	if underlying == nil {
		underlying = &http.Client{Timeout: config.Timeout}
	}

	client := &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: underlying,
		userAgent:  config.UserAgent,
		logger:     config.Logger.Named("api"),
	}
	if config.RateLimit > 0 {
		client.limiter = NewThrottle(underlying, config.RateLimit)
		client.httpClient = client.limiter
	}
	if config.CacheTTL > 0 {
		client.cache = NewResponseCache(config.CacheTTL)
	}
	return client
}

// Close releases the rate limiter, if any.
func (c *Client) Close() {
	if c.limiter != nil {
		c.limiter.Close()
	}
}

// BaseURL returns the normalised backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// InvalidateCache drops every cached response.
func (c *Client) InvalidateCache() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// endpoint builds an absolute URL for path with the non-empty query values.
func (c *Client) endpoint(path string, query map[string]string) string {
	values := url.Values{}
	for key, value := range query {
		if value != "" {
			values.Set(key, value)
		}
	}
	target := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}

// get performs a GET request and returns the body once it has passed the
// status and payload checks.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	if c.cache != nil {
		if body, found := c.cache.Get(target); found {
			c.logger.Debug("cache hit", zap.String("url", target))
			return body, nil
		}
	}

	requestID := uuid.NewString()
	logger := c.logger.With(zap.String("url", target), zap.String("request_id", requestID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("request failed", zap.Error(err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrTransport, ctxErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		logger.Warn("failed to read response", zap.Error(err))
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}

	logger.Debug("response",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("unexpected status", zap.Int("status", resp.StatusCode))
		return nil, &StatusError{Code: resp.StatusCode, URL: target}
	}

	if err := checkPayload(body, target); err != nil {
		logger.Warn("rejected payload", zap.Error(err))
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(target, body)
	}
	return body, nil
}

// Legislatures fetches the global legislature listing. Records come back in
// payload order; use legislature.Order or legislature.Resolve to sort them.
func (c *Client) Legislatures(ctx context.Context) ([]legislature.Record, error) {
	body, err := c.get(ctx, c.endpoint("/api/legislaturas", nil))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch legislatures: %w", err)
	}
	return legislature.FromListing(body)
}

// DeputyHistory fetches the legislatures a deputy served in, normalised to
// the same record shape as the global listing.
func (c *Client) DeputyHistory(ctx context.Context, deputyID string) ([]legislature.Record, error) {
	target := c.endpoint("/api/deputados/"+url.PathEscape(deputyID)+"/historico", nil)
	body, err := c.get(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history of deputy %s: %w", deputyID, err)
	}
	return legislature.FromHistory(body)
}

// Parties fetches the parliamentary groups of a legislature. An empty
// legislature lets the backend pick.
func (c *Client) Parties(ctx context.Context, legislatureOrdinal string) ([]Party, error) {
	target := c.endpoint("/api/partidos", map[string]string{"legislatura": legislatureOrdinal})
	body, err := c.get(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parties: %w", err)
	}

	raw, _, err := decodeList[jsonParty](body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse parties: %w", err)
	}
	parties := make([]Party, 0, len(raw))
	for _, p := range raw {
		parties = append(parties, p.toParty())
	}
	return parties, nil
}

// Party fetches one party with its members.
func (c *Client) Party(ctx context.Context, acronym, legislatureOrdinal string) (*PartyDetail, error) {
	target := c.endpoint("/api/partidos/"+url.PathEscape(acronym), map[string]string{"legislatura": legislatureOrdinal})
	body, err := c.get(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch party %s: %w", acronym, err)
	}

	raw, err := decodeObject[jsonParty](body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse party %s: %w", acronym, err)
	}
	detail := &PartyDetail{Party: raw.toParty(), Deputies: make([]Deputy, 0, len(raw.Membros))}
	for _, member := range raw.Membros {
		detail.Deputies = append(detail.Deputies, member.toDeputy())
	}
	if detail.Seats == 0 {
		detail.Seats = len(detail.Deputies)
	}
	return detail, nil
}

// Deputies fetches one page of the deputy directory.
func (c *Client) Deputies(ctx context.Context, query DeputyQuery) (*Page[Deputy], error) {
	params := map[string]string{
		"legislatura": query.Legislature,
		"partido":     query.Party,
		"circulo":     query.District,
		"q":           query.Search,
	}
	if query.Page > 0 {
		params["pagina"] = strconv.Itoa(query.Page)
	}
	if query.PerPage > 0 {
		params["por_pagina"] = strconv.Itoa(query.PerPage)
	}

	body, err := c.get(ctx, c.endpoint("/api/deputados", params))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deputies: %w", err)
	}

	raw, pagination, err := decodeList[jsonDeputy](body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deputies: %w", err)
	}

	page := &Page[Deputy]{Items: make([]Deputy, 0, len(raw))}
	for _, d := range raw {
		page.Items = append(page.Items, d.toDeputy())
	}
	if pagination != nil {
		page.Page = pagination.Page
		page.PerPage = pagination.PerPage
		page.Total = pagination.Total
	}
	if page.Page == 0 {
		page.Page = max(query.Page, 1)
	}
	if page.PerPage == 0 {
		page.PerPage = max(query.PerPage, len(page.Items))
	}
	if page.Total == 0 {
		page.Total = len(page.Items)
	}
	return page, nil
}

// Deputy fetches one deputy with their mandates.
func (c *Client) Deputy(ctx context.Context, deputyID string) (*Deputy, error) {
	body, err := c.get(ctx, c.endpoint("/api/deputados/"+url.PathEscape(deputyID), nil))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deputy %s: %w", deputyID, err)
	}

	raw, err := decodeObject[jsonDeputy](body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deputy %s: %w", deputyID, err)
	}
	deputy := raw.toDeputy()
	return &deputy, nil
}

// Votes fetches roll-call votes, oldest first. party narrows the ballots to
// one parliamentary group when the backend supports it.
func (c *Client) Votes(ctx context.Context, legislatureOrdinal, party string) ([]Vote, error) {
	target := c.endpoint("/api/votacoes", map[string]string{
		"legislatura": legislatureOrdinal,
		"partido":     party,
	})
	body, err := c.get(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch votes: %w", err)
	}

	raw, _, err := decodeList[jsonVote](body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse votes: %w", err)
	}
	votes := make([]Vote, 0, len(raw))
	for _, v := range raw {
		votes = append(votes, v.toVote())
	}
	sortVotesByDate(votes)
	return votes, nil
}

// Coalitions fetches the coalitions of a legislature.
func (c *Client) Coalitions(ctx context.Context, legislatureOrdinal string) ([]Coalition, error) {
	target := c.endpoint("/api/coligacoes", map[string]string{"legislatura": legislatureOrdinal})
	body, err := c.get(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coalitions: %w", err)
	}

	raw, _, err := decodeList[jsonCoalition](body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse coalitions: %w", err)
	}
	coalitions := make([]Coalition, 0, len(raw))
	for _, co := range raw {
		coalitions = append(coalitions, Coalition{
			Name:    strings.TrimSpace(co.Nome),
			Acronym: strings.TrimSpace(co.Sigla),
			Parties: co.Partidos,
		})
	}
	return coalitions, nil
}

// Transparency fetches per-deputy activity and disclosure records.
func (c *Client) Transparency(ctx context.Context, legislatureOrdinal string) ([]TransparencyRecord, error) {
	target := c.endpoint("/api/transparencia", map[string]string{"legislatura": legislatureOrdinal})
	body, err := c.get(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transparency metrics: %w", err)
	}

	raw, _, err := decodeList[jsonTransparency](body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transparency metrics: %w", err)
	}
	records := make([]TransparencyRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, r.toRecord())
	}
	return records, nil
}
