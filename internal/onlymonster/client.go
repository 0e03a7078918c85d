// Package onlymonster is a thin read-only adapter over the OnlyMonster
// analytics API. It does request/response plumbing only; aggregation
// belongs to the report service.
package onlymonster

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"valeod/internal/models"
	"valeod/internal/providers"
	"valeod/internal/structures"
)

type ClientInterface interface {
	Transactions(ctx context.Context, platform, accountID string, start, end time.Time) ([]Transaction, error)
	Subscribers(ctx context.Context, platform, accountID string, start, end time.Time) (*SubscriberCounts, error)
	ChatterPerformance(ctx context.Context, platform, accountID string, start, end time.Time) ([]*models.ChatterStats, error)
	OnlineFans(ctx context.Context, platform, accountID string) ([]*models.OnlineFan, error)
}

type Transaction struct {
	Amount   *float64 `json:"amount"`
	Currency string   `json:"currency"`
}

type SubscriberCounts struct {
	NewSubscribers   *int `json:"new_subscribers"`
	TotalSubscribers *int `json:"total_subscribers"`
}

type Client struct {
	baseURL     string
	token       string
	limit       int
	minMessages int
	fetchClient *http.Client
	pollClient  *http.Client
	logger      providers.Logger
}

func NewClient(conf *structures.Config, logger providers.Logger) ClientInterface {
	return &Client{
		baseURL:     conf.Analytics.BaseURL,
		token:       conf.Analytics.Token,
		limit:       conf.Reports.TransactionLimit,
		minMessages: conf.Reports.MinChatterMessages,
		fetchClient: &http.Client{Timeout: conf.Analytics.FetchTimeout},
		pollClient:  &http.Client{Timeout: conf.Analytics.PollTimeout},
		logger:      logger,
	}
}

func isoUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.999999Z07:00")
}

func (c *Client) get(ctx context.Context, client *http.Client, endpoint string, params url.Values, out interface{}) error {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-om-auth-token", c.token)
	req.Header.Set("accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request to %s returned status %d", endpoint, resp.StatusCode)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed response from %s: %w", endpoint, err)
	}
	return nil
}

func accountPath(platform, accountID, resource string) string {
	return fmt.Sprintf("/api/v0/platforms/%s/accounts/%s/%s", platform, accountID, resource)
}

func (c *Client) Transactions(ctx context.Context, platform, accountID string, start, end time.Time) ([]Transaction, error) {
	params := url.Values{}
	params.Set("start", isoUTC(start))
	params.Set("end", isoUTC(end))
	params.Set("limit", strconv.Itoa(c.limit))

	var payload struct {
		Items []Transaction `json:"items"`
	}
	endpoint := accountPath(platform, accountID, "transactions")
	c.logger.Debugf(providers.TypeApp, "Fetching transactions: %s [%s - %s]", endpoint, params.Get("start"), params.Get("end"))
	if err := c.get(ctx, c.fetchClient, endpoint, params, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

func (c *Client) Subscribers(ctx context.Context, platform, accountID string, start, end time.Time) (*SubscriberCounts, error) {
	params := url.Values{}
	params.Set("start", isoUTC(start))
	params.Set("end", isoUTC(end))

	var payload SubscriberCounts
	if err := c.get(ctx, c.fetchClient, accountPath(platform, accountID, "subscribers"), params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) ChatterPerformance(ctx context.Context, platform, accountID string, start, end time.Time) ([]*models.ChatterStats, error) {
	params := url.Values{}
	params.Set("start_date", start.UTC().Format("2006-01-02"))
	params.Set("end_date", end.UTC().Format("2006-01-02"))

	var payload struct {
		Chatters []struct {
			Name             string  `json:"name"`
			TotalSales       float64 `json:"total_sales"`
			AvgResponseTime  float64 `json:"avg_response_time"`
			PPVConversion    float64 `json:"ppv_conversion_rate"`
			TotalMessages    int     `json:"total_messages"`
			TemplateMessages int     `json:"template_messages"`
			ManualMessages   int     `json:"manual_messages"`
		} `json:"chatters"`
	}
	if err := c.get(ctx, c.fetchClient, accountPath(platform, accountID, "chatter-performance"), params, &payload); err != nil {
		return nil, err
	}

	// The minimum-message filter is applied here, before any cross-account
	// merge, so a chatter below the bar on every account never appears.
	stats := make([]*models.ChatterStats, 0, len(payload.Chatters))
	for _, ch := range payload.Chatters {
		if ch.TotalMessages < c.minMessages {
			continue
		}
		name := ch.Name
		if name == "" {
			name = "Unknown"
		}
		stats = append(stats, &models.ChatterStats{
			Name:              name,
			TotalSales:        ch.TotalSales,
			AvgResponseSecs:   ch.AvgResponseTime,
			PPVConversionRate: ch.PPVConversion,
			TotalMessages:     ch.TotalMessages,
			TemplateMessages:  ch.TemplateMessages,
			ManualMessages:    ch.ManualMessages,
		})
	}
	return stats, nil
}

func (c *Client) OnlineFans(ctx context.Context, platform, accountID string) ([]*models.OnlineFan, error) {
	var payload struct {
		Fans []*models.OnlineFan `json:"fans"`
	}
	if err := c.get(ctx, c.pollClient, accountPath(platform, accountID, "fans/online"), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Fans, nil
}
