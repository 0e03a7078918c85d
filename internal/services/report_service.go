package services

import (
	"context"
	"errors"
	"time"

	"valeod/internal/models"
	"valeod/internal/onlymonster"
	"valeod/internal/providers"
	"valeod/internal/structures"
)

var ErrNoAccountData = errors.New("no account produced any data")

// ReportServiceInterface aggregates raw analytics data into the values the
// reports are built from.
type ReportServiceInterface interface {
	AccountRevenue(ctx context.Context, model *models.ModelLink, start, end time.Time) (*models.RevenueStats, error)
	CombinedRevenue(ctx context.Context, links []*models.ModelLink, start, end time.Time) (*models.CombinedRevenue, error)
	ChatterReport(ctx context.Context, links []*models.ModelLink, start, end time.Time) ([]*models.ChatterStats, []string, error)
}

type ReportService struct {
	client   onlymonster.ClientInterface
	logger   providers.Logger
	netShare float64
}

func NewReportService(conf *structures.Config, client onlymonster.ClientInterface, logger providers.Logger) ReportServiceInterface {
	return &ReportService{
		client:   client,
		logger:   logger,
		netShare: conf.Reports.NetRevenueShare,
	}
}

// AccountRevenue sums one account's transactions over the window. Reported
// revenue is net of the platform fee (creator keeps 80% of gross). A failed
// subscriber fetch degrades to unknown counts; it never fails the revenue
// number.
func (rs *ReportService) AccountRevenue(ctx context.Context, model *models.ModelLink, start, end time.Time) (*models.RevenueStats, error) {
	items, err := rs.client.Transactions(ctx, model.Platform, model.AccountID, start, end)
	if err != nil {
		return nil, err
	}

	var gross float64
	currency := "USD"
	for _, tx := range items {
		if tx.Amount != nil {
			gross += *tx.Amount
		}
		if currency == "USD" && tx.Currency != "" {
			currency = tx.Currency
		}
	}

	stats := &models.RevenueStats{
		TotalAmount:      gross * rs.netShare,
		Currency:         currency,
		TransactionCount: len(items),
		StartTime:        start,
		EndTime:          end,
	}

	subs, err := rs.client.Subscribers(ctx, model.Platform, model.AccountID, start, end)
	if err != nil {
		rs.logger.Warnf(providers.TypeApp, "Could not fetch subscriber data for %s: %s", model.AccountID, err)
	} else {
		stats.NewSubscribers = subs.NewSubscribers
		stats.TotalSubscribers = subs.TotalSubscribers
	}

	return stats, nil
}

// CombinedRevenue computes each account independently; one account's
// failure is recorded and must not prevent reporting the others. It errors
// only when every account failed.
func (rs *ReportService) CombinedRevenue(ctx context.Context, links []*models.ModelLink, start, end time.Time) (*models.CombinedRevenue, error) {
	combined := &models.CombinedRevenue{StartTime: start, EndTime: end}

	for _, model := range links {
		stats, err := rs.AccountRevenue(ctx, model, start, end)
		if err != nil {
			rs.logger.Errorf(providers.TypeApp, "Revenue fetch failed for %s/%s: %s",
				model.Platform, model.AccountID, err)
			combined.FailedAccounts = append(combined.FailedAccounts, model.DisplayName())
			continue
		}
		combined.Add(model, stats)
	}

	if len(combined.Accounts) == 0 {
		return nil, ErrNoAccountData
	}
	return combined, nil
}

// ChatterReport fetches per-account chatter performance (already filtered
// to the minimum message threshold by the client) and merges it by name
// across the chat's accounts. Returns the merged stats plus the display
// names of accounts that contributed.
func (rs *ReportService) ChatterReport(ctx context.Context, links []*models.ModelLink, start, end time.Time) ([]*models.ChatterStats, []string, error) {
	var all []*models.ChatterStats
	var contributed []string

	for _, model := range links {
		stats, err := rs.client.ChatterPerformance(ctx, model.Platform, model.AccountID, start, end)
		if err != nil {
			rs.logger.Errorf(providers.TypeApp, "Chatter fetch failed for %s: %s", model.AccountID, err)
			continue
		}
		all = append(all, stats...)
		contributed = append(contributed, model.DisplayName())
		rs.logger.Infof(providers.TypeApp, "Fetched %d chatters from %s", len(stats), model.AccountID)
	}

	if len(contributed) == 0 {
		return nil, nil, ErrNoAccountData
	}
	return models.MergeChatters(all), contributed, nil
}
