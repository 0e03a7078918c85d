package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valeod/internal/models"
	"valeod/internal/onlymonster"
	"valeod/internal/structures"
	"valeod/internal/testutil"
)

func reportConfig() *structures.Config {
	return &structures.Config{
		Reports: structures.ReportsConfig{NetRevenueShare: 0.8},
	}
}

func amount(v float64) *float64 { return &v }
func count(v int) *int          { return &v }

func reportWindow() (time.Time, time.Time) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	return start, start.Add(24*time.Hour - time.Microsecond)
}

func TestReportService_AccountRevenue(t *testing.T) {
	client := &testutil.MockAnalyticsClient{
		TransactionsData: map[string][]onlymonster.Transaction{
			"onlyfans:acc-1": {
				{Amount: amount(100), Currency: "USD"},
				{Amount: amount(25), Currency: "USD"},
				{Amount: nil, Currency: "USD"},
			},
		},
		SubscribersData: map[string]*onlymonster.SubscriberCounts{
			"onlyfans:acc-1": {NewSubscribers: count(3), TotalSubscribers: count(120)},
		},
	}
	svc := NewReportService(reportConfig(), client, &testutil.MockLogger{})

	start, end := reportWindow()
	stats, err := svc.AccountRevenue(context.Background(), &models.ModelLink{Platform: "onlyfans", AccountID: "acc-1"}, start, end)
	require.NoError(t, err)

	// 125 gross, creator keeps 80%.
	assert.InDelta(t, 100.0, stats.TotalAmount, 1e-9)
	assert.Equal(t, "USD", stats.Currency)
	assert.Equal(t, 3, stats.TransactionCount)
	require.NotNil(t, stats.NewSubscribers)
	assert.Equal(t, 3, *stats.NewSubscribers)
	assert.Equal(t, start, stats.StartTime)
	assert.Equal(t, end, stats.EndTime)
}

func TestReportService_AccountRevenue_SubscriberFailureDegrades(t *testing.T) {
	logger := &testutil.MockLogger{}
	client := &testutil.MockAnalyticsClient{
		TransactionsData: map[string][]onlymonster.Transaction{
			"onlyfans:acc-1": {{Amount: amount(50), Currency: "USD"}},
		},
		SubscribersErr: map[string]error{
			"onlyfans:acc-1": errors.New("upstream 502"),
		},
	}
	svc := NewReportService(reportConfig(), client, logger)

	start, end := reportWindow()
	stats, err := svc.AccountRevenue(context.Background(), &models.ModelLink{Platform: "onlyfans", AccountID: "acc-1"}, start, end)
	require.NoError(t, err)

	assert.InDelta(t, 40.0, stats.TotalAmount, 1e-9)
	assert.Nil(t, stats.NewSubscribers)
	assert.Nil(t, stats.TotalSubscribers)
	assert.NotEmpty(t, logger.Entries("warn"))
}

func TestReportService_AccountRevenue_TransactionsFail(t *testing.T) {
	client := &testutil.MockAnalyticsClient{
		TransactionsErr: map[string]error{
			"onlyfans:acc-1": errors.New("timeout"),
		},
	}
	svc := NewReportService(reportConfig(), client, &testutil.MockLogger{})

	start, end := reportWindow()
	_, err := svc.AccountRevenue(context.Background(), &models.ModelLink{Platform: "onlyfans", AccountID: "acc-1"}, start, end)
	assert.Error(t, err)
}

func TestReportService_AccountRevenue_NoTransactions(t *testing.T) {
	client := &testutil.MockAnalyticsClient{}
	svc := NewReportService(reportConfig(), client, &testutil.MockLogger{})

	start, end := reportWindow()
	stats, err := svc.AccountRevenue(context.Background(), &models.ModelLink{Platform: "onlyfans", AccountID: "acc-1"}, start, end)
	require.NoError(t, err)

	assert.Zero(t, stats.TotalAmount)
	assert.Zero(t, stats.TransactionCount)
	assert.Equal(t, "USD", stats.Currency)
}

func TestReportService_CombinedRevenue(t *testing.T) {
	client := &testutil.MockAnalyticsClient{
		TransactionsData: map[string][]onlymonster.Transaction{
			"onlyfans:acc-1": {{Amount: amount(125), Currency: "USD"}},
			"fansly:acc-2":   {{Amount: amount(31.875), Currency: "USD"}},
		},
		SubscribersData: map[string]*onlymonster.SubscriberCounts{
			"onlyfans:acc-1": {NewSubscribers: count(2)},
			"fansly:acc-2":   {NewSubscribers: count(1)},
		},
	}
	svc := NewReportService(reportConfig(), client, &testutil.MockLogger{})

	links := []*models.ModelLink{
		{Platform: "onlyfans", AccountID: "acc-1", Nickname: "Bella"},
		{Platform: "fansly", AccountID: "acc-2"},
	}

	start, end := reportWindow()
	combined, err := svc.CombinedRevenue(context.Background(), links, start, end)
	require.NoError(t, err)

	assert.InDelta(t, 125.50, combined.TotalAmount, 1e-9)
	assert.Equal(t, 3, combined.TotalNewSubs)
	assert.Len(t, combined.Accounts, 2)
	assert.Empty(t, combined.FailedAccounts)
}

func TestReportService_CombinedRevenue_PartialFailure(t *testing.T) {
	client := &testutil.MockAnalyticsClient{
		TransactionsData: map[string][]onlymonster.Transaction{
			"onlyfans:acc-1": {{Amount: amount(100), Currency: "USD"}},
		},
		TransactionsErr: map[string]error{
			"fansly:acc-2": errors.New("down"),
		},
	}
	svc := NewReportService(reportConfig(), client, &testutil.MockLogger{})

	links := []*models.ModelLink{
		{Platform: "onlyfans", AccountID: "acc-1"},
		{Platform: "fansly", AccountID: "acc-2", Nickname: "Mia"},
	}

	start, end := reportWindow()
	combined, err := svc.CombinedRevenue(context.Background(), links, start, end)
	require.NoError(t, err)

	assert.InDelta(t, 80.0, combined.TotalAmount, 1e-9)
	assert.Len(t, combined.Accounts, 1)
	assert.Equal(t, []string{"Mia"}, combined.FailedAccounts)
}

func TestReportService_CombinedRevenue_AllFail(t *testing.T) {
	client := &testutil.MockAnalyticsClient{
		TransactionsErr: map[string]error{
			"onlyfans:acc-1": errors.New("down"),
		},
	}
	svc := NewReportService(reportConfig(), client, &testutil.MockLogger{})

	start, end := reportWindow()
	_, err := svc.CombinedRevenue(context.Background(), []*models.ModelLink{{Platform: "onlyfans", AccountID: "acc-1"}}, start, end)
	assert.ErrorIs(t, err, ErrNoAccountData)
}

func TestReportService_ChatterReport_MergesAcrossAccounts(t *testing.T) {
	client := &testutil.MockAnalyticsClient{
		ChattersData: map[string][]*models.ChatterStats{
			"onlyfans:acc-1": {{Name: "Marc", TotalSales: 200, TotalMessages: 120}},
			"fansly:acc-2":   {{Name: "Marc", TotalSales: 50, TotalMessages: 20}},
		},
	}
	svc := NewReportService(reportConfig(), client, &testutil.MockLogger{})

	links := []*models.ModelLink{
		{Platform: "onlyfans", AccountID: "acc-1", Nickname: "Bella"},
		{Platform: "fansly", AccountID: "acc-2"},
	}

	start, end := reportWindow()
	merged, contributed, err := svc.ChatterReport(context.Background(), links, start, end)
	require.NoError(t, err)

	require.Len(t, merged, 1)
	assert.Equal(t, 250.0, merged[0].TotalSales)
	assert.Equal(t, 140, merged[0].TotalMessages)
	assert.Equal(t, []string{"Bella", "acc-2"}, contributed)
}

func TestReportService_ChatterReport_SkipsFailedAccount(t *testing.T) {
	client := &testutil.MockAnalyticsClient{
		ChattersData: map[string][]*models.ChatterStats{
			"onlyfans:acc-1": {{Name: "Anna", TotalSales: 10}},
		},
		ChattersErr: map[string]error{
			"fansly:acc-2": errors.New("down"),
		},
	}
	svc := NewReportService(reportConfig(), client, &testutil.MockLogger{})

	links := []*models.ModelLink{
		{Platform: "onlyfans", AccountID: "acc-1"},
		{Platform: "fansly", AccountID: "acc-2"},
	}

	start, end := reportWindow()
	merged, contributed, err := svc.ChatterReport(context.Background(), links, start, end)
	require.NoError(t, err)
	assert.Len(t, merged, 1)
	assert.Equal(t, []string{"acc-1"}, contributed)
}

func TestReportService_ChatterReport_AllFail(t *testing.T) {
	client := &testutil.MockAnalyticsClient{
		ChattersErr: map[string]error{
			"onlyfans:acc-1": errors.New("down"),
		},
	}
	svc := NewReportService(reportConfig(), client, &testutil.MockLogger{})

	start, end := reportWindow()
	_, _, err := svc.ChatterReport(context.Background(), []*models.ModelLink{{Platform: "onlyfans", AccountID: "acc-1"}}, start, end)
	assert.ErrorIs(t, err, ErrNoAccountData)
}
