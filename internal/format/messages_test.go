package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valeod/internal/models"
	"valeod/internal/ofday"
	"valeod/internal/structures"
)

func testFormatter(t *testing.T) *Formatter {
	conf := &structures.Config{
		Reports: structures.ReportsConfig{
			Timezone:           "Europe/Berlin",
			DayStartHour:       1,
			MinChatterMessages: 10,
		},
	}
	cal, err := ofday.NewCalendar(conf)
	require.NoError(t, err)
	return NewFormatter(conf, cal)
}

func intPtr(v int) *int { return &v }

func TestMoney(t *testing.T) {
	assert.Equal(t, "0.00", money(0))
	assert.Equal(t, "999.99", money(999.99))
	assert.Equal(t, "1,000.00", money(1000))
	assert.Equal(t, "1,234,567.89", money(1234567.89))
	assert.Equal(t, "-1,500.25", money(-1500.25))
}

func TestResponseTime(t *testing.T) {
	assert.Equal(t, "0:45min", responseTime(45))
	assert.Equal(t, "2:05min", responseTime(125))
	assert.Equal(t, "0:00min", responseTime(0))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Onlyfans", titleCase("onlyfans"))
	assert.Equal(t, "", titleCase(""))
}

func TestFormatter_Revenue(t *testing.T) {
	f := testFormatter(t)

	stats := &models.RevenueStats{
		TotalAmount:    1250.50,
		Currency:       "USD",
		StartTime:      time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC).Add(-time.Microsecond),
		NewSubscribers: intPtr(7),
	}

	msg := f.Revenue(stats, "Bella", "onlyfans", "📅 Daily Revenue Report")

	assert.Contains(t, msg, "📅 Daily Revenue Report")
	assert.Contains(t, msg, "Model: `Bella`")
	assert.Contains(t, msg, "Platform: `Onlyfans`")
	assert.Contains(t, msg, "*$1,250.50*")
	assert.Contains(t, msg, "New Subscribers: *7*")
	// Window bounds render in the reporting zone: 00:00 UTC is 01:00 Berlin.
	assert.Contains(t, msg, "14.01.2025 01:00")
}

func TestFormatter_Revenue_NoSubscriberLineWhenUnknown(t *testing.T) {
	f := testFormatter(t)

	stats := &models.RevenueStats{TotalAmount: 10}
	msg := f.Revenue(stats, "Bella", "onlyfans", "title")

	assert.NotContains(t, msg, "New Subscribers")
}

func TestFormatter_CombinedRevenue(t *testing.T) {
	f := testFormatter(t)

	combined := &models.CombinedRevenue{
		TotalAmount:  125.50,
		TotalNewSubs: 3,
		StartTime:    time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	combined.Accounts = []*models.AccountRevenue{
		{
			Model: &models.ModelLink{Platform: "onlyfans", AccountID: "acc-1", Nickname: "Bella"},
			Stats: &models.RevenueStats{TotalAmount: 100, NewSubscribers: intPtr(2)},
		},
		{
			Model: &models.ModelLink{Platform: "fansly", AccountID: "acc-2"},
			Stats: &models.RevenueStats{TotalAmount: 25.50},
		},
	}
	combined.FailedAccounts = []string{"Mia"}

	msg := f.CombinedRevenue(combined, "📊 Weekly Revenue Report (Last 7 Days)")

	assert.Contains(t, msg, "All Models Combined")
	assert.Contains(t, msg, "Total Revenue: *$125.50*")
	assert.Contains(t, msg, "New Subscribers: *3*")
	assert.Contains(t, msg, "**Bella**")
	assert.Contains(t, msg, "👥 2 subs")
	assert.Contains(t, msg, "**acc-2**")
	assert.Contains(t, msg, "**Mia**: data unavailable")
}

func TestFormatter_ChatterReport(t *testing.T) {
	f := testFormatter(t)

	chatters := []*models.ChatterStats{
		{Name: "Marc", TotalSales: 250, AvgResponseSecs: 70, PPVConversionRate: 0.2, TotalMessages: 140, TemplateMessages: 45},
		{Name: "Anna", TotalSales: 120, AvgResponseSecs: 95, PPVConversionRate: 0.1, TotalMessages: 60, TemplateMessages: 10},
		{Name: "Zoe", TotalSales: 80, AvgResponseSecs: 30, PPVConversionRate: 0.3, TotalMessages: 40, TemplateMessages: 5},
		{Name: "Lea", TotalSales: 20, AvgResponseSecs: 200, PPVConversionRate: 0.05, TotalMessages: 15, TemplateMessages: 0},
	}

	msg := f.ChatterReport(chatters, "All Models (Bella, acc-2)", "2025-01-14")

	assert.Contains(t, msg, "Chatter Performance Report")
	assert.Contains(t, msg, "All Models (Bella, acc-2)")
	assert.Contains(t, msg, "2025-01-14")
	assert.Contains(t, msg, "Total Sales: *$470.00*")
	assert.Contains(t, msg, "Total Messages: *255*")

	assert.Contains(t, msg, "👑 *Marc*")
	assert.Contains(t, msg, "🥈 *Anna*")
	assert.Contains(t, msg, "🥉 *Zoe*")
	assert.Contains(t, msg, "4. *Lea*")
	assert.Contains(t, msg, "Avg Response: *1:10min*")
	assert.Contains(t, msg, "Minimum 10 messages required")
}

func TestFormatter_ChatterReport_Empty(t *testing.T) {
	f := testFormatter(t)

	msg := f.ChatterReport(nil, "All Models (Bella)", "2025-01-14")
	assert.Contains(t, msg, "No chatters met the minimum requirement of 10 messages")
}

func TestFormatter_WhaleAlert(t *testing.T) {
	f := testFormatter(t)

	fan := &models.OnlineFan{ID: "f1", Username: "bigspender", BuyingPower: 5, LastPurchaseAmount: 499.99}
	msg := f.WhaleAlert(fan, "Bella")

	assert.True(t, strings.HasPrefix(msg, "🐋 *WHALE ALERT!*"))
	assert.Contains(t, msg, "`bigspender`")
	assert.Contains(t, msg, "*5/5*")
	assert.Contains(t, msg, "*$499.99*")
	assert.Contains(t, msg, "`Bella`")
}
