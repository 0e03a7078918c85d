// Package format renders report values into Telegram Markdown. Pure
// presentation; no business rules live here.
package format

import (
	"fmt"
	"strings"
	"time"

	"valeod/internal/models"
	"valeod/internal/ofday"
	"valeod/internal/structures"
)

type Formatter struct {
	Location    *time.Location
	MinMessages int
}

func NewFormatter(conf *structures.Config, cal *ofday.Calendar) *Formatter {
	return &Formatter{Location: cal.Location, MinMessages: conf.Reports.MinChatterMessages}
}

func (f *Formatter) period(start, end time.Time) string {
	s := start.In(f.Location)
	e := end.In(f.Location)
	return fmt.Sprintf("%s - %s", s.Format("02.01.2006 15:04"), e.Format("02.01.2006 15:04"))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func money(amount float64) string {
	// Telegram has no locale awareness, so thousands separators are done by
	// hand the way the old bot printed them.
	s := fmt.Sprintf("%.2f", amount)
	dot := strings.Index(s, ".")
	intPart, fracPart := s[:dot], s[dot:]
	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 && r != '-' {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sb.String() + fracPart
}

func (f *Formatter) Revenue(stats *models.RevenueStats, displayName, platform, title string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *%s*\n\n", title))
	sb.WriteString(fmt.Sprintf("🎯 Model: `%s`\n", displayName))
	sb.WriteString(fmt.Sprintf("🌐 Platform: `%s`\n\n", titleCase(platform)))
	sb.WriteString(fmt.Sprintf("💰 Revenue: *$%s*\n", money(stats.TotalAmount)))
	if stats.NewSubscribers != nil && *stats.NewSubscribers > 0 {
		sb.WriteString(fmt.Sprintf("👥 New Subscribers: *%d*\n", *stats.NewSubscribers))
	}
	sb.WriteString(fmt.Sprintf("\n📅 Period: %s\n", f.period(stats.StartTime, stats.EndTime)))
	return sb.String()
}

func (f *Formatter) CombinedRevenue(combined *models.CombinedRevenue, title string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *%s*\n\n", title))
	sb.WriteString("**All Models Combined:**\n")
	sb.WriteString(fmt.Sprintf("💰 Total Revenue: *$%s*\n", money(combined.TotalAmount)))
	if combined.TotalNewSubs > 0 {
		sb.WriteString(fmt.Sprintf("👥 New Subscribers: *%d*\n", combined.TotalNewSubs))
	}
	sb.WriteString(fmt.Sprintf("\n📅 Period: %s\n\n", f.period(combined.StartTime, combined.EndTime)))

	sb.WriteString("**Breakdown by Model:**\n")
	for _, acc := range combined.Accounts {
		sb.WriteString(fmt.Sprintf("\n🎯 **%s**:\n   💰 $%s", acc.Model.DisplayName(), money(acc.Stats.TotalAmount)))
		if acc.Stats.NewSubscribers != nil && *acc.Stats.NewSubscribers > 0 {
			sb.WriteString(fmt.Sprintf(" | 👥 %d subs", *acc.Stats.NewSubscribers))
		}
		sb.WriteString("\n")
	}
	for _, name := range combined.FailedAccounts {
		sb.WriteString(fmt.Sprintf("\n⚠️ **%s**: data unavailable\n", name))
	}
	return sb.String()
}

func responseTime(seconds float64) string {
	m := int(seconds) / 60
	s := int(seconds) % 60
	return fmt.Sprintf("%d:%02dmin", m, s)
}

func (f *Formatter) ChatterReport(chatters []*models.ChatterStats, modelName, date string) string {
	if len(chatters) == 0 {
		return fmt.Sprintf(
			"👥 *Chatter Performance Report*\n🎯 Model: %s\n📅 Date: %s\n\nNo chatters met the minimum requirement of %d messages.",
			modelName, date, f.MinMessages)
	}

	var totalSales float64
	var totalMessages int
	var avgConversion float64
	for _, c := range chatters {
		totalSales += c.TotalSales
		totalMessages += c.TotalMessages
		avgConversion += c.PPVConversionRate
	}
	avgConversion /= float64(len(chatters))

	var sb strings.Builder
	sb.WriteString("👥 *Chatter Performance Report*\n\n")
	sb.WriteString(fmt.Sprintf("🎯 Model: *%s*\n", modelName))
	sb.WriteString(fmt.Sprintf("📅 Date: %s\n", date))
	sb.WriteString(fmt.Sprintf("💰 Total Sales: *$%s*\n", money(totalSales)))
	sb.WriteString(fmt.Sprintf("📨 Total Messages: *%d*\n", totalMessages))
	sb.WriteString(fmt.Sprintf("📊 Avg PPV Conversion: *%.1f%%*\n\n", avgConversion*100))
	sb.WriteString("━━━━━━━━━━━━━━━━━━\n\n")

	for idx, c := range chatters {
		var medal string
		switch idx {
		case 0:
			medal = "👑"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		default:
			medal = fmt.Sprintf("%d.", idx+1)
		}
		sb.WriteString(fmt.Sprintf("%s *%s*\n", medal, c.Name))
		sb.WriteString(fmt.Sprintf("💰 Sales: *$%s*\n", money(c.TotalSales)))
		sb.WriteString(fmt.Sprintf("⚡ Avg Response: *%s*\n", responseTime(c.AvgResponseSecs)))
		sb.WriteString(fmt.Sprintf("🎯 PPV Conversion: *%.1f%%*\n", c.PPVConversionRate*100))
		sb.WriteString(fmt.Sprintf("📨 Messages: *%d*\n", c.TotalMessages))
		sb.WriteString(fmt.Sprintf("📩 Templates: *%d*\n\n", c.TemplateMessages))
	}

	sb.WriteString("━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("_Minimum %d messages required to appear in this report_", f.MinMessages))
	return sb.String()
}

func (f *Formatter) WhaleAlert(fan *models.OnlineFan, modelName string) string {
	return fmt.Sprintf(
		"🐋 *WHALE ALERT!*\n\nHigh-value fan is online!\n\n👤 Username: `%s`\n⭐ Buying Power: *%d/5*\n💰 Last Purchase: *$%.2f*\n🎯 Model: `%s`\n\n🚀 *Engage NOW!*",
		fan.Username, fan.BuyingPower, fan.LastPurchaseAmount, modelName)
}
