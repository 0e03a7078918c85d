// Package jobs drives the four recurring tasks: daily revenue report,
// weekly revenue report, chatter report and the whale-alert poll. Every
// pass works on a fresh registry snapshot and treats each chat as an
// independent unit of work: one chat failing is logged and skipped, never
// fatal to the pass.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/roylee0704/gron"
	"go.uber.org/atomic"
	"valeod/internal/alerts"
	"valeod/internal/format"
	"valeod/internal/jobs/interfaces"
	"valeod/internal/models"
	"valeod/internal/ofday"
	"valeod/internal/onlymonster"
	"valeod/internal/providers"
	"valeod/internal/services"
	"valeod/internal/sink"
	"valeod/internal/structures"
)

type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	registry  services.RegistryServiceInterface
	reports   services.ReportServiceInterface
	client    onlymonster.ClientInterface
	deduper   alerts.DedupCacheInterface
	sink      sink.Sink
	formatter *format.Formatter
	calendar  *ofday.Calendar
	cron      *gron.Cron
	polling   atomic.Bool
}

func NewScheduler(
	config *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	registry services.RegistryServiceInterface,
	reports services.ReportServiceInterface,
	client onlymonster.ClientInterface,
	deduper alerts.DedupCacheInterface,
	snk sink.Sink,
	formatter *format.Formatter,
	calendar *ofday.Calendar,
) interfaces.SchedulerInterface {
	return &Scheduler{
		config:    config,
		logger:    logger,
		metrics:   metrics,
		registry:  registry,
		reports:   reports,
		client:    client,
		deduper:   deduper,
		sink:      snk,
		formatter: formatter,
		calendar:  calendar,
	}
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	day := dailyAt{loc: s.calendar.Location, hour: s.calendar.StartHour}
	week := weeklyAt{
		loc:     s.calendar.Location,
		hour:    s.calendar.StartHour,
		weekday: time.Weekday(s.config.Reports.WeeklyWeekday),
	}

	s.cron.Add(day, gron.JobFunc(s.runDailyReports))
	s.cron.Add(week, gron.JobFunc(s.runWeeklyReports))
	s.cron.Add(day, gron.JobFunc(s.runChatterReports))
	s.cron.AddFunc(gron.Every(s.config.Reports.AlertPollInterval), s.runWhalePoll)

	s.cron.Start()
	s.logger.Infof(providers.TypeJob, "Scheduled jobs registered (daily/weekly/chatter at %02d:00 %s, whale poll every %s)",
		s.calendar.StartHour, s.calendar.Location, s.config.Reports.AlertPollInterval)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// passResult aggregates the per-chat outcomes of one pass for the log line.
type passResult struct {
	sent    int
	skipped int
	failed  int
}

func (s *Scheduler) logPass(job, runID string, started time.Time, res passResult) {
	s.metrics.ObservePassDuration(job, time.Since(started))
	s.logger.Infof(providers.TypeJob, "[%s] %s pass done: %d sent, %d skipped, %d failed in %s",
		runID, job, res.sent, res.skipped, res.failed, time.Since(started))
}

// runRevenueReports is the shared body of the daily and weekly jobs; they
// differ only in the window and the toggle they honor.
func (s *Scheduler) runRevenueReports(job, title string, enabled func(*models.ChatMapping) bool, start, end time.Time) {
	runID := uuid.NewString()
	started := time.Now()
	s.logger.Infof(providers.TypeJob, "[%s] Starting %s report pass", runID, job)

	ctx := context.Background()
	mappings := s.registry.Snapshot(ctx)
	s.metrics.SetChatsTracked(len(mappings))

	var res passResult
	for chatID, mapping := range mappings {
		if !enabled(mapping) {
			res.skipped++
			continue
		}

		msg, err := s.buildRevenueMessage(ctx, mapping, title, start, end)
		if err != nil {
			s.logger.Errorf(providers.TypeJob, "[%s] Failed to build %s report for chat %s: %s", runID, job, chatID, err)
			s.metrics.IncReportFailures(job)
			res.failed++
			continue
		}

		if err = s.sink.Send(ctx, chatID, msg); err != nil {
			s.logger.Errorf(providers.TypeJob, "[%s] Failed to send %s report to chat %s: %s", runID, job, chatID, err)
			s.metrics.IncReportFailures(job)
			res.failed++
			continue
		}
		s.metrics.IncReportsSent(job)
		res.sent++
	}

	s.logPass(job, runID, started, res)
}

func (s *Scheduler) buildRevenueMessage(ctx context.Context, mapping *models.ChatMapping, title string, start, end time.Time) (string, error) {
	combined, err := s.reports.CombinedRevenue(ctx, mapping.Models, start, end)
	if err != nil {
		return "", err
	}
	if len(combined.Accounts) == 1 && len(combined.FailedAccounts) == 0 {
		acc := combined.Accounts[0]
		return s.formatter.Revenue(acc.Stats, acc.Model.DisplayName(), acc.Model.Platform, title), nil
	}
	return s.formatter.CombinedRevenue(combined, title), nil
}

func (s *Scheduler) runDailyReports() {
	start, end := s.calendar.PreviousDayRange(time.Now())
	s.runRevenueReports("daily", "📅 Daily Revenue Report",
		func(cm *models.ChatMapping) bool { return cm.EnableDailyReport }, start, end)
}

func (s *Scheduler) runWeeklyReports() {
	start, end := s.calendar.WeekRange(time.Now())
	s.runRevenueReports("weekly", "📊 Weekly Revenue Report (Last 7 Days)",
		func(cm *models.ChatMapping) bool { return cm.EnableWeeklyReport }, start, end)
}

func (s *Scheduler) runChatterReports() {
	runID := uuid.NewString()
	started := time.Now()
	s.logger.Infof(providers.TypeJob, "[%s] Starting chatter report pass", runID)

	ctx := context.Background()
	mappings := s.registry.Snapshot(ctx)

	now := time.Now()
	winStart, winEnd := s.calendar.PreviousDayRange(now)
	reportDate := now.In(s.calendar.Location).AddDate(0, 0, -1).Format("2006-01-02")

	var res passResult
	for chatID, mapping := range mappings {
		if !mapping.EnableChatterReport {
			res.skipped++
			continue
		}

		chatters, contributed, err := s.reports.ChatterReport(ctx, mapping.Models, winStart, winEnd)
		if err != nil {
			s.logger.Errorf(providers.TypeJob, "[%s] Chatter report failed for chat %s: %s", runID, chatID, err)
			s.metrics.IncReportFailures("chatter")
			res.failed++
			continue
		}

		modelName := fmt.Sprintf("All Models (%s)", strings.Join(contributed, ", "))
		msg := s.formatter.ChatterReport(chatters, modelName, reportDate)
		if err = s.sink.Send(ctx, chatID, msg); err != nil {
			s.logger.Errorf(providers.TypeJob, "[%s] Failed to send chatter report to chat %s: %s", runID, chatID, err)
			s.metrics.IncReportFailures("chatter")
			res.failed++
			continue
		}
		s.metrics.IncReportsSent("chatter")
		res.sent++
	}

	s.logPass("chatter", runID, started, res)
}

func (s *Scheduler) runWhalePoll() {
	// The poll interval is short; if the previous pass is still waiting on
	// the API, skip this tick instead of piling up.
	if !s.polling.CompareAndSwap(false, true) {
		s.logger.Warnf(providers.TypeAlert, "Previous whale poll still running, skipping tick")
		return
	}
	defer s.polling.Store(false)

	started := time.Now()
	ctx := context.Background()
	mappings := s.registry.Snapshot(ctx)

	var res passResult
	for chatID, mapping := range mappings {
		if !mapping.EnableWhaleAlerts {
			res.skipped++
			continue
		}
		if s.pollChat(ctx, chatID, mapping) {
			res.sent++
		} else {
			res.failed++
		}
	}

	s.metrics.ObservePassDuration("whale", time.Since(started))
	s.logger.Debugf(providers.TypeAlert, "Whale poll done: %d chats checked, %d skipped, %d failed in %s",
		res.sent, res.skipped, res.failed, time.Since(started))
}

// pollChat checks every account linked to one chat; reports false only when
// an account fetch failed.
func (s *Scheduler) pollChat(ctx context.Context, chatID string, mapping *models.ChatMapping) bool {
	ok := true
	for _, model := range mapping.Models {
		fans, err := s.client.OnlineFans(ctx, model.Platform, model.AccountID)
		if err != nil {
			s.logger.Debugf(providers.TypeAlert, "Whale check failed for %s: %s", model.AccountID, err)
			ok = false
			continue
		}

		for _, fan := range fans {
			if !fan.IsWhale(mapping.WhaleAlertThreshold) {
				continue
			}
			if !s.deduper.ShouldAlert(chatID, fan.ID) {
				s.metrics.IncAlertsSuppressed()
				continue
			}

			msg := s.formatter.WhaleAlert(fan, model.DisplayName())
			if err = s.sink.Send(ctx, chatID, msg); err != nil {
				s.logger.Errorf(providers.TypeAlert, "Failed to send whale alert to chat %s: %s", chatID, err)
				ok = false
				continue
			}
			// The mute window opens only after a delivered alert.
			s.deduper.RecordAlert(chatID, fan.ID)
			s.metrics.IncAlertsSent()
			s.logger.Infof(providers.TypeAlert, "Sent whale alert to chat %s for fan %s", chatID, fan.Username)
		}
	}
	return ok
}
