package controllers

import (
	"net/http"
	"time"

	"valeod/internal/models"
	"valeod/internal/ofday"
	"valeod/internal/providers"
	"valeod/internal/services"
)

// ReportController serves on-demand revenue queries for a chat's linked
// models. Only models linked to the requesting chat may be queried.
type ReportController struct {
	logger   providers.Logger
	registry services.RegistryServiceInterface
	reports  services.ReportServiceInterface
	calendar *ofday.Calendar
}

func NewReportController(logger providers.Logger, registry services.RegistryServiceInterface,
	reports services.ReportServiceInterface, calendar *ofday.Calendar) *ReportController {
	return &ReportController{
		logger:   logger,
		registry: registry,
		reports:  reports,
		calendar: calendar,
	}
}

type accountRevenueView struct {
	Platform       string   `json:"platform"`
	AccountID      string   `json:"account_id"`
	Nickname       string   `json:"nickname,omitempty"`
	NetAmount      float64  `json:"net_amount"`
	Currency       string   `json:"currency"`
	Transactions   int      `json:"transactions"`
	NewSubscribers *int     `json:"new_subscribers,omitempty"`
}

type revenueResponse struct {
	ChatID       string               `json:"chat_id"`
	Start        time.Time            `json:"start"`
	End          time.Time            `json:"end"`
	TotalAmount  float64              `json:"total_amount"`
	TotalNewSubs int                  `json:"total_new_subscribers"`
	Currency     string               `json:"currency"`
	Accounts     []accountRevenueView `json:"accounts"`
	Failed       []string             `json:"failed_accounts,omitempty"`
}

func (rc *ReportController) revenue(w http.ResponseWriter, r *http.Request, start, end time.Time) {
	chatID := r.URL.Query().Get("chat")
	mapping, err := rc.registry.Get(r.Context(), chatID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	links := mapping.Models
	if selector := r.URL.Query().Get("model"); selector != "" {
		model := mapping.FindModel(selector)
		if model == nil {
			writeDomainError(w, models.ErrUnknownModel)
			return
		}
		links = []*models.ModelLink{model}
	}

	combined, err := rc.reports.CombinedRevenue(r.Context(), links, start, end)
	if err != nil {
		rc.logger.Errorf(providers.TypeGet, "Revenue query failed for chat %s: %s", chatID, err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to fetch revenue data"})
		return
	}

	resp := revenueResponse{
		ChatID:       chatID,
		Start:        combined.StartTime,
		End:          combined.EndTime,
		TotalAmount:  combined.TotalAmount,
		TotalNewSubs: combined.TotalNewSubs,
		Currency:     combined.Currency,
		Failed:       combined.FailedAccounts,
	}
	for _, acc := range combined.Accounts {
		resp.Accounts = append(resp.Accounts, accountRevenueView{
			Platform:       acc.Model.Platform,
			AccountID:      acc.Model.AccountID,
			Nickname:       acc.Model.Nickname,
			NetAmount:      acc.Stats.TotalAmount,
			Currency:       acc.Stats.Currency,
			Transactions:   acc.Stats.TransactionCount,
			NewSubscribers: acc.Stats.NewSubscribers,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Today covers the running platform day, start hour through now.
func (rc *ReportController) Today(w http.ResponseWriter, r *http.Request) {
	start, end := rc.calendar.CurrentDayRange(time.Now())
	rc.revenue(w, r, start, end)
}

// Yesterday covers the last completed platform day.
func (rc *ReportController) Yesterday(w http.ResponseWriter, r *http.Request) {
	start, end := rc.calendar.PreviousDayRange(time.Now())
	rc.revenue(w, r, start, end)
}

// Week covers the trailing seven completed platform days.
func (rc *ReportController) Week(w http.ResponseWriter, r *http.Request) {
	start, end := rc.calendar.WeekRange(time.Now())
	rc.revenue(w, r, start, end)
}
