package models

import (
	json "github.com/goccy/go-json"
)

// The persisted snapshot went through three shapes over its lifetime:
//
//	v1: one model per chat, platform/platform_account_id at top level,
//	    no chat_type and no toggles
//	v2: models list, chat_type and report toggles, no chatter_report
//	v3: current, with enable_chatter_report and whale_alert_threshold
//
// Every shape ever written must keep loading. All the tolerance lives here:
// records are decoded into a loose form and normalized before any business
// code sees them. The migration is read-time only; the old shape survives on
// disk until the next save.

type modelRecord struct {
	Platform  string  `json:"platform"`
	AccountID string  `json:"platform_account_id"`
	Nickname  *string `json:"nickname"`
}

type mappingRecord struct {
	Models []modelRecord `json:"models"`

	// v1 single-model fields
	Platform  string `json:"platform,omitempty"`
	AccountID string `json:"platform_account_id,omitempty"`

	ChatType            *string `json:"chat_type,omitempty"`
	EnableDailyReport   *bool   `json:"enable_daily_report,omitempty"`
	EnableWeeklyReport  *bool   `json:"enable_weekly_report,omitempty"`
	EnableWhaleAlerts   *bool   `json:"enable_whale_alerts,omitempty"`
	EnableChatterReport *bool   `json:"enable_chatter_report,omitempty"`
	WhaleAlertThreshold *int    `json:"whale_alert_threshold,omitempty"`
}

func (r *mappingRecord) normalize() *ChatMapping {
	cm := &ChatMapping{
		ChatType:            ChatTypeAgency,
		EnableDailyReport:   true,
		EnableWeeklyReport:  true,
		EnableWhaleAlerts:   true,
		EnableChatterReport: false,
		WhaleAlertThreshold: DefaultWhaleThreshold,
	}

	if r.Platform != "" && r.AccountID != "" && len(r.Models) == 0 {
		cm.Models = []*ModelLink{{Platform: r.Platform, AccountID: r.AccountID}}
	} else {
		for _, m := range r.Models {
			link := &ModelLink{Platform: m.Platform, AccountID: m.AccountID}
			if m.Nickname != nil {
				link.Nickname = *m.Nickname
			}
			cm.Models = append(cm.Models, link)
		}
	}

	if r.ChatType != nil {
		cm.ChatType = *r.ChatType
	}
	if r.EnableDailyReport != nil {
		cm.EnableDailyReport = *r.EnableDailyReport
	}
	if r.EnableWeeklyReport != nil {
		cm.EnableWeeklyReport = *r.EnableWeeklyReport
	}
	if r.EnableWhaleAlerts != nil {
		cm.EnableWhaleAlerts = *r.EnableWhaleAlerts
	}
	if r.EnableChatterReport != nil {
		cm.EnableChatterReport = *r.EnableChatterReport
	}
	if r.WhaleAlertThreshold != nil {
		cm.WhaleAlertThreshold = *r.WhaleAlertThreshold
	}

	return cm
}

// DecodeMappingSet reads a full snapshot in any historical shape.
func DecodeMappingSet(data []byte) (map[string]*ChatMapping, error) {
	var raw map[string]*mappingRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	mappings := make(map[string]*ChatMapping, len(raw))
	for chatID, record := range raw {
		if record == nil {
			continue
		}
		mappings[chatID] = record.normalize()
	}
	return mappings, nil
}

// EncodeMappingSet writes the canonical current shape.
func EncodeMappingSet(mappings map[string]*ChatMapping) ([]byte, error) {
	return json.Marshal(mappings)
}
