package models

import "time"

// RevenueStats is the net result of one revenue query. Computed per request,
// never persisted.
type RevenueStats struct {
	TotalAmount      float64
	Currency         string
	TransactionCount int
	StartTime        time.Time
	EndTime          time.Time
	NewSubscribers   *int
	TotalSubscribers *int
}

// AccountRevenue pairs a model link with the stats computed for it.
type AccountRevenue struct {
	Model *ModelLink
	Stats *RevenueStats
}

// CombinedRevenue is the multi-account view for one chat: the sum plus the
// per-account breakdown it was summed from.
type CombinedRevenue struct {
	TotalAmount       float64
	TotalNewSubs      int
	Currency          string
	StartTime         time.Time
	EndTime           time.Time
	Accounts          []*AccountRevenue
	FailedAccounts    []string
}

func (cr *CombinedRevenue) Add(model *ModelLink, stats *RevenueStats) {
	cr.TotalAmount += stats.TotalAmount
	if stats.NewSubscribers != nil {
		cr.TotalNewSubs += *stats.NewSubscribers
	}
	if cr.Currency == "" {
		cr.Currency = stats.Currency
	}
	cr.Accounts = append(cr.Accounts, &AccountRevenue{Model: model, Stats: stats})
}
