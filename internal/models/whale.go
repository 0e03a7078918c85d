package models

// OnlineFan is one currently-online subject as reported by the analytics
// API. BuyingPower is a 0-5 score.
type OnlineFan struct {
	ID                 string  `json:"id"`
	Username           string  `json:"username"`
	BuyingPower        int     `json:"buying_power"`
	LastPurchaseAmount float64 `json:"last_purchase_amount"`
}

// IsWhale applies a chat's configured threshold, inclusive.
func (f *OnlineFan) IsWhale(threshold int) bool {
	return f.BuyingPower >= threshold
}
