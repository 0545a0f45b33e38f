package entity

import "time"

// JournalRecord is one realized outcome, appended to the day it was
// recorded and never mutated afterwards.
type JournalRecord struct {
	SignalID     string    `json:"signalId"`
	Symbol       string    `json:"symbol"`
	Direction    Direction `json:"type"`
	Action       string    `json:"action"`
	Entry        float64   `json:"entry"`
	StopLoss     float64   `json:"stoploss"`
	Price        float64   `json:"price"`
	RiskMultiple float64   `json:"profitR"`
	ProfitPrice  float64   `json:"profitPrice"`
	RecordedAt   time.Time `json:"recordedAt"`
}

// JournalSummary aggregates one day of journal records. A record counts as
// a win iff its risk multiple is strictly positive; zero is a loss.
type JournalSummary struct {
	Count           int     `json:"count"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	TotalR          float64 `json:"total_r"`
	TotalPriceDelta float64 `json:"total_price_delta"`
}
