package entity

import "time"

// Direction is the side of a trade signal.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// Label returns the human-readable form used in channel posts.
func (d Direction) Label() string {
	if d == DirectionSell {
		return "Sell"
	}
	return "Buy"
}

// StatusKind identifies a status update applied to a live signal.
type StatusKind string

const (
	StatusCancel        StatusKind = "cancel"
	StatusEntryHit      StatusKind = "hit"
	StatusStopLossHit   StatusKind = "sl"
	StatusTakeProfitHit StatusKind = "tp"
)

// MaxTakeProfits is the number of take-profit slots a signal can carry.
const MaxTakeProfits = 5

// StatusFlags records which events have already been announced for a signal.
// Each flag goes false to true at most once and never resets.
type StatusFlags struct {
	Entry      bool   `json:"entry"`
	StopLoss   bool   `json:"sl"`
	TakeProfit []bool `json:"tp"`
}

// PostedMessage points at the pinned channel post for a signal.
type PostedMessage struct {
	ChatID    int64 `json:"chatId"`
	MessageID int   `json:"messageId"`
}

// Signal is one posted trade idea. It lives in the store until a closing
// status update or a cancel removes it; after that it exists only as
// journal records.
type Signal struct {
	ID          string         `json:"id"`
	Direction   Direction      `json:"type"`
	Symbol      string         `json:"symbol"`
	Entry       float64        `json:"entry"`
	StopLoss    float64        `json:"stoploss"`
	TakeProfits []*float64     `json:"tps"`
	Hits        StatusFlags    `json:"hits"`
	Posted      *PostedMessage `json:"posted"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// FinalTakeProfitSlot returns the 1-based index of the highest configured
// take-profit, or 0 when the signal has none.
func (s *Signal) FinalTakeProfitSlot() int {
	for i := len(s.TakeProfits) - 1; i >= 0; i-- {
		if s.TakeProfits[i] != nil {
			return i + 1
		}
	}
	return 0
}
