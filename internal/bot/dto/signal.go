package dto

import "forex-signal-relay/internal/entity"

// SignalCommand is a parsed /buy or /sell command body.
type SignalCommand struct {
	Direction   entity.Direction
	Symbol      string
	Entry       float64
	StopLoss    float64
	TakeProfits []*float64
}

// StatusUpdate is a parsed status reply from an owner.
type StatusUpdate struct {
	Kind   entity.StatusKind
	TPSlot int // 1-based, only for StatusTakeProfitHit
	Price  *float64
}

// StatusOutcome is what applying a status update produced.
type StatusOutcome struct {
	Signal entity.Signal
	Closed bool
	Record *entity.JournalRecord
}

// SignalResponse is the admin API view of a live signal.
type SignalResponse struct {
	ID          string                `json:"id"`
	Direction   string                `json:"direction"`
	Symbol      string                `json:"symbol"`
	Entry       float64               `json:"entry"`
	StopLoss    float64               `json:"stop_loss"`
	TakeProfits []*float64            `json:"take_profits"`
	Hits        entity.StatusFlags    `json:"hits"`
	Posted      *entity.PostedMessage `json:"posted"`
	CreatedAt   string                `json:"created_at"`
}

// JournalResponse is the admin API view of one journal day.
type JournalResponse struct {
	Date    string                 `json:"date"`
	Records []entity.JournalRecord `json:"records"`
	Summary entity.JournalSummary  `json:"summary"`
}
