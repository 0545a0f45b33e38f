package entity

import "time"

// JournalArchiveRecord mirrors a JournalRecord into PostgreSQL for
// long-term querying. The flat-file document stays the source of truth.
type JournalArchiveRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SignalID     string    `gorm:"not null;index" json:"signal_id"`
	Symbol       string    `gorm:"not null" json:"symbol"`
	Direction    string    `gorm:"not null" json:"direction"`
	Action       string    `gorm:"not null" json:"action"`
	Entry        float64   `gorm:"not null" json:"entry"`
	StopLoss     float64   `gorm:"not null" json:"stop_loss"`
	Price        float64   `gorm:"not null" json:"price"`
	RiskMultiple float64   `gorm:"not null" json:"risk_multiple"`
	ProfitPrice  float64   `gorm:"not null" json:"profit_price"`
	TradeDate    string    `gorm:"not null;index" json:"trade_date"`
	RecordedAt   time.Time `gorm:"not null" json:"recorded_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (JournalArchiveRecord) TableName() string {
	return "journal_records"
}
