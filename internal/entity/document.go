package entity

// Document is the whole persisted aggregate: live signals in insertion
// order, journal records grouped by calendar date, and the owner set.
type Document struct {
	Signals []Signal                   `json:"signals"`
	Journal map[string][]JournalRecord `json:"journal"`
	Owners  []int64                    `json:"owners"`
}

// NewDocument returns an empty, fully initialized document.
func NewDocument() *Document {
	return &Document{
		Signals: []Signal{},
		Journal: map[string][]JournalRecord{},
		Owners:  []int64{},
	}
}
