package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"forex-signal-relay/internal/entity"
)

// SignalIDPrefix is the literal marker embedded in every channel payload.
// FormatSignal and FormatStatusAnnouncement produce it, ExtractSignalID
// parses it back out; the two sides form a small wire protocol and the
// prefix must stay byte-for-byte identical.
const SignalIDPrefix = "Signal ID:"

// FormatPrice renders a price the shortest way that round-trips, so 4118
// stays "4118" and 4118.5 stays "4118.5".
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatSignal renders the channel post for a new signal.
func FormatSignal(sig entity.Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s Limit\n", sig.Symbol, sig.Direction.Label())
	fmt.Fprintf(&b, "Entry: %s\n", FormatPrice(sig.Entry))
	fmt.Fprintf(&b, "Stop loss: %s\n", FormatPrice(sig.StopLoss))
	for i, tp := range sig.TakeProfits {
		if tp != nil {
			fmt.Fprintf(&b, "Tp %d: %s\n", i+1, FormatPrice(*tp))
		} else {
			fmt.Fprintf(&b, "Tp %d: \n", i+1)
		}
	}
	fmt.Fprintf(&b, "\n%s %s", SignalIDPrefix, sig.ID)
	return b.String()
}

// FormatStatusAnnouncement renders the channel reply for a status update.
// The price line is omitted (left blank) when no fill price was reported.
func FormatStatusAnnouncement(kind entity.StatusKind, tpSlot int, price *float64, id string) string {
	var head string
	switch kind {
	case entity.StatusCancel:
		return fmt.Sprintf("❌ Cancel\n%s %s", SignalIDPrefix, id)
	case entity.StatusEntryHit:
		head = "Hit ✅"
	case entity.StatusStopLossHit:
		head = "Stop Loss -1R"
	case entity.StatusTakeProfitHit:
		head = fmt.Sprintf("Tp %d ✅", tpSlot)
	}

	priceLine := ""
	if price != nil {
		priceLine = "Price: " + FormatPrice(*price)
	}
	return fmt.Sprintf("%s\n%s\n%s %s", head, priceLine, SignalIDPrefix, id)
}

// FormatJournalReport renders the daily journal: one line per record plus
// the totals block.
func FormatJournalReport(date string, records []entity.JournalRecord, summary entity.JournalSummary) string {
	if len(records) == 0 {
		return fmt.Sprintf("Tidak ada jurnal di %s", date)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Jurnal %s\n\n", date)
	for _, rec := range records {
		fmt.Fprintf(&b, "%s %s | %.2f R\n", rec.Symbol, strings.ToUpper(rec.Action), rec.RiskMultiple)
	}
	fmt.Fprintf(&b, "\nWin: %d | Loss: %d\n", summary.Wins, summary.Losses)
	fmt.Fprintf(&b, "Total: %.2f R", summary.TotalR)
	return b.String()
}

// ExtractSignalID recovers a signal id from message text. The id is the
// run of alphanumerics following the first case-insensitive occurrence of
// SignalIDPrefix, with optional whitespace in between.
func ExtractSignalID(text string) (string, bool) {
	idx := indexFold(text, SignalIDPrefix)
	if idx < 0 {
		return "", false
	}
	rest := strings.TrimLeft(text[idx+len(SignalIDPrefix):], " \t")

	end := 0
	for _, r := range rest {
		if (r < '0' || r > '9') && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			break
		}
		end++
	}
	if end == 0 {
		return "", false
	}
	return rest[:end], true
}

// indexFold finds substr in s ignoring case, returning a byte offset into
// the original string. Lowercasing the whole text first would shift byte
// offsets when a rune's lowercase form has a different length.
func indexFold(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}
