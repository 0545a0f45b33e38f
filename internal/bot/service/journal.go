package service

import (
	"context"
	"time"

	"forex-signal-relay/internal/bot/store"
	"forex-signal-relay/pkg/logger"
	"forex-signal-relay/pkg/telegram"
	"forex-signal-relay/pkg/utils"
)

// JournalService renders journal reports and runs the scheduled daily
// broadcast.
type JournalService interface {
	Report(date string) string
	SendDailyReport(ctx context.Context)
}

type journalService struct {
	store    *store.Store
	notifier telegram.Client
	logger   *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewJournalService creates the journal service.
func NewJournalService(st *store.Store, notifier telegram.Client, log *logger.Logger, loc *time.Location) JournalService {
	return &journalService{
		store:    st,
		notifier: notifier,
		logger:   log,
		loc:      loc,
		now:      time.Now,
	}
}

// Report renders the journal for one date. An empty date renders the
// "no entries" text.
func (s *journalService) Report(date string) string {
	records := s.store.JournalForDate(date)
	summary := s.store.SummarizeJournal(date)
	return telegram.FormatJournalReport(date, records, summary)
}

// SendDailyReport broadcasts today's journal to the channel and every
// owner. Delivery failures are logged per recipient; the fan-out always
// runs to completion.
func (s *journalService) SendDailyReport(ctx context.Context) {
	date := utils.DateKey(s.now().In(s.loc))
	text := s.Report(date)

	if _, err := s.notifier.PostToChannel(ctx, text, ""); err != nil {
		s.logger.Error("Failed to post daily journal to channel", logger.ErrorField(err), logger.StringField("date", date))
	}
	for _, owner := range s.store.ListOwners() {
		if err := s.notifier.SendDirect(ctx, owner, text); err != nil {
			s.logger.Error("Failed to send daily journal to owner", logger.ErrorField(err), logger.Field("owner_id", owner))
		}
	}
	s.logger.Info("Daily journal sent", logger.StringField("date", date))
}
