package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"forex-signal-relay/internal/bot/store"
	"forex-signal-relay/internal/entity"
	"forex-signal-relay/pkg/logger"
	"forex-signal-relay/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotifier records outgoing messages and can fail individual owner DMs.
type fakeNotifier struct {
	channelPosts []string
	directs      map[int64]string
	failDirectTo int64
}

func (f *fakeNotifier) PostToChannel(_ context.Context, text, _ string) (telegram.MessageRef, error) {
	f.channelPosts = append(f.channelPosts, text)
	return telegram.MessageRef{ChatID: -100, MessageID: len(f.channelPosts)}, nil
}

func (f *fakeNotifier) ReplyTo(_ context.Context, _ telegram.MessageRef, _, _ string) error {
	return nil
}

func (f *fakeNotifier) SendDirect(_ context.Context, userID int64, text string) error {
	if userID == f.failDirectTo {
		return errors.New("blocked by user")
	}
	if f.directs == nil {
		f.directs = make(map[int64]string)
	}
	f.directs[userID] = text
	return nil
}

func (f *fakeNotifier) Pin(telegram.MessageRef) error    { return nil }
func (f *fakeNotifier) UnpinAllChannel() error           { return nil }
func (f *fakeNotifier) Updates() tgbotapi.UpdatesChannel { return nil }
func (f *fakeNotifier) Stop()                            {}

func TestSendDailyReport_FanOutContinuesPastFailure(t *testing.T) {
	st := store.New(&stubBackend{}, logger.NewNop())
	require.NoError(t, st.Load(context.Background(), []int64{111, 222, 333}))

	reportDay := time.Date(2025, 11, 3, 23, 11, 0, 0, time.UTC)
	require.NoError(t, st.AppendJournal(context.Background(), "2025-11-03", entity.JournalRecord{
		SignalID:     "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Symbol:       "XAUUSD",
		Direction:    entity.DirectionBuy,
		Action:       "tp1",
		Entry:        4118,
		StopLoss:     4115,
		Price:        4120,
		RiskMultiple: 2.0 / 3.0,
		ProfitPrice:  2,
		RecordedAt:   reportDay,
	}))

	notifier := &fakeNotifier{failDirectTo: 222}
	svc := &journalService{
		store:    st,
		notifier: notifier,
		logger:   logger.NewNop(),
		loc:      time.UTC,
		now:      func() time.Time { return reportDay },
	}

	svc.SendDailyReport(context.Background())

	require.Len(t, notifier.channelPosts, 1)
	assert.Contains(t, notifier.channelPosts[0], "Jurnal 2025-11-03")
	assert.Contains(t, notifier.channelPosts[0], "XAUUSD")

	// The failing owner is skipped, the rest still receive the report.
	assert.Len(t, notifier.directs, 2)
	assert.Equal(t, notifier.channelPosts[0], notifier.directs[111])
	assert.Equal(t, notifier.channelPosts[0], notifier.directs[333])
	assert.NotContains(t, notifier.directs, int64(222))
}

func TestSendDailyReport_EmptyDay(t *testing.T) {
	st := store.New(&stubBackend{}, logger.NewNop())
	require.NoError(t, st.Load(context.Background(), []int64{111}))

	notifier := &fakeNotifier{}
	svc := &journalService{
		store:    st,
		notifier: notifier,
		logger:   logger.NewNop(),
		loc:      time.UTC,
		now:      func() time.Time { return time.Date(2025, 11, 4, 23, 11, 0, 0, time.UTC) },
	}

	svc.SendDailyReport(context.Background())

	require.Len(t, notifier.channelPosts, 1)
	assert.Equal(t, "Tidak ada jurnal di 2025-11-04", notifier.channelPosts[0])
	assert.Equal(t, notifier.channelPosts[0], notifier.directs[111])
}
