package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"forex-signal-relay/internal/bot/store"
	"forex-signal-relay/internal/entity"
	"forex-signal-relay/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	doc *entity.Document
}

func (b *memBackend) Load(_ context.Context) (*entity.Document, error) {
	if b.doc == nil {
		return entity.NewDocument(), nil
	}
	return b.doc, nil
}

func (b *memBackend) Save(_ context.Context, doc *entity.Document) error {
	b.doc = doc
	return nil
}

type stubArchive struct {
	records []entity.JournalArchiveRecord
}

func (a *stubArchive) Create(_ context.Context, record *entity.JournalArchiveRecord) error {
	a.records = append(a.records, *record)
	return nil
}

func (a *stubArchive) FindByDate(_ context.Context, date string) ([]entity.JournalArchiveRecord, error) {
	var out []entity.JournalArchiveRecord
	for _, rec := range a.records {
		if rec.TradeDate == date {
			out = append(out, rec)
		}
	}
	return out, nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(&memBackend{}, logger.NewNop())
	require.NoError(t, st.Load(context.Background(), nil))
	return st
}

func archiveContext(e *echo.Echo, date string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/archive/:date")
	c.SetParamNames("date")
	c.SetParamValues(date)
	return c, rec
}

func TestGetArchive(t *testing.T) {
	archive := &stubArchive{}
	require.NoError(t, archive.Create(context.Background(), &entity.JournalArchiveRecord{
		SignalID:     "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Symbol:       "XAUUSD",
		Direction:    "buy",
		Action:       "tp1",
		Entry:        4118,
		StopLoss:     4115,
		Price:        4120,
		RiskMultiple: 2.0 / 3.0,
		ProfitPrice:  2,
		TradeDate:    "2025-11-03",
		RecordedAt:   time.Now(),
	}))

	h := NewSignalHandler(newTestStore(t), archive, logger.NewNop())
	e := echo.New()

	c, rec := archiveContext(e, "2025-11-03")
	require.NoError(t, h.GetArchive(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "XAUUSD")
	assert.Contains(t, rec.Body.String(), "tp1")

	c, rec = archiveContext(e, "not-a-date")
	require.NoError(t, h.GetArchive(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetArchive_Disabled(t *testing.T) {
	h := NewSignalHandler(newTestStore(t), nil, logger.NewNop())

	c, rec := archiveContext(echo.New(), "2025-11-03")
	require.NoError(t, h.GetArchive(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJournal(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.AppendJournal(context.Background(), "2025-11-03", entity.JournalRecord{
		SignalID:     "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Symbol:       "XAUUSD",
		Direction:    entity.DirectionBuy,
		Action:       "sl",
		Entry:        4118,
		StopLoss:     4115,
		Price:        4115,
		RiskMultiple: -1,
		ProfitPrice:  -3,
		RecordedAt:   time.Now(),
	}))

	h := NewSignalHandler(st, nil, logger.NewNop())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/journal/:date")
	c.SetParamNames("date")
	c.SetParamValues("2025-11-03")

	require.NoError(t, h.GetJournal(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"losses":1`)
	assert.Contains(t, rec.Body.String(), "XAUUSD")
}
