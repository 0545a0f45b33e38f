package http

import (
	"net/http"
	"time"

	"forex-signal-relay/internal/bot/dto"
	"forex-signal-relay/internal/bot/repository"
	"forex-signal-relay/internal/bot/store"
	"forex-signal-relay/pkg/logger"
	"forex-signal-relay/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
)

// SignalHandler serves the read-only admin API: live signals, journal
// days, and the PostgreSQL archive. Journal responses are cached briefly
// since the daily report and dashboards poll the same dates.
type SignalHandler struct {
	store   *store.Store
	archive repository.JournalArchiveRepository // nil when the archive is disabled
	logger  *logger.Logger
	cache   *cache.Cache
}

// NewSignalHandler creates a new SignalHandler. archive may be nil.
func NewSignalHandler(st *store.Store, archive repository.JournalArchiveRepository, log *logger.Logger) *SignalHandler {
	return &SignalHandler{
		store:   st,
		archive: archive,
		logger:  log,
		cache:   cache.New(time.Minute, 5*time.Minute),
	}
}

// RegisterRoutes registers the admin routes to the Echo group.
func (h *SignalHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/signals", h.ListSignals)
	g.GET("/journal/:date", h.GetJournal)
	g.GET("/archive/:date", h.GetArchive)
}

// ListSignals returns the live signals in insertion order.
func (h *SignalHandler) ListSignals(c echo.Context) error {
	signals := h.store.ListSignals()
	out := make([]dto.SignalResponse, 0, len(signals))
	for _, sig := range signals {
		out = append(out, dto.SignalResponse{
			ID:          sig.ID,
			Direction:   string(sig.Direction),
			Symbol:      sig.Symbol,
			Entry:       sig.Entry,
			StopLoss:    sig.StopLoss,
			TakeProfits: sig.TakeProfits,
			Hits:        sig.Hits,
			Posted:      sig.Posted,
			CreatedAt:   sig.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// GetJournal returns the records and summary for one date.
func (h *SignalHandler) GetJournal(c echo.Context) error {
	date := c.Param("date")
	if _, err := time.Parse(utils.DateLayout, date); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid date, want YYYY-MM-DD"})
	}

	if cached, found := h.cache.Get(date); found {
		return c.JSON(http.StatusOK, cached)
	}

	resp := dto.JournalResponse{
		Date:    date,
		Records: h.store.JournalForDate(date),
		Summary: h.store.SummarizeJournal(date),
	}
	h.cache.SetDefault(date, resp)
	return c.JSON(http.StatusOK, resp)
}

// GetArchive returns the archived records for one date from PostgreSQL.
func (h *SignalHandler) GetArchive(c echo.Context) error {
	if h.archive == nil {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "journal archive is disabled"})
	}

	date := c.Param("date")
	if _, err := time.Parse(utils.DateLayout, date); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid date, want YYYY-MM-DD"})
	}

	records, err := h.archive.FindByDate(c.Request().Context(), date)
	if err != nil {
		h.logger.Error("Failed to query journal archive", logger.ErrorField(err), logger.StringField("date", date))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to query archive"})
	}
	return c.JSON(http.StatusOK, records)
}
