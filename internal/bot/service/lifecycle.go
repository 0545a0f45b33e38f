package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"forex-signal-relay/internal/bot/dto"
	"forex-signal-relay/internal/bot/repository"
	"forex-signal-relay/internal/bot/store"
	"forex-signal-relay/internal/entity"
	"forex-signal-relay/pkg/logger"
	"forex-signal-relay/pkg/utils"

	"github.com/oklog/ulid/v2"
)

// ClosingPolicy decides which status updates remove a signal from the
// live store.
type ClosingPolicy string

const (
	// ClosingSingleShot closes on entry hit, stop loss, cancel, and the
	// highest configured take-profit; lower take-profits only annotate.
	ClosingSingleShot ClosingPolicy = "single_shot"
	// ClosingAnyHit closes on every status update.
	ClosingAnyHit ClosingPolicy = "any_hit"
)

// LifecycleService validates signal creation and applies status
// transitions with at-most-once semantics per transition kind.
type LifecycleService interface {
	CreateSignal(direction entity.Direction, symbol string, entry, stopLoss float64, takeProfits []*float64) (entity.Signal, error)
	ApplyStatus(ctx context.Context, id string, update dto.StatusUpdate) (dto.StatusOutcome, error)
}

type lifecycleService struct {
	store   *store.Store
	archive repository.JournalArchiveRepository // nil when the archive is disabled
	logger  *logger.Logger
	loc     *time.Location
	policy  ClosingPolicy
	now     func() time.Time
}

// NewLifecycleService creates the lifecycle manager. archive may be nil.
func NewLifecycleService(st *store.Store, archive repository.JournalArchiveRepository, log *logger.Logger, loc *time.Location, policy ClosingPolicy) LifecycleService {
	return &lifecycleService{
		store:   st,
		archive: archive,
		logger:  log,
		loc:     loc,
		policy:  policy,
		now:     time.Now,
	}
}

// CreateSignal constructs a new signal with all status flags false and a
// fresh id. It does not insert into the store; the caller does that once
// the channel post has succeeded, so a failed post leaves no state behind.
func (s *lifecycleService) CreateSignal(direction entity.Direction, symbol string, entry, stopLoss float64, takeProfits []*float64) (entity.Signal, error) {
	symbol = strings.ToUpper(strings.Join(strings.Fields(symbol), ""))
	if symbol == "" {
		return entity.Signal{}, fmt.Errorf("empty symbol: %w", dto.ErrInvalidFormat)
	}
	if !isFinite(entry) || !isFinite(stopLoss) {
		return entity.Signal{}, fmt.Errorf("entry and stop loss must be finite: %w", dto.ErrInvalidFormat)
	}
	if len(takeProfits) > entity.MaxTakeProfits {
		return entity.Signal{}, fmt.Errorf("at most %d take profits: %w", entity.MaxTakeProfits, dto.ErrInvalidFormat)
	}
	for _, tp := range takeProfits {
		if tp != nil && !isFinite(*tp) {
			return entity.Signal{}, fmt.Errorf("take profits must be finite: %w", dto.ErrInvalidFormat)
		}
	}

	return entity.Signal{
		ID:          ulid.Make().String(),
		Direction:   direction,
		Symbol:      symbol,
		Entry:       entry,
		StopLoss:    stopLoss,
		TakeProfits: takeProfits,
		Hits: entity.StatusFlags{
			TakeProfit: make([]bool, entity.MaxTakeProfits),
		},
		CreatedAt: s.now().In(s.loc),
	}, nil
}

// ApplyStatus applies one status update to a live signal. A duplicate
// transition yields ErrAlreadyRecorded and leaves the signal unchanged.
// When a fill price is supplied the realized outcome is journaled; when
// the policy marks the status as closing, the signal is removed from the
// live store.
func (s *lifecycleService) ApplyStatus(ctx context.Context, id string, update dto.StatusUpdate) (dto.StatusOutcome, error) {
	if update.Kind == entity.StatusCancel {
		sig, err := s.store.LookupSignal(id)
		if err != nil {
			return dto.StatusOutcome{}, err
		}
		// Cancel always succeeds and never journals.
		if err := s.store.RemoveSignal(ctx, id); err != nil {
			return dto.StatusOutcome{}, err
		}
		return dto.StatusOutcome{Signal: sig, Closed: true}, nil
	}

	updated, err := s.store.MutateSignal(ctx, id, func(sig *entity.Signal) error {
		return markStatus(sig, update)
	})
	if err != nil {
		return dto.StatusOutcome{}, err
	}

	outcome := dto.StatusOutcome{Signal: updated}

	if update.Price != nil {
		rec := s.buildRecord(updated, update)
		date := utils.DateKey(rec.RecordedAt)
		// The status flag is already durably recorded; a journal write
		// failure is logged rather than unwinding the transition.
		if err := s.store.AppendJournal(ctx, date, rec); err != nil {
			s.logger.Error("Failed to append journal record", logger.ErrorField(err), logger.StringField("signal_id", id))
		}
		s.mirrorToArchive(ctx, rec, date)
		outcome.Record = &rec
	}

	if s.closes(&updated, update) {
		if err := s.store.RemoveSignal(ctx, id); err != nil {
			return dto.StatusOutcome{}, err
		}
		outcome.Closed = true
	}
	return outcome, nil
}

// markStatus flips the flag for one status kind, enforcing the
// false-to-true-once invariant.
func markStatus(sig *entity.Signal, update dto.StatusUpdate) error {
	switch update.Kind {
	case entity.StatusEntryHit:
		if sig.Hits.Entry {
			return fmt.Errorf("entry hit: %w", dto.ErrAlreadyRecorded)
		}
		sig.Hits.Entry = true
	case entity.StatusStopLossHit:
		if sig.Hits.StopLoss {
			return fmt.Errorf("stop loss: %w", dto.ErrAlreadyRecorded)
		}
		sig.Hits.StopLoss = true
	case entity.StatusTakeProfitHit:
		idx := update.TPSlot - 1
		if idx < 0 || idx >= entity.MaxTakeProfits {
			return fmt.Errorf("take profit slot %d: %w", update.TPSlot, dto.ErrInvalidFormat)
		}
		for len(sig.Hits.TakeProfit) < entity.MaxTakeProfits {
			sig.Hits.TakeProfit = append(sig.Hits.TakeProfit, false)
		}
		if sig.Hits.TakeProfit[idx] {
			return fmt.Errorf("take profit %d: %w", update.TPSlot, dto.ErrAlreadyRecorded)
		}
		sig.Hits.TakeProfit[idx] = true
	default:
		return fmt.Errorf("unknown status kind %q: %w", update.Kind, dto.ErrInvalidFormat)
	}
	return nil
}

func (s *lifecycleService) buildRecord(sig entity.Signal, update dto.StatusUpdate) entity.JournalRecord {
	price := *update.Price
	riskMultiple, rawDelta := ComputeRiskMultiple(sig.Direction, sig.Entry, sig.StopLoss, price)

	action := string(update.Kind)
	if update.Kind == entity.StatusTakeProfitHit {
		action = fmt.Sprintf("tp%d", update.TPSlot)
	}

	return entity.JournalRecord{
		SignalID:     sig.ID,
		Symbol:       sig.Symbol,
		Direction:    sig.Direction,
		Action:       action,
		Entry:        sig.Entry,
		StopLoss:     sig.StopLoss,
		Price:        price,
		RiskMultiple: riskMultiple,
		ProfitPrice:  rawDelta,
		RecordedAt:   s.now().In(s.loc),
	}
}

func (s *lifecycleService) mirrorToArchive(ctx context.Context, rec entity.JournalRecord, date string) {
	if s.archive == nil {
		return
	}
	archiveRec := &entity.JournalArchiveRecord{
		SignalID:     rec.SignalID,
		Symbol:       rec.Symbol,
		Direction:    string(rec.Direction),
		Action:       rec.Action,
		Entry:        rec.Entry,
		StopLoss:     rec.StopLoss,
		Price:        rec.Price,
		RiskMultiple: rec.RiskMultiple,
		ProfitPrice:  rec.ProfitPrice,
		TradeDate:    date,
		RecordedAt:   rec.RecordedAt,
	}
	if err := s.archive.Create(ctx, archiveRec); err != nil {
		s.logger.Error("Failed to archive journal record", logger.ErrorField(err), logger.StringField("signal_id", rec.SignalID))
	}
}

// closes applies the configured closing policy to a successful status
// update.
func (s *lifecycleService) closes(sig *entity.Signal, update dto.StatusUpdate) bool {
	if s.policy == ClosingAnyHit {
		return true
	}
	switch update.Kind {
	case entity.StatusEntryHit, entity.StatusStopLossHit:
		return true
	case entity.StatusTakeProfitHit:
		final := sig.FinalTakeProfitSlot()
		return final > 0 && update.TPSlot == final
	}
	return false
}

// ComputeRiskMultiple converts a fill price into a signed multiple of the
// initial entry-to-stop risk distance. A zero risk distance is substituted
// with 1 so the division cannot blow up on a degenerate signal. The sign
// follows the direction, not the triggering status kind.
func ComputeRiskMultiple(direction entity.Direction, entry, stopLoss, price float64) (riskMultiple, rawDelta float64) {
	riskDistance := math.Abs(entry - stopLoss)
	if riskDistance == 0 {
		riskDistance = 1
	}
	rawDelta = price - entry
	if direction == entity.DirectionSell {
		rawDelta = entry - price
	}
	return rawDelta / riskDistance, rawDelta
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
