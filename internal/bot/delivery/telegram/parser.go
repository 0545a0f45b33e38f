package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"forex-signal-relay/internal/bot/dto"
	"forex-signal-relay/internal/entity"
)

// ParseSignalCommand parses the body of a /buy or /sell command. The wire
// format is comma separated with all whitespace ignored:
//
//	SYMBOL,entry,stoploss[,tp1,tp2,tp3,tp4,tp5]
//
// Take-profit slots may be left empty to skip them.
func ParseSignalCommand(direction entity.Direction, args string) (*dto.SignalCommand, error) {
	cleaned := strings.Join(strings.Fields(args), "")
	parts := strings.Split(cleaned, ",")
	if len(parts) < 3 {
		return nil, fmt.Errorf("need symbol, entry and stop loss: %w", dto.ErrInvalidFormat)
	}

	symbol := parts[0]
	entry, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("bad entry %q: %w", parts[1], dto.ErrInvalidFormat)
	}
	stopLoss, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return nil, fmt.Errorf("bad stop loss %q: %w", parts[2], dto.ErrInvalidFormat)
	}

	var takeProfits []*float64
	for i, part := range parts[3:] {
		if i >= entity.MaxTakeProfits {
			break
		}
		if part == "" {
			takeProfits = append(takeProfits, nil)
			continue
		}
		tp, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("bad take profit %q: %w", part, dto.ErrInvalidFormat)
		}
		takeProfits = append(takeProfits, &tp)
	}

	return &dto.SignalCommand{
		Direction:   direction,
		Symbol:      symbol,
		Entry:       entry,
		StopLoss:    stopLoss,
		TakeProfits: takeProfits,
	}, nil
}

// ParseStatusCommand parses an owner's status reply:
//
//	hit|sl|tp1..tp5|cancel [price]
func ParseStatusCommand(text string) (*dto.StatusUpdate, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty status: %w", dto.ErrInvalidFormat)
	}

	update := &dto.StatusUpdate{}
	switch cmd := fields[0]; {
	case cmd == "cancel":
		update.Kind = entity.StatusCancel
	case cmd == "hit":
		update.Kind = entity.StatusEntryHit
	case cmd == "sl":
		update.Kind = entity.StatusStopLossHit
	case len(cmd) == 3 && strings.HasPrefix(cmd, "tp") && cmd[2] >= '1' && cmd[2] <= '5':
		update.Kind = entity.StatusTakeProfitHit
		update.TPSlot = int(cmd[2] - '0')
	default:
		return nil, fmt.Errorf("unknown status %q: %w", cmd, dto.ErrInvalidFormat)
	}

	if len(fields) > 1 {
		price, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad price %q: %w", fields[1], dto.ErrInvalidFormat)
		}
		update.Price = &price
	}
	return update, nil
}

// commandOf splits a message into a lowercase command name (bot mention
// stripped) and the argument remainder. Non-command text returns an empty
// command.
func commandOf(text string) (cmd, args string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	body := strings.TrimPrefix(text, "/")
	name, rest := body, ""
	if idx := strings.IndexAny(body, " \t\r\n"); idx >= 0 {
		name, rest = body[:idx], body[idx+1:]
	}
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name), strings.TrimSpace(rest)
}
