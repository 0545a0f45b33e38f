package telegram

import (
	"testing"

	"forex-signal-relay/internal/bot/dto"
	"forex-signal-relay/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignalCommand(t *testing.T) {
	cmd, err := ParseSignalCommand(entity.DirectionBuy, "XAUUSD,4118,4115,4120,4122,4124,4126,4128")
	require.NoError(t, err)
	assert.Equal(t, "XAUUSD", cmd.Symbol)
	assert.Equal(t, 4118.0, cmd.Entry)
	assert.Equal(t, 4115.0, cmd.StopLoss)
	require.Len(t, cmd.TakeProfits, 5)
	for i, want := range []float64{4120, 4122, 4124, 4126, 4128} {
		require.NotNil(t, cmd.TakeProfits[i])
		assert.Equal(t, want, *cmd.TakeProfits[i])
	}
}

func TestParseSignalCommand_WhitespaceIgnored(t *testing.T) {
	cmd, err := ParseSignalCommand(entity.DirectionSell, " eurusd , 1.085 , 1.09 ")
	require.NoError(t, err)
	assert.Equal(t, "eurusd", cmd.Symbol)
	assert.Equal(t, 1.085, cmd.Entry)
	assert.Equal(t, 1.09, cmd.StopLoss)
	assert.Empty(t, cmd.TakeProfits)
}

func TestParseSignalCommand_SparseTakeProfits(t *testing.T) {
	cmd, err := ParseSignalCommand(entity.DirectionBuy, "XAUUSD,4118,4115,4120,,4124")
	require.NoError(t, err)
	require.Len(t, cmd.TakeProfits, 3)
	require.NotNil(t, cmd.TakeProfits[0])
	assert.Nil(t, cmd.TakeProfits[1])
	require.NotNil(t, cmd.TakeProfits[2])
}

func TestParseSignalCommand_ExtraSlotsDropped(t *testing.T) {
	cmd, err := ParseSignalCommand(entity.DirectionBuy, "XAUUSD,1,2,3,4,5,6,7,8,9")
	require.NoError(t, err)
	assert.Len(t, cmd.TakeProfits, 5, "only five take-profit slots exist")
}

func TestParseSignalCommand_Invalid(t *testing.T) {
	testTable := []struct {
		name string
		args string
	}{
		{name: "Empty", args: ""},
		{name: "Too few fields", args: "XAUUSD,4118"},
		{name: "Bad entry", args: "XAUUSD,abc,4115"},
		{name: "Bad stop loss", args: "XAUUSD,4118,x"},
		{name: "Bad take profit", args: "XAUUSD,4118,4115,oops"},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := ParseSignalCommand(entity.DirectionBuy, testCase.args)
			assert.ErrorIs(t, err, dto.ErrInvalidFormat)
		})
	}
}

func TestParseStatusCommand(t *testing.T) {
	testTable := []struct {
		name      string
		text      string
		wantKind  entity.StatusKind
		wantSlot  int
		wantPrice *float64
		wantErr   bool
	}{
		{name: "Hit", text: "hit", wantKind: entity.StatusEntryHit},
		{name: "Hit with price", text: "HIT 4120", wantKind: entity.StatusEntryHit, wantPrice: ptr(4120.0)},
		{name: "Stop loss", text: "sl 4115", wantKind: entity.StatusStopLossHit, wantPrice: ptr(4115.0)},
		{name: "Take profit", text: "tp3 4124.5", wantKind: entity.StatusTakeProfitHit, wantSlot: 3, wantPrice: ptr(4124.5)},
		{name: "Cancel", text: "cancel", wantKind: entity.StatusCancel},
		{name: "Unknown command", text: "moon", wantErr: true},
		{name: "Take profit slot out of range", text: "tp6", wantErr: true},
		{name: "Bad price", text: "hit banana", wantErr: true},
		{name: "Empty", text: "   ", wantErr: true},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			update, err := ParseStatusCommand(testCase.text)
			if testCase.wantErr {
				assert.ErrorIs(t, err, dto.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.wantKind, update.Kind)
			assert.Equal(t, testCase.wantSlot, update.TPSlot)
			if testCase.wantPrice == nil {
				assert.Nil(t, update.Price)
			} else {
				require.NotNil(t, update.Price)
				assert.Equal(t, *testCase.wantPrice, *update.Price)
			}
		})
	}
}

func TestCommandOf(t *testing.T) {
	testTable := []struct {
		name     string
		text     string
		wantCmd  string
		wantArgs string
	}{
		{name: "Plain command", text: "/buy XAUUSD,4118,4115", wantCmd: "buy", wantArgs: "XAUUSD,4118,4115"},
		{name: "Bot mention stripped", text: "/journal@relay_bot 2026-08-30", wantCmd: "journal", wantArgs: "2026-08-30"},
		{name: "Newline separator", text: "/sell\nEURUSD,1.09,1.095", wantCmd: "sell", wantArgs: "EURUSD,1.09,1.095"},
		{name: "Uppercase normalized", text: "/BUY XAUUSD,1,2", wantCmd: "buy", wantArgs: "XAUUSD,1,2"},
		{name: "No command", text: "hit 4120", wantCmd: "", wantArgs: "hit 4120"},
		{name: "Bare command", text: "/owners", wantCmd: "owners", wantArgs: ""},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			cmd, args := commandOf(testCase.text)
			assert.Equal(t, testCase.wantCmd, cmd)
			assert.Equal(t, testCase.wantArgs, args)
		})
	}
}

func ptr(v float64) *float64 { return &v }
