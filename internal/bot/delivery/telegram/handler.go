package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"forex-signal-relay/internal/bot/dto"
	"forex-signal-relay/internal/bot/service"
	"forex-signal-relay/internal/bot/store"
	"forex-signal-relay/internal/entity"
	"forex-signal-relay/pkg/logger"
	"forex-signal-relay/pkg/telegram"
	"forex-signal-relay/pkg/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	replyNotOwner      = "Bukan owner."
	replyBadFormat     = "Format salah.\nContoh:\n/%s XAUUSD,4118,4115,4120,4122,4124,4126,4128\n(bisa caption foto)"
	replyStatusHint    = "Ketik perintah: hit, sl, tp1..tp5, cancel"
	replyNoSignalID    = "Tidak menemukan Signal ID."
	replySignalMissing = "Signal tidak ditemukan."
)

// Handler consumes Telegram updates and routes them to the core services.
// One update is fully processed, persistence included, before the next is
// read.
type Handler struct {
	bot       telegram.Client
	store     *store.Store
	lifecycle service.LifecycleService
	journal   service.JournalService
	logger    *logger.Logger
	loc       *time.Location
}

// NewHandler creates the update handler.
func NewHandler(bot telegram.Client, st *store.Store, lifecycle service.LifecycleService, journal service.JournalService, log *logger.Logger, loc *time.Location) *Handler {
	return &Handler{
		bot:       bot,
		store:     st,
		lifecycle: lifecycle,
		journal:   journal,
		logger:    log,
		loc:       loc,
	}
}

// Run consumes updates until the context is cancelled.
func (h *Handler) Run(ctx context.Context) {
	updates := h.bot.Updates()
	h.logger.Info("Telegram update loop started")
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Telegram update loop stopping")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	text = strings.TrimSpace(text)

	switch cmd, args := commandOf(text); cmd {
	case "buy":
		h.handleNewSignal(ctx, msg, entity.DirectionBuy, args)
	case "sell":
		h.handleNewSignal(ctx, msg, entity.DirectionSell, args)
	case "owners":
		h.handleOwners(ctx, msg)
	case "addowner":
		h.handleAddOwner(ctx, msg, args)
	case "removeowner":
		h.handleRemoveOwner(ctx, msg, args)
	case "journal":
		h.handleJournal(ctx, msg, args)
	default:
		if msg.Chat.IsPrivate() {
			h.handleStatusReply(ctx, msg, text)
		}
	}
}

func (h *Handler) handleNewSignal(ctx context.Context, msg *tgbotapi.Message, direction entity.Direction, args string) {
	if !h.store.IsOwner(msg.From.ID) {
		h.reply(ctx, msg, replyNotOwner)
		return
	}

	parsed, err := ParseSignalCommand(direction, args)
	if err != nil {
		h.reply(ctx, msg, fmt.Sprintf(replyBadFormat, direction))
		return
	}

	sig, err := h.lifecycle.CreateSignal(parsed.Direction, parsed.Symbol, parsed.Entry, parsed.StopLoss, parsed.TakeProfits)
	if err != nil {
		h.reply(ctx, msg, fmt.Sprintf(replyBadFormat, direction))
		return
	}

	text := telegram.FormatSignal(sig)

	if err := h.bot.UnpinAllChannel(); err != nil {
		h.logger.Warn("Failed to unpin channel messages", logger.ErrorField(err))
	}

	ref, err := h.bot.PostToChannel(ctx, text, photoFileID(msg))
	if err != nil {
		h.logger.Error("Failed to post signal to channel", logger.ErrorField(err), logger.StringField("signal_id", sig.ID))
		h.reply(ctx, msg, "Gagal mengirim ke channel.")
		return
	}
	if err := h.bot.Pin(ref); err != nil {
		h.logger.Warn("Failed to pin signal post", logger.ErrorField(err), logger.StringField("signal_id", sig.ID))
	}

	sig.Posted = &entity.PostedMessage{ChatID: ref.ChatID, MessageID: ref.MessageID}
	if err := h.store.InsertSignal(ctx, sig); err != nil {
		h.logger.Error("Failed to store signal", logger.ErrorField(err), logger.StringField("signal_id", sig.ID))
		h.reply(ctx, msg, "Gagal menyimpan signal.")
		return
	}

	ownerText := "New signal posted:\n\n" + text
	for _, owner := range h.store.ListOwners() {
		if err := h.bot.SendDirect(ctx, owner, ownerText); err != nil {
			h.logger.Error("Failed to DM owner", logger.ErrorField(err), logger.Field("owner_id", owner))
		}
	}

	h.reply(ctx, msg, fmt.Sprintf("Signal posted (ID: %s)", sig.ID))
}

func (h *Handler) handleOwners(ctx context.Context, msg *tgbotapi.Message) {
	if !h.store.IsOwner(msg.From.ID) {
		h.reply(ctx, msg, replyNotOwner)
		return
	}
	var b strings.Builder
	b.WriteString("Owners:")
	for _, owner := range h.store.ListOwners() {
		fmt.Fprintf(&b, "\n%d", owner)
	}
	h.reply(ctx, msg, b.String())
}

func (h *Handler) handleAddOwner(ctx context.Context, msg *tgbotapi.Message, args string) {
	if !h.store.IsOwner(msg.From.ID) {
		h.reply(ctx, msg, replyNotOwner)
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		h.reply(ctx, msg, "format: /addowner <telegram_id>")
		return
	}
	added, err := h.store.AddOwner(ctx, id)
	if err != nil {
		h.logger.Error("Failed to add owner", logger.ErrorField(err), logger.Field("owner_id", id))
		h.reply(ctx, msg, "Gagal menyimpan owner.")
		return
	}
	if added {
		h.reply(ctx, msg, "Owner ditambah.")
	} else {
		h.reply(ctx, msg, "Owner sudah ada.")
	}
}

func (h *Handler) handleRemoveOwner(ctx context.Context, msg *tgbotapi.Message, args string) {
	if !h.store.IsOwner(msg.From.ID) {
		h.reply(ctx, msg, replyNotOwner)
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		h.reply(ctx, msg, "format: /removeowner <telegram_id>")
		return
	}
	removed, err := h.store.RemoveOwner(ctx, id)
	if err != nil {
		h.logger.Error("Failed to remove owner", logger.ErrorField(err), logger.Field("owner_id", id))
		h.reply(ctx, msg, "Gagal menyimpan owner.")
		return
	}
	if removed {
		h.reply(ctx, msg, "Owner dihapus.")
	} else {
		h.reply(ctx, msg, "Owner tidak ditemukan.")
	}
}

func (h *Handler) handleJournal(ctx context.Context, msg *tgbotapi.Message, args string) {
	if !h.store.IsOwner(msg.From.ID) {
		h.reply(ctx, msg, replyNotOwner)
		return
	}
	date := strings.TrimSpace(args)
	if date == "" {
		date = utils.DateKey(time.Now().In(h.loc))
	} else if _, err := time.Parse(utils.DateLayout, date); err != nil {
		h.reply(ctx, msg, "format: /journal [YYYY-MM-DD]")
		return
	}
	h.reply(ctx, msg, h.journal.Report(date))
}

// handleStatusReply processes an owner replying to a DM copy of a signal
// with hit/sl/tpN/cancel. Non-owners are ignored without a reply so the
// surface leaks nothing.
func (h *Handler) handleStatusReply(ctx context.Context, msg *tgbotapi.Message, text string) {
	if !h.store.IsOwner(msg.From.ID) {
		return
	}
	replied := msg.ReplyToMessage
	if replied == nil {
		return
	}

	combined := replied.Text + "\n" + replied.Caption
	id, ok := telegram.ExtractSignalID(combined)
	if !ok {
		h.reply(ctx, msg, replyNoSignalID)
		return
	}

	if text == "" {
		h.reply(ctx, msg, replyStatusHint)
		return
	}
	update, err := ParseStatusCommand(text)
	if err != nil {
		h.reply(ctx, msg, replyStatusHint)
		return
	}

	outcome, err := h.lifecycle.ApplyStatus(ctx, id, *update)
	switch {
	case errors.Is(err, dto.ErrNotFound):
		h.reply(ctx, msg, replySignalMissing)
		return
	case errors.Is(err, dto.ErrAlreadyRecorded):
		h.reply(ctx, msg, alreadyRecordedReply(*update))
		return
	case errors.Is(err, dto.ErrInvalidFormat):
		h.reply(ctx, msg, replyStatusHint)
		return
	case err != nil:
		h.logger.Error("Failed to apply status", logger.ErrorField(err), logger.StringField("signal_id", id))
		h.reply(ctx, msg, "Gagal memproses status.")
		return
	}

	// The transition is recorded; a delivery failure must not unwind it.
	announcement := telegram.FormatStatusAnnouncement(update.Kind, update.TPSlot, update.Price, id)
	if posted := outcome.Signal.Posted; posted != nil {
		ref := telegram.MessageRef{ChatID: posted.ChatID, MessageID: posted.MessageID}
		if err := h.bot.ReplyTo(ctx, ref, announcement, photoFileID(msg)); err != nil {
			h.logger.Error("Failed to announce status to channel", logger.ErrorField(err), logger.StringField("signal_id", id))
		}
	}

	if update.Kind == entity.StatusCancel {
		h.reply(ctx, msg, "Signal di-cancel.")
	} else {
		h.reply(ctx, msg, "Status dikirim ke channel.")
	}
}

func alreadyRecordedReply(update dto.StatusUpdate) string {
	switch update.Kind {
	case entity.StatusEntryHit:
		return "Entry sudah tercatat."
	case entity.StatusStopLossHit:
		return "SL sudah tercatat."
	case entity.StatusTakeProfitHit:
		return fmt.Sprintf("TP %d sudah tercatat.", update.TPSlot)
	}
	return "Status sudah tercatat."
}

func (h *Handler) reply(ctx context.Context, msg *tgbotapi.Message, text string) {
	ref := telegram.MessageRef{ChatID: msg.Chat.ID, MessageID: msg.MessageID}
	if err := h.bot.ReplyTo(ctx, ref, text, ""); err != nil {
		h.logger.Error("Failed to reply", logger.ErrorField(err), logger.Field("chat_id", msg.Chat.ID))
	}
}

func photoFileID(msg *tgbotapi.Message) string {
	if len(msg.Photo) == 0 {
		return ""
	}
	return msg.Photo[len(msg.Photo)-1].FileID
}
