package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// MessageRef identifies a message the bot has sent.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Client is the messaging transport used by the bot: channel posts,
// pinning, and direct messages to owners. Every call may fail
// independently; callers log and continue.
type Client interface {
	PostToChannel(ctx context.Context, text, photoFileID string) (MessageRef, error)
	ReplyTo(ctx context.Context, ref MessageRef, text, photoFileID string) error
	SendDirect(ctx context.Context, userID int64, text string) error
	Pin(ref MessageRef) error
	UnpinAllChannel() error
	Updates() tgbotapi.UpdatesChannel
	Stop()
}

// client is the tgbotapi-backed implementation of Client.
type client struct {
	bot             *tgbotapi.BotAPI
	channelID       int64
	channelUsername string
	// Telegram throttles bots around 30 messages per second; the owner
	// fan-out stays under that.
	dmLimiter *rate.Limiter
}

// NewClient creates a Telegram client. The channel is addressed by numeric
// chat id when channelID is non-zero, otherwise by @username.
func NewClient(botToken string, channelID int64, channelUsername string) (Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &client{
		bot:             bot,
		channelID:       channelID,
		channelUsername: channelUsername,
		dmLimiter:       rate.NewLimiter(rate.Limit(25), 5),
	}, nil
}

// PostToChannel sends a text or photo message to the broadcast channel.
func (c *client) PostToChannel(_ context.Context, text, photoFileID string) (MessageRef, error) {
	var msg tgbotapi.Chattable
	if photoFileID != "" {
		var photo tgbotapi.PhotoConfig
		if c.channelID != 0 {
			photo = tgbotapi.NewPhoto(c.channelID, tgbotapi.FileID(photoFileID))
		} else {
			photo = tgbotapi.NewPhotoToChannel(c.channelUsername, tgbotapi.FileID(photoFileID))
		}
		photo.Caption = text
		msg = photo
	} else {
		if c.channelID != 0 {
			msg = tgbotapi.NewMessage(c.channelID, text)
		} else {
			msg = tgbotapi.NewMessageToChannel(c.channelUsername, text)
		}
	}

	sent, err := c.bot.Send(msg)
	if err != nil {
		return MessageRef{}, err
	}
	return MessageRef{ChatID: sent.Chat.ID, MessageID: sent.MessageID}, nil
}

// ReplyTo sends a text or photo message in reply to an earlier post.
func (c *client) ReplyTo(_ context.Context, ref MessageRef, text, photoFileID string) error {
	var msg tgbotapi.Chattable
	if photoFileID != "" {
		photo := tgbotapi.NewPhoto(ref.ChatID, tgbotapi.FileID(photoFileID))
		photo.Caption = text
		photo.ReplyToMessageID = ref.MessageID
		msg = photo
	} else {
		text := tgbotapi.NewMessage(ref.ChatID, text)
		text.ReplyToMessageID = ref.MessageID
		msg = text
	}
	_, err := c.bot.Send(msg)
	return err
}

// SendDirect sends a private message to one user, rate limited so owner
// fan-out does not trip Telegram's flood control.
func (c *client) SendDirect(ctx context.Context, userID int64, text string) error {
	if err := c.dmLimiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.bot.Send(tgbotapi.NewMessage(userID, text))
	return err
}

// Pin pins a previously sent message.
func (c *client) Pin(ref MessageRef) error {
	_, err := c.bot.Request(tgbotapi.PinChatMessageConfig{
		ChatID:              ref.ChatID,
		MessageID:           ref.MessageID,
		DisableNotification: false,
	})
	return err
}

// UnpinAllChannel removes every pinned message from the channel.
func (c *client) UnpinAllChannel() error {
	_, err := c.bot.Request(tgbotapi.UnpinAllChatMessagesConfig{
		ChatID:          c.channelID,
		ChannelUsername: c.channelUsername,
	})
	return err
}

// Updates returns the long-polling update channel.
func (c *client) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return c.bot.GetUpdatesChan(u)
}

// Stop shuts down the update long-poll loop.
func (c *client) Stop() {
	c.bot.StopReceivingUpdates()
}
