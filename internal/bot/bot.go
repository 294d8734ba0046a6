// Package bot runs the Telegram front end: long-polling for updates,
// walking users through the scope and format keyboards, and driving the
// download → convert → pack → deliver job for each request.
package bot

import (
	"context"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/stickerpress/stickerpress/internal/config"
	"github.com/stickerpress/stickerpress/internal/convert"
	"github.com/stickerpress/stickerpress/internal/logging"
	"github.com/stickerpress/stickerpress/internal/render"
)

// Callback data prefixes for the two inline keyboard rounds.
const (
	scopeOne = "scope:one"
	scopeSet = "scope:set"

	formatPrefix = "format:"
	formatAll    = "format:all"
)

const welcomeText = `Send me an animated sticker and I will convert it.

I can turn a .tgs sticker (or its whole set) into GIF, PNG, APNG or
raw Lottie JSON. Sets that exceed Telegram's upload limit arrive as
multiple archives.`

// API is the slice of the Telegram client the bot uses. Narrowed from
// *tgbotapi.BotAPI so handlers can be tested against a fake.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFile(cfg tgbotapi.FileConfig) (tgbotapi.File, error)
	GetStickerSet(cfg tgbotapi.GetStickerSetConfig) (tgbotapi.StickerSet, error)
	GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot wires the Telegram API to the conversion pipeline.
type Bot struct {
	api      API
	cfg      *config.Config
	log      *logging.Logger
	conv     *convert.Converter
	sessions *sessionStore
	client   *http.Client

	// fileURL maps a resolved Telegram file to its download URL.
	// Swappable so tests can point downloads at a local server.
	fileURL func(f tgbotapi.File) string
}

// New builds a Bot around an already-authorized API client.
func New(api API, cfg *config.Config, log *logging.Logger) *Bot {
	renderer := render.NewExecRenderer(cfg.RendererCommand, cfg.MaxFrames)
	return &Bot{
		api:      api,
		cfg:      cfg,
		log:      log,
		conv:     convert.New(renderer),
		sessions: newSessionStore(),
		client:   &http.Client{Timeout: 60 * time.Second},
		fileURL:  func(f tgbotapi.File) string { return f.Link(cfg.Token) },
	}
}

// Run polls for updates until ctx is cancelled. Each update is handled
// synchronously; jobs are short and Telegram tolerates slow consumers.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.PollTimeout

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("Listening for updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("Update loop stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start", "help":
		b.send(tgbotapi.NewMessage(chatID, welcomeText))
		return
	case "cancel", "stop":
		b.sessions.drop(chatID)
		b.send(tgbotapi.NewMessage(chatID, "Cancelled."))
		return
	}

	if msg.Sticker == nil {
		return
	}
	if !msg.Sticker.IsAnimated {
		b.send(tgbotapi.NewMessage(chatID, "That sticker is not animated. Send me an animated (.tgs) sticker."))
		return
	}

	sess := &session{FileID: msg.Sticker.FileID, SetName: msg.Sticker.SetName}
	b.sessions.put(chatID, sess)
	b.log.Debug("Sticker received in chat %d (set %q)", chatID, sess.SetName)

	// Stickers without a set skip straight to the format choice.
	if sess.SetName == "" {
		reply := tgbotapi.NewMessage(chatID, "Which format?")
		reply.ReplyMarkup = formatKeyboard()
		b.send(reply)
		return
	}

	reply := tgbotapi.NewMessage(chatID, "Convert just this sticker, or the whole set?")
	reply.ReplyMarkup = scopeKeyboard()
	b.send(reply)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn("Answering callback failed: %v", err)
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	sess, ok := b.sessions.get(chatID)
	if !ok {
		b.edit(chatID, cb.Message.MessageID, "That request has expired. Send the sticker again.")
		return
	}

	switch {
	case cb.Data == scopeOne || cb.Data == scopeSet:
		sess.WholeSet = cb.Data == scopeSet
		edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, "Which format?")
		markup := formatKeyboard()
		edit.ReplyMarkup = &markup
		b.send(edit)

	case strings.HasPrefix(cb.Data, formatPrefix):
		b.sessions.drop(chatID)
		b.runJob(ctx, chatID, cb.Message.MessageID, sess, strings.TrimPrefix(cb.Data, formatPrefix))

	default:
		b.log.Warn("Unknown callback data %q from chat %d", cb.Data, chatID)
	}
}

func scopeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Just this one", scopeOne),
			tgbotapi.NewInlineKeyboardButtonData("Whole set", scopeSet),
		),
	)
}

func formatKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, f := range convert.Formats() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			strings.ToUpper(string(f)), formatPrefix+string(f)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("All formats", formatAll),
		),
	)
}

// send wraps api.Send with error logging; delivery failures are logged,
// not propagated, so one bad send never takes the update loop down.
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.log.Error("Send failed: %v", err)
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	b.send(tgbotapi.NewEditMessageText(chatID, messageID, text))
}
