package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"hypergram/core"
	"hypergram/lib/sl"
)

// TgBot binds the dispatcher to Telegram: it long-polls for updates,
// decodes them into events, and implements the Transport interface the
// dispatcher sends results through.
type TgBot struct {
	conf       *core.Config
	log        *slog.Logger
	api        *tgbotapi.BotAPI
	dispatcher *Dispatcher
	quit       chan struct{}
}

func NewTgBot(conf *core.Config, log *slog.Logger) (*TgBot, error) {
	api, err := tgbotapi.NewBotAPI(conf.TelegramToken)
	if err != nil {
		return nil, err
	}

	return &TgBot{
		conf: conf,
		log:  log.With(sl.Module("tgbot")),
		api:  api,
		quit: make(chan struct{}),
	}, nil
}

// SetDispatcher must be called before Start.
func (t *TgBot) SetDispatcher(d *Dispatcher) {
	t.dispatcher = d
}

// Start blocks consuming updates until Stop is called.
func (t *TgBot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := t.api.GetUpdatesChan(u)
	if err != nil {
		return err
	}

	for {
		select {
		case <-t.quit:
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(update)
		}
	}
}

func (t *TgBot) Stop() {
	close(t.quit)
}

func (t *TgBot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		t.handleCallback(update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}

	incoming := update.Message
	chatID := incoming.Chat.ID

	logText := incoming.Text
	if len(logText) > 50 {
		logText = logText[:50] + "..."
	}
	t.log.With(
		slog.Int64("chat", chatID),
		slog.String("text", logText),
	).Debug("incoming message")

	ev := Event{Kind: EventMessage, ChatID: chatID, Text: incoming.Text}
	if incoming.IsCommand() {
		switch incoming.Command() {
		case "start":
			ev = Event{Kind: EventStart, ChatID: chatID}
		case "help":
			ev = Event{Kind: EventHelp, ChatID: chatID}
		default:
			t.log.Debug("unknown command", slog.String("command", incoming.Command()))
			return
		}
	}

	go t.dispatcher.HandleEvent(context.Background(), ev)
}

func (t *TgBot) handleCallback(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}

	// stop the button spinner regardless of what the payload decodes to
	if _, err := t.api.AnswerCallbackQuery(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		t.log.Warn("answering callback query", sl.Err(err))
	}

	ev := decodeCallback(callback.Message.Chat.ID, callback.Data)
	if ev.Kind == EventUnknown {
		t.log.Warn("unknown callback payload",
			slog.Int64("chat", ev.ChatID),
			slog.String("data", callback.Data),
		)
		return
	}

	go t.dispatcher.HandleEvent(context.Background(), ev)
}

func (t *TgBot) SendText(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	sent, err := t.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (t *TgBot) SendMenu(chatID int64, text string, menu Menu) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = menuMarkup(menu)
	_, err := t.api.Send(msg)
	return err
}

func (t *TgBot) SendPhoto(chatID int64, path, caption string) error {
	photo := tgbotapi.NewPhotoUpload(chatID, path)
	photo.Caption = caption
	_, err := t.api.Send(photo)
	return err
}

func (t *TgBot) SendAudio(chatID int64, path, title, caption string) error {
	audio := tgbotapi.NewAudioUpload(chatID, path)
	audio.Title = title
	audio.Caption = caption
	_, err := t.api.Send(audio)
	return err
}

func (t *TgBot) EditText(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	_, err := t.api.Send(edit)
	return err
}

func (t *TgBot) Delete(chatID int64, messageID int) error {
	_, err := t.api.DeleteMessage(tgbotapi.DeleteMessageConfig{ChatID: chatID, MessageID: messageID})
	return err
}

func menuMarkup(menu Menu) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(menu))
	for _, row := range menu {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(button.Label, button.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
