package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hypergram/ai"
	"hypergram/core"
	"hypergram/lib/sl"
	"hypergram/obs"
	"hypergram/storage"
)

const (
	msgStart = "Hi! Pick a service below.\nFree-text messages go to the selected service."
	msgHelp  = "Send /start to pick a service.\n" +
		"Chat AI answers your messages, Generate Image turns prompts into pictures, " +
		"Generate Audio reads text aloud.\n" +
		"Audio input format: text | language | speaker (language and speaker are optional)."

	msgChatMode  = "Send a message to start chatting with the AI."
	msgImageMode = "Send a prompt to generate an image."
	msgAudioMode = "Send text to turn into audio.\nFormat: text | language (default EN) | speaker (default EN-US)"

	warnNoMode    = "⚠️ Please choose a service from the menu first. Send /start to see it."
	warnEmptyText = "⚠️ Please send some text."

	msgWorking    = "⏳ Working on it..."
	fallbackReply = "Sorry, I can't answer that right now."

	captionImage = "✅ Image generated!"
	captionAudio = "✅ Audio generated!"
	audioTitle   = "Generated speech"
)

// Transport is the chat platform binding the dispatcher talks back through.
type Transport interface {
	SendText(chatID int64, text string) (int, error)
	SendMenu(chatID int64, text string, menu Menu) error
	SendPhoto(chatID int64, path, caption string) error
	SendAudio(chatID int64, path, title, caption string) error
	EditText(chatID int64, messageID int, text string) error
	Delete(chatID int64, messageID int) error
}

// Services bundles the three provider clients.
type Services struct {
	Text   core.Completer
	Image  core.ImageGenerator
	Speech core.SpeechGenerator
}

// Dispatcher routes decoded events to the session store and the provider
// clients. It is the only writer of session state and the single place
// where handler errors are caught and reported.
type Dispatcher struct {
	conf      *core.Config
	log       *slog.Logger
	store     storage.SessionStore
	transport Transport
	services  Services
	metrics   *obs.Metrics

	mutex sync.Mutex
	chats map[int64]*sync.Mutex
}

func NewDispatcher(conf *core.Config, log *slog.Logger, store storage.SessionStore, transport Transport, services Services, metrics *obs.Metrics) *Dispatcher {
	return &Dispatcher{
		conf:      conf,
		log:       log.With(sl.Module("dispatcher")),
		store:     store,
		transport: transport,
		services:  services,
		metrics:   metrics,
		chats:     make(map[int64]*sync.Mutex),
	}
}

// HandleEvent processes one inbound event. Events for the same chat are
// serialized by a per-chat lock so a mode change cannot race a message
// already resolving the old mode.
func (d *Dispatcher) HandleEvent(ctx context.Context, ev Event) {
	lock := d.chatLock(ev.ChatID)
	lock.Lock()
	defer lock.Unlock()

	d.countEvent(ev.Kind)
	d.store.Touch(ev.ChatID)

	if err := d.handle(ctx, ev); err != nil {
		d.reportError(ev.ChatID, err)
	}
	d.gaugeSessions()
}

func (d *Dispatcher) handle(ctx context.Context, ev Event) error {
	switch ev.Kind {
	case EventStart:
		return d.transport.SendMenu(ev.ChatID, msgStart, mainMenu())
	case EventHelp:
		_, err := d.transport.SendText(ev.ChatID, msgHelp)
		return err
	case EventMode:
		d.store.SetMode(ev.ChatID, ev.Mode)
		_, err := d.transport.SendText(ev.ChatID, modeInstruction(ev.Mode))
		return err
	case EventTextModelMenu:
		return d.transport.SendMenu(ev.ChatID, "Choose a text model:", textModelMenu())
	case EventImageModelMenu:
		return d.transport.SendMenu(ev.ChatID, "Choose an image model:", imageModelMenu())
	case EventVoiceMenu:
		return d.transport.SendMenu(ev.ChatID, "Choose a voice:", voiceMenu())
	case EventTextModel:
		d.store.SetTextModel(ev.ChatID, ev.Value)
		_, err := d.transport.SendText(ev.ChatID, "✅ Text model set to: "+ev.Value)
		return err
	case EventImageModel:
		d.store.SetImageModel(ev.ChatID, ev.Value)
		_, err := d.transport.SendText(ev.ChatID, "✅ Image model set to: "+ev.Value)
		return err
	case EventVoice:
		d.store.SetVoice(ev.ChatID, ev.Lang, ev.Value)
		_, err := d.transport.SendText(ev.ChatID, "✅ Voice set to: "+ev.Lang+" / "+ev.Value)
		return err
	case EventMessage:
		return d.handleMessage(ctx, ev)
	default:
		d.log.Warn("unknown event", slog.Int64("chat", ev.ChatID))
		return nil
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, ev Event) error {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return core.ErrEmptyInput
	}

	session := d.store.GetOrCreate(ev.ChatID)
	switch session.Mode {
	case storage.ModeChat:
		return d.handleChat(ctx, ev.ChatID, session, text)
	case storage.ModeImage:
		return d.handleImage(ctx, ev.ChatID, session, text)
	case storage.ModeAudio:
		return d.handleAudio(ctx, ev.ChatID, session, text)
	default:
		return core.ErrNoMode
	}
}

func (d *Dispatcher) handleChat(ctx context.Context, chatID int64, session storage.Session, text string) error {
	progressID := d.sendProgress(chatID)

	start := time.Now()
	reply, err := d.services.Text.Complete(ctx, ai.TextModelOrDefault(session.TextModel), text)
	d.observeLatency("chat", start)
	if err != nil {
		var pe *core.ProviderError
		if errors.As(err, &pe) && pe.Code == core.CodeEmptyResponse {
			reply = fallbackReply
		} else {
			d.clearProgress(chatID, progressID)
			return err
		}
	}

	if progressID != 0 {
		err := d.transport.EditText(chatID, progressID, reply)
		if err == nil {
			return nil
		}
		d.log.Warn("editing progress message", slog.Int64("chat", chatID), sl.Err(err))
		d.clearProgress(chatID, progressID)
	}
	if _, err := d.transport.SendText(chatID, reply); err != nil {
		return fmt.Errorf("sending reply: %w", err)
	}
	return nil
}

func (d *Dispatcher) handleImage(ctx context.Context, chatID int64, session storage.Session, prompt string) error {
	progressID := d.sendProgress(chatID)
	defer d.clearProgress(chatID, progressID)

	start := time.Now()
	raw, err := d.services.Image.GenerateImage(ctx, ai.ImageModelOrDefault(session.ImageModel), prompt)
	d.observeLatency("image", start)
	if err != nil {
		return err
	}

	path := d.scratchPath("img_", ".jpg")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("writing scratch file: %w", err)
	}
	defer d.removeScratch(path)

	if err := d.transport.SendPhoto(chatID, path, captionImage); err != nil {
		return fmt.Errorf("sending photo: %w", err)
	}
	return nil
}

func (d *Dispatcher) handleAudio(ctx context.Context, chatID int64, session storage.Session, text string) error {
	req, err := parseSpeechInput(text, session)
	if err != nil {
		return err
	}

	progressID := d.sendProgress(chatID)
	defer d.clearProgress(chatID, progressID)

	start := time.Now()
	raw, err := d.services.Speech.GenerateSpeech(ctx, req)
	d.observeLatency("audio", start)
	if err != nil {
		return err
	}

	path := d.scratchPath("tts_", ".mp3")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("writing scratch file: %w", err)
	}
	defer d.removeScratch(path)

	if err := d.transport.SendAudio(chatID, path, audioTitle, captionAudio); err != nil {
		return fmt.Errorf("sending audio: %w", err)
	}
	return nil
}

// parseSpeechInput splits the original's "text | language | speaker" input
// format. Omitted parts fall back to the session's voice preference, then
// to the service defaults.
func parseSpeechInput(text string, session storage.Session) (core.SpeechRequest, error) {
	parts := strings.Split(text, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	req := core.SpeechRequest{
		Text:     parts[0],
		Language: session.AudioLanguage,
		Speaker:  session.AudioSpeaker,
	}
	if len(parts) > 1 && parts[1] != "" {
		req.Language = strings.ToUpper(parts[1])
	}
	if len(parts) > 2 && parts[2] != "" {
		req.Speaker = strings.ToUpper(parts[2])
	}
	req.Language, req.Speaker = ai.VoiceOrDefault(req.Language, req.Speaker)

	if req.Text == "" {
		return req, core.ErrEmptyInput
	}
	return req, nil
}

// reportError is the single error boundary for event handling. User input
// problems get a short instruction; everything else gets a generic message
// with a correlation id matching the logged detail.
func (d *Dispatcher) reportError(chatID int64, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyInput):
		d.plainResponse(chatID, warnEmptyText)
		return
	case errors.Is(err, core.ErrNoMode):
		d.plainResponse(chatID, warnNoMode)
		return
	}

	cid := newCorrelationID()
	d.log.With(
		slog.Int64("chat", chatID),
		sl.Cid(cid),
	).Error("handling event", sl.Err(err))

	var pe *core.ProviderError
	if errors.As(err, &pe) {
		d.countProviderError(pe)
	}

	d.plainResponse(chatID, fmt.Sprintf("⚠️ Something went wrong. Reference: %s", cid))
}

func newCorrelationID() string {
	return uuid.NewString()[:8]
}

// sendProgress sends the working notice; returns 0 when the send fails,
// which later steps treat as "no progress message to clean up".
func (d *Dispatcher) sendProgress(chatID int64) int {
	id, err := d.transport.SendText(chatID, msgWorking)
	if err != nil {
		d.log.Warn("sending progress message", slog.Int64("chat", chatID), sl.Err(err))
		return 0
	}
	return id
}

func (d *Dispatcher) clearProgress(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if err := d.transport.Delete(chatID, messageID); err != nil {
		d.log.Warn("deleting progress message", slog.Int64("chat", chatID), sl.Err(err))
	}
}

func (d *Dispatcher) plainResponse(chatID int64, text string) {
	if _, err := d.transport.SendText(chatID, text); err != nil {
		d.log.Error("sending message", slog.Int64("chat", chatID), sl.Err(err))
	}
}

// scratchPath names a file before anything is written, so concurrent
// requests can never collide on the same name.
func (d *Dispatcher) scratchPath(prefix, ext string) string {
	return filepath.Join(d.conf.ScratchDir, prefix+uuid.NewString()+ext)
}

func (d *Dispatcher) removeScratch(path string) {
	if err := os.Remove(path); err != nil {
		d.log.Warn("removing scratch file", slog.String("path", path), sl.Err(err))
	}
}

// chatLock returns the mutex serializing events for one chat. Entries are
// never reclaimed; a bare mutex per seen chat is small enough to keep.
func (d *Dispatcher) chatLock(chatID int64) *sync.Mutex {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	lock, ok := d.chats[chatID]
	if !ok {
		lock = &sync.Mutex{}
		d.chats[chatID] = lock
	}
	return lock
}

func modeInstruction(mode storage.Mode) string {
	switch mode {
	case storage.ModeChat:
		return msgChatMode
	case storage.ModeImage:
		return msgImageMode
	case storage.ModeAudio:
		return msgAudioMode
	default:
		return warnNoMode
	}
}

func (d *Dispatcher) countEvent(kind EventKind) {
	if d.metrics != nil {
		d.metrics.Events.WithLabelValues(kind.String()).Inc()
	}
}

func (d *Dispatcher) countProviderError(pe *core.ProviderError) {
	if d.metrics != nil {
		d.metrics.ProviderErrors.WithLabelValues(pe.Provider, string(pe.Code)).Inc()
	}
}

func (d *Dispatcher) observeLatency(provider string, start time.Time) {
	if d.metrics != nil {
		d.metrics.ObserveProviderLatency(provider, time.Since(start))
	}
}

func (d *Dispatcher) gaugeSessions() {
	if d.metrics != nil {
		d.metrics.ActiveSessions.Set(float64(d.store.Len()))
	}
}
