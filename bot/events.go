package bot

import (
	"strings"

	"hypergram/storage"
)

type EventKind int

const (
	EventUnknown EventKind = iota
	EventStart
	EventHelp
	EventMode
	EventTextModelMenu
	EventImageModelMenu
	EventVoiceMenu
	EventTextModel
	EventImageModel
	EventVoice
	EventMessage
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventHelp:
		return "help"
	case EventMode:
		return "mode"
	case EventTextModelMenu:
		return "text_model_menu"
	case EventImageModelMenu:
		return "image_model_menu"
	case EventVoiceMenu:
		return "voice_menu"
	case EventTextModel:
		return "text_model"
	case EventImageModel:
		return "image_model"
	case EventVoice:
		return "voice"
	case EventMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Event is one decoded inbound chat event. Callback payloads are parsed
// exactly once, here; the dispatcher never sees raw callback strings.
type Event struct {
	Kind   EventKind
	ChatID int64
	Mode   storage.Mode
	Value  string // selected model for text_model/image_model events
	Lang   string // selected language for voice events
	Text   string // free text for message events
}

// callback payload prefixes, shared with the menu builders
const (
	cbModeChat       = "mode_chat"
	cbModeImage      = "mode_image"
	cbModeAudio      = "mode_audio"
	cbTextModelMenu  = "select_text_model"
	cbImageModelMenu = "select_image_model"
	cbVoiceMenu      = "select_voice"
	cbTextModel      = "text_model_"
	cbImageModel     = "image_model_"
	cbVoice          = "voice_"
)

// decodeCallback turns a menu-button payload into a typed event.
func decodeCallback(chatID int64, data string) Event {
	ev := Event{ChatID: chatID}

	switch data {
	case cbModeChat:
		ev.Kind, ev.Mode = EventMode, storage.ModeChat
		return ev
	case cbModeImage:
		ev.Kind, ev.Mode = EventMode, storage.ModeImage
		return ev
	case cbModeAudio:
		ev.Kind, ev.Mode = EventMode, storage.ModeAudio
		return ev
	case cbTextModelMenu:
		ev.Kind = EventTextModelMenu
		return ev
	case cbImageModelMenu:
		ev.Kind = EventImageModelMenu
		return ev
	case cbVoiceMenu:
		ev.Kind = EventVoiceMenu
		return ev
	}

	switch {
	case strings.HasPrefix(data, cbTextModel):
		ev.Kind = EventTextModel
		ev.Value = strings.TrimPrefix(data, cbTextModel)
	case strings.HasPrefix(data, cbImageModel):
		ev.Kind = EventImageModel
		ev.Value = strings.TrimPrefix(data, cbImageModel)
	case strings.HasPrefix(data, cbVoice):
		// payload shape: voice_<language>:<speaker>
		lang, speaker, found := strings.Cut(strings.TrimPrefix(data, cbVoice), ":")
		if !found || lang == "" || speaker == "" {
			return ev
		}
		ev.Kind = EventVoice
		ev.Lang = lang
		ev.Value = speaker
	}
	return ev
}
