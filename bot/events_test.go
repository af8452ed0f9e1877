package bot

import (
	"testing"

	"hypergram/storage"
)

func TestDecodeCallback(t *testing.T) {
	cases := []struct {
		data string
		want Event
	}{
		{"mode_chat", Event{Kind: EventMode, ChatID: 9, Mode: storage.ModeChat}},
		{"mode_image", Event{Kind: EventMode, ChatID: 9, Mode: storage.ModeImage}},
		{"mode_audio", Event{Kind: EventMode, ChatID: 9, Mode: storage.ModeAudio}},
		{"select_text_model", Event{Kind: EventTextModelMenu, ChatID: 9}},
		{"select_image_model", Event{Kind: EventImageModelMenu, ChatID: 9}},
		{"select_voice", Event{Kind: EventVoiceMenu, ChatID: 9}},
		{"text_model_deepseek-ai/DeepSeek-R1", Event{Kind: EventTextModel, ChatID: 9, Value: "deepseek-ai/DeepSeek-R1"}},
		{"image_model_FLUX.1-dev", Event{Kind: EventImageModel, ChatID: 9, Value: "FLUX.1-dev"}},
		{"voice_EN:EN-US", Event{Kind: EventVoice, ChatID: 9, Lang: "EN", Value: "EN-US"}},
		{"voice_broken", Event{Kind: EventUnknown, ChatID: 9}},
		{"something_else", Event{Kind: EventUnknown, ChatID: 9}},
		{"", Event{Kind: EventUnknown, ChatID: 9}},
	}

	for _, tc := range cases {
		if got := decodeCallback(9, tc.data); got != tc.want {
			t.Errorf("decodeCallback(%q) = %+v, want %+v", tc.data, got, tc.want)
		}
	}
}

func TestMenusRoundTripThroughDecoder(t *testing.T) {
	for _, menu := range []Menu{mainMenu(), textModelMenu(), imageModelMenu(), voiceMenu()} {
		for _, row := range menu {
			for _, button := range row {
				if ev := decodeCallback(1, button.Data); ev.Kind == EventUnknown {
					t.Errorf("menu button %q does not decode", button.Data)
				}
			}
		}
	}
}
