package bot

import (
	"hypergram/ai"
)

// MenuButton is one inline keyboard button; Data is the callback payload.
type MenuButton struct {
	Label string
	Data  string
}

// Menu is rendered by the transport as an inline keyboard, one row per slice.
type Menu [][]MenuButton

func mainMenu() Menu {
	return Menu{
		{{Label: "Chat AI", Data: cbModeChat}},
		{{Label: "Generate Image", Data: cbModeImage}},
		{{Label: "Generate Audio", Data: cbModeAudio}},
		{
			{Label: "Text Model", Data: cbTextModelMenu},
			{Label: "Image Model", Data: cbImageModelMenu},
			{Label: "Voice", Data: cbVoiceMenu},
		},
	}
}

func textModelMenu() Menu {
	menu := make(Menu, 0, len(ai.TextModels))
	for _, model := range ai.TextModels {
		menu = append(menu, []MenuButton{{Label: model.Name, Data: cbTextModel + model.Value}})
	}
	return menu
}

func imageModelMenu() Menu {
	menu := make(Menu, 0, len(ai.ImageModels))
	for _, model := range ai.ImageModels {
		menu = append(menu, []MenuButton{{Label: model.Name, Data: cbImageModel + model.Value}})
	}
	return menu
}

func voiceMenu() Menu {
	menu := make(Menu, 0, len(ai.Voices))
	for _, voice := range ai.Voices {
		menu = append(menu, []MenuButton{{
			Label: voice.Language + " / " + voice.Speaker,
			Data:  cbVoice + voice.Language + ":" + voice.Speaker,
		}})
	}
	return menu
}
