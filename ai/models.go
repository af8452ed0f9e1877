package ai

// Preset is one selectable provider-side model.
type Preset struct {
	Name  string
	Value string
}

var TextModels = []Preset{
	{Name: "Qwen/QwQ-32B", Value: "Qwen/QwQ-32B"},
	{Name: "DeepSeek-R1", Value: "deepseek-ai/DeepSeek-R1"},
	{Name: "Llama-3.3-70B", Value: "meta-llama/Llama-3.3-70B-Instruct"},
	{Name: "Qwen2.5-72B", Value: "Qwen/Qwen2.5-72B-Instruct"},
}

var ImageModels = []Preset{
	{Name: "FLUX.1-dev", Value: "FLUX.1-dev"},
	{Name: "SDXL1.0-base", Value: "SDXL1.0-base"},
	{Name: "SSD", Value: "SSD"},
	{Name: "SD2", Value: "SD2"},
}

// Voice is a language/speaker pair accepted by the audio service.
type Voice struct {
	Language string
	Speaker  string
}

var Voices = []Voice{
	{Language: "EN", Speaker: "EN-US"},
	{Language: "EN", Speaker: "EN-BR"},
	{Language: "ES", Speaker: "ES"},
	{Language: "FR", Speaker: "FR"},
	{Language: "ZH", Speaker: "ZH"},
}

const (
	DefaultTextModel  = "Qwen/QwQ-32B"
	DefaultImageModel = "SDXL1.0-base"
	DefaultLanguage   = "EN"
	DefaultSpeaker    = "EN-US"
)

func TextModelOrDefault(model string) string {
	if model == "" {
		return DefaultTextModel
	}
	return model
}

func ImageModelOrDefault(model string) string {
	if model == "" {
		return DefaultImageModel
	}
	return model
}

func VoiceOrDefault(language, speaker string) (string, string) {
	if language == "" {
		language = DefaultLanguage
	}
	if speaker == "" {
		speaker = DefaultSpeaker
	}
	return language, speaker
}
