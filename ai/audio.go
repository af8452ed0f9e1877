package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"hypergram/core"
	"hypergram/lib/sl"
)

const providerAudio = "audio"

type AudioRequest struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Speaker  string  `json:"speaker"`
	Speed    float64 `json:"speed"`
	Pitch    float64 `json:"pitch"`
	Volume   float64 `json:"volume"`
}

type AudioResponse struct {
	Audio string `json:"audio"`
}

func NewAudioRequest(req core.SpeechRequest) *AudioRequest {
	return &AudioRequest{
		Text:     req.Text,
		Language: req.Language,
		Speaker:  req.Speaker,
		Speed:    1.0,
		Pitch:    1.0,
		Volume:   1.0,
	}
}

// Audio calls the Hyperbolic speech synthesis endpoint.
type Audio struct {
	api *api
	url string
	log *slog.Logger
}

func NewAudio(conf *core.Config, log *slog.Logger) *Audio {
	log = log.With(sl.Module("ai-audio"))
	return &Audio{
		api: newAPI(conf, log),
		url: conf.HyperbolicURL + "/audio/generation",
		log: log,
	}
}

func (a *Audio) GenerateSpeech(ctx context.Context, req core.SpeechRequest) ([]byte, error) {
	var response AudioResponse
	if err := a.api.postJSON(ctx, providerAudio, a.url, NewAudioRequest(req), &response); err != nil {
		return nil, err
	}

	if response.Audio == "" {
		return nil, &core.ProviderError{Provider: providerAudio, Code: core.CodeNoAudioData, Message: "response contains no audio"}
	}

	raw, err := base64.StdEncoding.DecodeString(response.Audio)
	if err != nil {
		return nil, fmt.Errorf("decoding audio payload: %w", err)
	}

	a.log.With(
		slog.String("language", req.Language),
		slog.String("speaker", req.Speaker),
		slog.Int("bytes", len(raw)),
	).Info("speech generated")
	return raw, nil
}
