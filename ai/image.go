package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"hypergram/core"
	"hypergram/lib/sl"
)

const providerImage = "image"

type ImageRequest struct {
	ModelName     string             `json:"model_name"`
	Prompt        string             `json:"prompt"`
	Height        int                `json:"height"`
	Width         int                `json:"width"`
	Steps         int                `json:"steps"`
	CfgScale      float64            `json:"cfg_scale"`
	EnableRefiner bool               `json:"enable_refiner"`
	Backend       string             `json:"backend"`
	Lora          map[string]float64 `json:"lora"`
}

type ImageResponse struct {
	Images []ImageData `json:"images"`
}

type ImageData struct {
	Image string `json:"image"`
}

func NewImageRequest(model, prompt string) *ImageRequest {
	return &ImageRequest{
		ModelName:     model,
		Prompt:        prompt,
		Height:        1024,
		Width:         1024,
		Steps:         30,
		CfgScale:      5,
		EnableRefiner: false,
		Backend:       "auto",
		Lora: map[string]float64{
			"Pixel_Art":    0.5,
			"Logo":         0.5,
			"Paint_Splash": 0.9,
		},
	}
}

// Image calls the Hyperbolic image generation endpoint.
type Image struct {
	api *api
	url string
	log *slog.Logger
}

func NewImage(conf *core.Config, log *slog.Logger) *Image {
	log = log.With(sl.Module("ai-image"))
	return &Image{
		api: newAPI(conf, log),
		url: conf.HyperbolicURL + "/image/generation",
		log: log,
	}
}

func (i *Image) GenerateImage(ctx context.Context, model, prompt string) ([]byte, error) {
	var response ImageResponse
	if err := i.api.postJSON(ctx, providerImage, i.url, NewImageRequest(model, prompt), &response); err != nil {
		return nil, err
	}

	if len(response.Images) == 0 || response.Images[0].Image == "" {
		return nil, &core.ProviderError{Provider: providerImage, Code: core.CodeNoImageData, Message: "response contains no image"}
	}

	data := response.Images[0].Image
	// the service sometimes wraps the payload in a data URI
	if strings.HasPrefix(data, "data:image") {
		if _, rest, found := strings.Cut(data, ","); found {
			data = rest
		}
	}
	if data == "" {
		return nil, &core.ProviderError{Provider: providerImage, Code: core.CodeNoImageData, Message: "empty image payload"}
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decoding image payload: %w", err)
	}

	i.log.With(
		slog.String("model", model),
		slog.Int("bytes", len(raw)),
	).Info("image generated")
	return raw, nil
}
