package ai

import (
	"context"
	"log/slog"

	"hypergram/core"
	"hypergram/lib/sl"
)

const providerChat = "chat"

// Chat calls the chat-completions endpoint.
type Chat struct {
	api *api
	url string
	log *slog.Logger
}

func NewChat(conf *core.Config, log *slog.Logger) *Chat {
	log = log.With(sl.Module("ai-chat"))
	return &Chat{
		api: newAPI(conf, log),
		url: conf.CompletionsURL + "/chat/completions",
		log: log,
	}
}

func (c *Chat) Complete(ctx context.Context, model, prompt string) (string, error) {
	var completion ChatCompletion
	if err := c.api.postJSON(ctx, providerChat, c.url, NewCompletionRequest(model, prompt), &completion); err != nil {
		return "", err
	}

	c.log.With(
		slog.String("model", completion.Model),
		slog.Int("choices", len(completion.Choices)),
	).Info("chat completion")

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", &core.ProviderError{Provider: providerChat, Code: core.CodeEmptyResponse, Message: "no completion content"}
	}
	return completion.Choices[0].Message.Content, nil
}
