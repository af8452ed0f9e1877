package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"hypergram/core"
	"hypergram/lib/sl"
)

// api is the one piece of machinery all three clients share: POST a JSON
// payload with the bearer credential, bounded by the configured timeout,
// and decode the JSON reply. Non-success statuses and timeouts come back
// as *core.ProviderError.
type api struct {
	client  *http.Client
	key     string
	timeout time.Duration
	log     *slog.Logger
}

func newAPI(conf *core.Config, log *slog.Logger) *api {
	return &api{
		client:  &http.Client{},
		key:     conf.APIKey,
		timeout: conf.RequestTimeout,
		log:     log,
	}
}

func (a *api) postJSON(ctx context.Context, provider, url string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.key)

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &core.ProviderError{Provider: provider, Code: core.CodeTimeout, Message: "request timed out"}
		}
		return &core.ProviderError{Provider: provider, Code: core.CodeHTTP, Message: err.Error()}
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			a.log.Error("closing response body", sl.Err(err))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		a.log.With(
			slog.String("provider", provider),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		).Debug("provider rejected request")
		return &core.ProviderError{
			Provider: provider,
			Code:     core.CodeHTTP,
			Status:   resp.StatusCode,
			Message:  resp.Status,
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
