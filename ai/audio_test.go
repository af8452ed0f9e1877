package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hypergram/core"
)

func TestGenerateSpeechDecodesAudio(t *testing.T) {
	var request AudioRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{"audio":"QUJD"}`))
	}))
	defer server.Close()

	audio := NewAudio(testConfig(server.URL), testLogger())
	raw, err := audio.GenerateSpeech(context.Background(), core.SpeechRequest{
		Text:     "good morning",
		Language: "EN",
		Speaker:  "EN-US",
	})
	if err != nil {
		t.Fatalf("GenerateSpeech() error = %v", err)
	}
	if !bytes.Equal(raw, []byte("ABC")) {
		t.Fatalf("decoded bytes = %q", raw)
	}

	if request.Text != "good morning" || request.Language != "EN" || request.Speaker != "EN-US" {
		t.Fatalf("unexpected payload: %+v", request)
	}
	if request.Speed != 1.0 || request.Pitch != 1.0 || request.Volume != 1.0 {
		t.Fatalf("prosody params = %v/%v/%v", request.Speed, request.Pitch, request.Volume)
	}
}

func TestGenerateSpeechNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	audio := NewAudio(testConfig(server.URL), testLogger())
	_, err := audio.GenerateSpeech(context.Background(), core.SpeechRequest{Text: "hi"})

	var pe *core.ProviderError
	if !errors.As(err, &pe) || pe.Code != core.CodeNoAudioData {
		t.Fatalf("GenerateSpeech() error = %v, want no_audio_data", err)
	}
}
