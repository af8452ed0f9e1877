package core

import (
	"errors"
	"fmt"
)

// User input problems, answered with a short instruction and nothing else.
var (
	ErrEmptyInput = errors.New("empty input")
	ErrNoMode     = errors.New("no mode selected")
)

type ErrorCode string

const (
	CodeHTTP          ErrorCode = "http"
	CodeTimeout       ErrorCode = "timeout"
	CodeEmptyResponse ErrorCode = "empty_response"
	CodeNoImageData   ErrorCode = "no_image_data"
	CodeNoAudioData   ErrorCode = "no_audio_data"
)

// ProviderError describes a failed call to one of the AI services. The
// detail is for logs only; users get a generic message with a correlation id.
type ProviderError struct {
	Provider string
	Code     ErrorCode
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (%d): %s", e.Provider, e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, e.Message)
}
