package speech

import (
	"context"
	"errors"
)

// Synthesizer turns reply text into a fetchable audio URL. Failures are
// expected and non-fatal: callers fall back to provider-side text-to-speech.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// ErrUnavailable is returned when synthesis is not configured.
var ErrUnavailable = errors.New("speech: synthesis not configured")

// Disabled is the Synthesizer used when no API key is configured; every call
// reports ErrUnavailable so rendering falls back to spoken text.
type Disabled struct{}

func (Disabled) Synthesize(ctx context.Context, text string) (string, error) {
	return "", ErrUnavailable
}
