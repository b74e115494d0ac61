package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	defaultElevenLabsBaseURL = "https://api.elevenlabs.io"
	elevenLabsModel          = "eleven_multilingual_v2"
)

// ElevenLabs synthesizes speech via the ElevenLabs HTTP API and stores the
// resulting mp3 in a local directory served under /audio, returning the
// public URL the telephony provider will fetch.
type ElevenLabs struct {
	apiKey  string
	voiceID string
	baseURL string

	audioDir      string
	publicBaseURL string

	http *http.Client
}

type ElevenLabsOption func(*ElevenLabs)

// WithBaseURL overrides the API endpoint (tests).
func WithBaseURL(u string) ElevenLabsOption {
	return func(e *ElevenLabs) { e.baseURL = u }
}

// NewElevenLabs prepares the client and makes sure the audio directory
// exists so the static file route can serve from it.
func NewElevenLabs(apiKey, voiceID, audioDir, publicBaseURL string, opts ...ElevenLabsOption) (*ElevenLabs, error) {
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return nil, fmt.Errorf("speech: create audio dir: %w", err)
	}
	e := &ElevenLabs{
		apiKey:        apiKey,
		voiceID:       voiceID,
		baseURL:       defaultElevenLabsBaseURL,
		audioDir:      audioDir,
		publicBaseURL: publicBaseURL,
		http:          &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

type ttsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(ttsRequest{Text: text, ModelID: elevenLabsModel})
	if err != nil {
		return "", fmt.Errorf("speech: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", e.baseURL, e.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("speech: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech: non-OK status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("speech: read audio: %w", err)
	}

	name := uuid.NewString() + ".mp3"
	if err := os.WriteFile(filepath.Join(e.audioDir, name), audio, 0o644); err != nil {
		return "", fmt.Errorf("speech: write audio file: %w", err)
	}
	return e.publicBaseURL + "/audio/" + name, nil
}
