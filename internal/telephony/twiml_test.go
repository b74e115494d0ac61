package telephony

import (
	"strings"
	"testing"
)

func TestRenderVoiceTwiML_PlayWithGather(t *testing.T) {
	xml, err := RenderVoiceTwiML(VoicePrompt{
		AudioURL:      "https://example.ngrok.io/audio/a.mp3",
		Text:          "fallback",
		Language:      "tr-TR",
		Voice:         "Polly.Filiz",
		GatherAction:  "https://example.ngrok.io/twiml/turn",
		SpeechTimeout: "auto",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, want := range []string{
		"<Play>https://example.ngrok.io/audio/a.mp3</Play>",
		`input="speech"`,
		`action="https://example.ngrok.io/twiml/turn"`,
		`speechTimeout="auto"`,
	} {
		if !strings.Contains(xml, want) {
			t.Fatalf("expected %q in xml:\n%s", want, xml)
		}
	}
	if strings.Contains(xml, "<Say") {
		t.Fatalf("audio prompt must not also render Say:\n%s", xml)
	}
	if strings.Contains(xml, "<Hangup") {
		t.Fatalf("continue prompt must not hang up:\n%s", xml)
	}
}

func TestRenderVoiceTwiML_SayFallback(t *testing.T) {
	xml, err := RenderVoiceTwiML(VoicePrompt{
		Text:         "Merhaba",
		Language:     "tr-TR",
		Voice:        "Polly.Filiz",
		GatherAction: "https://example.ngrok.io/twiml/turn",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(xml, `<Say language="tr-TR" voice="Polly.Filiz">Merhaba</Say>`) {
		t.Fatalf("expected Say verb with attrs:\n%s", xml)
	}
}

func TestRenderVoiceTwiML_HangupOmitsGather(t *testing.T) {
	xml, err := RenderVoiceTwiML(VoicePrompt{
		Text:     "Görüşürüz",
		Language: "tr-TR",
		Voice:    "Polly.Filiz",
		Hangup:   true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(xml, "<Hangup") {
		t.Fatalf("expected Hangup verb:\n%s", xml)
	}
	if strings.Contains(xml, "<Gather") {
		t.Fatalf("hangup must omit Gather:\n%s", xml)
	}
}

func TestRenderVoiceTwiML_GatherActionRequired(t *testing.T) {
	if _, err := RenderVoiceTwiML(VoicePrompt{Text: "x"}); err == nil {
		t.Fatalf("expected error when continuing without gather action")
	}
}
