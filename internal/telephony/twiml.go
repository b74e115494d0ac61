package telephony

import (
	"bytes"
	"encoding/xml"
	"errors"
)

// TwiML is a minimal Twilio Markup Language response builder.
// It intentionally avoids any provider SDK dependency.
//
// Only include primitives we need at the adapter boundary: speak a prompt
// (Play or Say), then either listen again (Gather) or stop (Hangup).

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlPlay struct {
	XMLName xml.Name `xml:"Play"`
	URL     string   `xml:",chardata"`
}

type twimlSay struct {
	XMLName  xml.Name `xml:"Say"`
	Language string   `xml:"language,attr"`
	Voice    string   `xml:"voice,attr"`
	Text     string   `xml:",chardata"`
}

type twimlGather struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr"`
	Action        string   `xml:"action,attr"`
	Language      string   `xml:"language,attr"`
	SpeechTimeout string   `xml:"speechTimeout,attr,omitempty"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// VoicePrompt describes one call step: what to speak and what happens next.
type VoicePrompt struct {
	// AudioURL is preferred when set; Text is the provider-side TTS fallback.
	AudioURL string
	Text     string

	// Language and Voice configure the Say fallback.
	Language string
	Voice    string

	// GatherAction is the URL speech results are posted to. Required unless
	// Hangup is set.
	GatherAction string

	// SpeechTimeout, when set, is passed through to the Gather verb.
	SpeechTimeout string

	// Hangup ends the call after the prompt instead of gathering speech.
	Hangup bool
}

// RenderVoiceTwiML maps a VoicePrompt to TwiML. Every rendered document
// advances the call exactly one step.
func RenderVoiceTwiML(p VoicePrompt) (string, error) {
	var r twimlResponse

	if p.AudioURL != "" {
		r.Verbs = append(r.Verbs, twimlPlay{URL: p.AudioURL})
	} else {
		r.Verbs = append(r.Verbs, twimlSay{Language: p.Language, Voice: p.Voice, Text: p.Text})
	}

	if p.Hangup {
		r.Verbs = append(r.Verbs, twimlHangup{})
	} else {
		if p.GatherAction == "" {
			return "", errors.New("telephony: gather action required unless hanging up")
		}
		r.Verbs = append(r.Verbs, twimlGather{
			Input:         "speech",
			Action:        p.GatherAction,
			Language:      p.Language,
			SpeechTimeout: p.SpeechTimeout,
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
