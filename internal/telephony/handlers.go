package telephony

import (
	"context"
	"net/http"
	"net/url"

	"kairos-voice/internal/conversation"
	"kairos-voice/internal/speech"
	"kairos-voice/pkg/logger"

	"github.com/gin-gonic/gin"
)

// defaultUtterance stands in when the provider posts no speech result, so
// the model still receives a turn to react to.
const defaultUtterance = "Duyamadım"

// TurnRunner advances one call session by one turn.
type TurnRunner interface {
	HandleTurn(ctx context.Context, callID, transcript string) conversation.Reply
}

// WebhookHandler serves the two provider callbacks: the start callback that
// speaks the greeting, and the turn callback that runs the conversation
// loop. It converts webhook payloads to internal types and writes TwiML;
// no conversation logic lives here.
type WebhookHandler struct {
	Turns  TurnRunner
	Speech speech.Synthesizer

	// GatherActionURL is the absolute URL of the turn callback.
	GatherActionURL string

	Language string
	Voice    string
}

// HandleStart handles the first provider fetch after the call connects.
// The greeting arrives in the query string (pre-synthesized audio URL plus
// raw text fallback); no session access is needed here.
func (h WebhookHandler) HandleStart(c *gin.Context) {
	log := logger.FromGin(c)

	audio := c.Query("audio")
	text := c.Query("text")

	xml, err := RenderVoiceTwiML(VoicePrompt{
		AudioURL:      audio,
		Text:          text,
		Language:      h.Language,
		Voice:         h.Voice,
		GatherAction:  h.gatherAction(c.Query("sid")),
		SpeechTimeout: "auto",
	})
	if err != nil {
		log.Error("twiml render failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "twiml failed"})
		return
	}

	c.Header("Content-Type", "application/xml")
	c.String(http.StatusOK, xml)
}

// HandleTurn handles one speech result callback: run the turn, synthesize
// the reply, and answer with speak-then-gather or speak-then-hangup.
func (h WebhookHandler) HandleTurn(c *gin.Context) {
	log := logger.FromGin(c)

	callID := c.Query("sid")
	if callID == "" {
		callID = c.PostForm("CallSid")
	}
	transcript := c.PostForm("SpeechResult")
	if transcript == "" {
		transcript = defaultUtterance
	}

	reply := h.Turns.HandleTurn(c.Request.Context(), callID, transcript)

	// Synthesis failure falls back to provider-side TTS; it never blocks the
	// reply.
	audioURL, err := h.Speech.Synthesize(c.Request.Context(), reply.Text)
	if err != nil {
		audioURL = ""
	}

	xml, err := RenderVoiceTwiML(VoicePrompt{
		AudioURL:     audioURL,
		Text:         reply.Text,
		Language:     h.Language,
		Voice:        h.Voice,
		GatherAction: h.gatherAction(c.Query("sid")),
		Hangup:       reply.Hangup,
	})
	if err != nil {
		log.Error("twiml render failed", "call_id", callID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "twiml failed"})
		return
	}

	c.Header("Content-Type", "application/xml")
	c.String(http.StatusOK, xml)
}

// gatherAction threads the engine-assigned session id through the callback
// loop, so turns correlate even before the provider call id is known.
func (h WebhookHandler) gatherAction(sid string) string {
	if sid == "" {
		return h.GatherActionURL
	}
	return h.GatherActionURL + "?sid=" + url.QueryEscape(sid)
}
