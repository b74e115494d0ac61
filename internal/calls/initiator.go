// Package calls starts outbound conversations: business context lookup,
// customer resolution, session construction, and call placement.
package calls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"kairos-voice/internal/conversation"
	"kairos-voice/internal/directory"
	"kairos-voice/internal/llm"
	"kairos-voice/internal/session"
	"kairos-voice/internal/speech"
	"kairos-voice/internal/telephony"

	"github.com/google/uuid"
)

var (
	ErrBusinessNotFound = errors.New("calls: business not found")
	ErrCallRejected     = errors.New("calls: provider rejected the call")
)

// InitiateRequest is the operator-facing call request.
type InitiateRequest struct {
	Phone        string `json:"phone" binding:"required"`
	CustomerName string `json:"customer_name" binding:"required"`
	BusinessID   string `json:"business_id" binding:"required"`
}

// InitiateResult reports a successfully placed call.
type InitiateResult struct {
	BusinessName string
	SessionID    string
	CallSID      string
}

// Initiator builds the initial session and requests the outbound call.
type Initiator struct {
	store     *session.Store
	directory directory.Repository
	caller    telephony.Caller
	speech    speech.Synthesizer

	publicBaseURL string
	fromNumber    string

	clock func() time.Time
	loc   *time.Location
	log   *slog.Logger
}

func NewInitiator(
	store *session.Store,
	dir directory.Repository,
	caller telephony.Caller,
	synth speech.Synthesizer,
	publicBaseURL, fromNumber string,
	loc *time.Location,
	log *slog.Logger,
) *Initiator {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &Initiator{
		store:         store,
		directory:     dir,
		caller:        caller,
		speech:        synth,
		publicBaseURL: publicBaseURL,
		fromNumber:    fromNumber,
		clock:         time.Now,
		loc:           loc,
		log:           log,
	}
}

// Initiate normalizes the destination, assembles the session, registers it
// before the call is requested (the first callback must always find it), and
// places the call. Every failure comes back as an error for the handler to
// shape into a structured response; nothing here aborts the process.
func (i *Initiator) Initiate(ctx context.Context, req InitiateRequest) (InitiateResult, error) {
	phone, err := NormalizePhone(req.Phone)
	if err != nil {
		return InitiateResult{}, err
	}

	biz, err := i.directory.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return InitiateResult{}, ErrBusinessNotFound
		}
		return InitiateResult{}, fmt.Errorf("calls: business lookup: %w", err)
	}

	// Customer resolution is best-effort: a directory failure costs us the
	// customer id on the appointment, not the call.
	customerID := ""
	if cust, err := i.directory.GetOrCreateCustomer(ctx, phone, req.CustomerName); err != nil {
		i.log.Warn("customer resolution failed", "phone", phone, "err", err)
	} else {
		customerID = cust.ID
	}

	greeting := conversation.Greeting(req.CustomerName, biz.Name)

	// Pre-synthesize the greeting; on failure the start callback speaks the
	// raw text instead.
	audioURL, err := i.speech.Synthesize(ctx, greeting)
	if err != nil {
		audioURL = ""
	}

	sessionID := uuid.NewString()
	s := session.CallSession{
		BusinessID:    biz.ID,
		BusinessName:  biz.Name,
		CustomerID:    customerID,
		CustomerName:  req.CustomerName,
		CustomerPhone: phone,
		Services:      biz.Services,
		Messages: []llm.Message{
			llm.System(conversation.SystemPrompt(biz.Name, biz.Services, i.clock(), i.loc)),
			llm.Assistant(greeting),
		},
	}
	if err := i.store.Create(sessionID, s); err != nil {
		return InitiateResult{}, fmt.Errorf("calls: register session: %w", err)
	}

	callSID, err := i.caller.PlaceCall(ctx, phone, i.fromNumber, i.startURL(sessionID, audioURL, greeting))
	if err != nil {
		// The session never had a call; drop it instead of waiting for the sweeper.
		i.store.Delete(sessionID)
		return InitiateResult{}, fmt.Errorf("%w: %v", ErrCallRejected, err)
	}

	i.log.Info("outbound call placed",
		"business_id", biz.ID,
		"session_id", sessionID,
		"call_sid", callSID,
	)
	return InitiateResult{BusinessName: biz.Name, SessionID: sessionID, CallSID: callSID}, nil
}

func (i *Initiator) startURL(sessionID, audioURL, greeting string) string {
	q := url.Values{}
	q.Set("sid", sessionID)
	if audioURL != "" {
		q.Set("audio", audioURL)
	}
	q.Set("text", greeting)
	return i.publicBaseURL + "/twiml/start?" + q.Encode()
}
