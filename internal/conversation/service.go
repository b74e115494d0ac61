// Package conversation advances a call session one turn at a time: caller
// transcript in, next spoken prompt plus a continue-or-terminate signal out.
package conversation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"kairos-voice/internal/booking"
	"kairos-voice/internal/directive"
	"kairos-voice/internal/llm"
	"kairos-voice/internal/session"
)

// Fixed fallback prompts. A caller should never hear silence: inference
// failures ask for a repeat, a missing session ends the call politely.
const (
	fallbackRepeat = "Tekrar eder misiniz?"
	fallbackGone   = "Bağlantı koptu."
)

const calendarTimeout = 15 * time.Second

// CalendarNotifier is the fire-and-forget calendar contract.
type CalendarNotifier interface {
	Notify(ctx context.Context, localDateTime, customerName, customerPhone, businessName string) error
}

// Reply is one turn's outcome.
type Reply struct {
	Text   string
	Hangup bool
}

// Service is the turn controller. It owns session transcript mutation and
// the booking side effects a turn can trigger.
type Service struct {
	store        *session.Store
	llm          llm.Completer
	appointments booking.Repository
	calendar     CalendarNotifier // nil disables calendar events
	log          *slog.Logger
}

func NewService(store *session.Store, completer llm.Completer, appointments booking.Repository, calendar CalendarNotifier, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:        store,
		llm:          completer,
		appointments: appointments,
		calendar:     calendar,
		log:          log,
	}
}

// HandleTurn runs one caller-utterance → reply cycle.
//
// The turn is computed against a snapshot and committed atomically: on any
// failure before the commit the transcript is untouched, so a failed turn
// never leaves a dangling user or partial assistant entry behind.
func (s *Service) HandleTurn(ctx context.Context, callID, transcript string) Reply {
	snap, err := s.store.Get(callID)
	if err != nil {
		s.log.Warn("turn for unknown session", "call_id", callID)
		return Reply{Text: fallbackGone, Hangup: true}
	}

	userMsg := llm.User(transcript)
	prompt := append(append([]llm.Message(nil), snap.Messages...), userMsg)

	completion, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.log.Error("inference failed", "call_id", callID, "err", err)
		return Reply{Text: fallbackRepeat, Hangup: false}
	}

	res := directive.Extract(completion)

	if res.Booking != nil {
		if err := s.handleBooking(ctx, snap, *res.Booking); err != nil {
			s.log.Error("booking failed", "call_id", callID, "err", err)
			return Reply{Text: fallbackRepeat, Hangup: false}
		}
	}

	assistantMsg := llm.Assistant(res.Text)
	if err := s.store.Mutate(callID, func(cs *session.CallSession) {
		cs.Messages = append(cs.Messages, userMsg, assistantMsg)
	}); err != nil {
		// Session evicted between snapshot and commit; end the call.
		s.log.Warn("session vanished mid-turn", "call_id", callID)
		return Reply{Text: fallbackGone, Hangup: true}
	}

	if res.Terminate {
		s.store.Delete(callID)
	}
	return Reply{Text: res.Text, Hangup: res.Terminate}
}

// handleBooking resolves the service against the session catalog, persists
// the appointment, and kicks off the calendar notification. An unknown
// service id books at price 0 rather than failing the turn; only the
// appointment write itself can fail the booking.
func (s *Service) handleBooking(ctx context.Context, snap session.CallSession, b directive.Booking) error {
	var price int64
	for _, svc := range snap.Services {
		if svc.ID == b.ServiceID {
			price = svc.Price
			break
		}
	}

	date, clock, _ := strings.Cut(b.Date, " ")

	appt := booking.Appointment{
		BusinessID:    snap.BusinessID,
		CustomerID:    snap.CustomerID,
		CustomerName:  snap.CustomerName,
		CustomerPhone: snap.CustomerPhone,
		Date:          date,
		Time:          clock,
		ServiceID:     b.ServiceID,
		Price:         price,
		Status:        booking.StatusConfirmed,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return err
	}

	if s.calendar != nil {
		// Calendar latency or failure must not delay or fail the spoken
		// reply. The goroutine carries its own deadline, not the request
		// context.
		go func(b directive.Booking, snap session.CallSession) {
			nctx, cancel := context.WithTimeout(context.Background(), calendarTimeout)
			defer cancel()
			if err := s.calendar.Notify(nctx, b.Date, snap.CustomerName, snap.CustomerPhone, snap.BusinessName); err != nil {
				s.log.Warn("calendar notify failed", "business_id", snap.BusinessID, "err", err)
			}
		}(b, snap)
	}
	return nil
}
