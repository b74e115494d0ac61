package calls

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"kairos-voice/internal/directory"
	"kairos-voice/internal/llm"
	"kairos-voice/internal/session"
)

type fakeCaller struct {
	sid string
	err error

	gotTo, gotFrom, gotURL string
}

func (f *fakeCaller) PlaceCall(ctx context.Context, to, from, callbackURL string) (string, error) {
	f.gotTo = to
	f.gotFrom = from
	f.gotURL = callbackURL
	if f.err != nil {
		return "", f.err
	}
	return f.sid, nil
}

type fakeSynth struct {
	url string
	err error
}

func (f fakeSynth) Synthesize(ctx context.Context, text string) (string, error) {
	return f.url, f.err
}

func seedDirectory() *directory.MemoryRepo {
	r := directory.NewMemoryRepo()
	r.Businesses = append(r.Businesses, directory.Business{
		ID:   "b1",
		Name: "Salon Kairos",
		Services: []directory.Service{
			{ID: "1", Name: "Haircut", Price: 100},
		},
	})
	return r
}

func TestInitiate_RegistersSessionBeforePlacingCall(t *testing.T) {
	st := session.NewStore(time.Minute)
	caller := &fakeCaller{sid: "CA1"}
	init := NewInitiator(st, seedDirectory(), caller, fakeSynth{url: "https://example.ngrok.io/audio/g.mp3"},
		"https://example.ngrok.io", "+15005550006", time.UTC, nil)

	res, err := init.Initiate(context.Background(), InitiateRequest{
		Phone:        "05551112233",
		CustomerName: "Ayşe",
		BusinessID:   "b1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.BusinessName != "Salon Kairos" || res.CallSID != "CA1" {
		t.Fatalf("unexpected result: %+v", res)
	}

	if caller.gotTo != "+905551112233" {
		t.Fatalf("expected normalized destination, got %q", caller.gotTo)
	}
	if caller.gotFrom != "+15005550006" {
		t.Fatalf("unexpected origin: %q", caller.gotFrom)
	}

	u, err := url.Parse(caller.gotURL)
	if err != nil {
		t.Fatalf("bad callback url %q: %v", caller.gotURL, err)
	}
	if u.Path != "/twiml/start" {
		t.Fatalf("unexpected callback path: %q", u.Path)
	}
	q := u.Query()
	if q.Get("sid") != res.SessionID {
		t.Fatalf("callback url must carry the session id")
	}
	if q.Get("audio") != "https://example.ngrok.io/audio/g.mp3" {
		t.Fatalf("callback url missing audio: %q", caller.gotURL)
	}
	if !strings.Contains(q.Get("text"), "Merhaba Ayşe") {
		t.Fatalf("callback url missing greeting text: %q", q.Get("text"))
	}

	s, err := st.Get(res.SessionID)
	if err != nil {
		t.Fatalf("session not registered: %v", err)
	}
	if len(s.Messages) != 2 || s.Messages[0].Role != llm.RoleSystem || s.Messages[1].Role != llm.RoleAssistant {
		t.Fatalf("unexpected initial transcript: %+v", s.Messages)
	}
	if len(s.Services) != 1 || s.Services[0].Price != 100 {
		t.Fatalf("catalog not captured on session: %+v", s.Services)
	}
}

func TestInitiate_SynthesisFailureOmitsAudioParam(t *testing.T) {
	st := session.NewStore(time.Minute)
	caller := &fakeCaller{sid: "CA1"}
	init := NewInitiator(st, seedDirectory(), caller, fakeSynth{err: errors.New("tts down")},
		"https://example.ngrok.io", "+15005550006", time.UTC, nil)

	if _, err := init.Initiate(context.Background(), InitiateRequest{
		Phone: "05551112233", CustomerName: "Ayşe", BusinessID: "b1",
	}); err != nil {
		t.Fatalf("synthesis failure must not fail initiation: %v", err)
	}

	u, _ := url.Parse(caller.gotURL)
	if u.Query().Get("audio") != "" {
		t.Fatalf("expected no audio param, got %q", u.Query().Get("audio"))
	}
	if u.Query().Get("text") == "" {
		t.Fatalf("expected text fallback in callback url")
	}
}

func TestInitiate_UnknownBusiness(t *testing.T) {
	st := session.NewStore(time.Minute)
	init := NewInitiator(st, directory.NewMemoryRepo(), &fakeCaller{sid: "CA1"}, fakeSynth{},
		"https://example.ngrok.io", "+15005550006", time.UTC, nil)

	_, err := init.Initiate(context.Background(), InitiateRequest{
		Phone: "05551112233", CustomerName: "Ayşe", BusinessID: "missing",
	})
	if !errors.Is(err, ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("no session should be registered on failure")
	}
}

func TestInitiate_ProviderRejectionCleansUpSession(t *testing.T) {
	st := session.NewStore(time.Minute)
	caller := &fakeCaller{err: errors.New("unverified number")}
	init := NewInitiator(st, seedDirectory(), caller, fakeSynth{},
		"https://example.ngrok.io", "+15005550006", time.UTC, nil)

	_, err := init.Initiate(context.Background(), InitiateRequest{
		Phone: "05551112233", CustomerName: "Ayşe", BusinessID: "b1",
	})
	if !errors.Is(err, ErrCallRejected) {
		t.Fatalf("expected ErrCallRejected, got %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("session must be removed when the provider rejects the call")
	}
}

func TestInitiate_BadPhone(t *testing.T) {
	st := session.NewStore(time.Minute)
	init := NewInitiator(st, seedDirectory(), &fakeCaller{sid: "CA1"}, fakeSynth{},
		"https://example.ngrok.io", "+15005550006", time.UTC, nil)

	if _, err := init.Initiate(context.Background(), InitiateRequest{
		Phone: "abc", CustomerName: "Ayşe", BusinessID: "b1",
	}); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}
