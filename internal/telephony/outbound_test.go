package telephony

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTwilioCaller_PlaceCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/2010-04-01/Accounts/AC123/Calls.json") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "tok" {
			t.Errorf("basic auth not set correctly")
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostFormValue("To"); got != "+905551112233" {
			t.Errorf("unexpected To: %q", got)
		}
		if got := r.PostFormValue("Url"); !strings.Contains(got, "/twiml/start") {
			t.Errorf("unexpected Url: %q", got)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"CA999"}`))
	}))
	defer srv.Close()

	c := NewTwilioCaller("AC123", "tok", WithBaseURL(srv.URL))
	sid, err := c.PlaceCall(context.Background(), "+905551112233", "+15005550006", "https://example.ngrok.io/twiml/start?sid=x")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sid != "CA999" {
		t.Fatalf("unexpected sid: %q", sid)
	}
}

func TestTwilioCaller_RejectionIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"unverified number"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewTwilioCaller("AC123", "tok", WithBaseURL(srv.URL))
	if _, err := c.PlaceCall(context.Background(), "+1", "+2", "https://x"); err == nil {
		t.Fatalf("expected error on provider rejection")
	}
}
