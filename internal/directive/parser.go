// Package directive extracts structured commands the model embeds in its
// replies. Two markers exist:
//
//	||SAVE||YYYY-MM-DD HH:MM||SERVICE_ID||  book an appointment
//	||HANGUP||                              end the call after this reply
//
// Markers are stripped before the text is spoken. A malformed marker is left
// in the text untouched and yields no directive: the parser never fails a
// turn, the worst case is a silently missed directive.
package directive

import (
	"regexp"
	"strings"
)

const hangupMarker = "||HANGUP||"

var saveMarker = regexp.MustCompile(`\|\|SAVE\|\|(.*?)\|\|(.*?)\|\|`)

// Booking carries the raw fields of a booking marker. Date stays the raw
// "YYYY-MM-DD HH:MM" string; parsing and timezone handling are deferred to
// the booking side effects.
type Booking struct {
	Date      string
	ServiceID string
}

// Result is the outcome of scanning one assistant reply.
type Result struct {
	// Text is the reply with any markers removed, ready to be spoken.
	Text string

	// Booking is nil when no well-formed booking marker was present.
	Booking *Booking

	// Terminate reports whether a hangup marker was present.
	Terminate bool
}

// Extract scans text for booking and termination markers. The two markers
// are independent and may co-occur; text without markers comes back
// byte-for-byte unchanged.
func Extract(text string) Result {
	res := Result{Text: text}
	changed := false

	if m := saveMarker.FindStringSubmatch(res.Text); m != nil {
		res.Booking = &Booking{
			Date:      strings.TrimSpace(m[1]),
			ServiceID: strings.TrimSpace(m[2]),
		}
		res.Text = strings.Replace(res.Text, m[0], "", 1)
		changed = true
	}

	if strings.Contains(res.Text, hangupMarker) {
		res.Terminate = true
		res.Text = strings.Replace(res.Text, hangupMarker, "", 1)
		changed = true
	}

	if changed {
		res.Text = strings.TrimSpace(res.Text)
	}
	return res
}
