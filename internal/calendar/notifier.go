// Package calendar delivers booking events to an external workflow webhook
// (n8n). Delivery is best-effort: the caller detaches it from the turn path
// and only logs failures.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// LocalLayout is the wall-clock format the model emits in booking directives.
const LocalLayout = "2006-01-02 15:04"

const eventDuration = time.Hour

// Event is the webhook payload. Field names match the workflow the hook
// feeds (Turkish keys are part of its contract).
type Event struct {
	Start       string `json:"baslangic"`
	End         string `json:"bitis"`
	Name        string `json:"name"`
	Description string `json:"desc"`
}

// Notifier posts booking events to a fixed webhook URL. The zero offset
// problem lives here: raw datetimes are wall-clock times in loc and must be
// converted to absolute UTC before leaving the process.
type Notifier struct {
	webhookURL string
	loc        *time.Location
	http       *http.Client
}

func NewNotifier(webhookURL string, loc *time.Location) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{
		webhookURL: webhookURL,
		loc:        loc,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify converts the raw local datetime to a one-hour UTC window and posts
// the event. The response body is ignored; a non-2xx status is an error so
// the caller can log it.
func (n *Notifier) Notify(ctx context.Context, localDateTime, customerName, customerPhone, businessName string) error {
	start, err := ParseLocal(localDateTime, n.loc)
	if err != nil {
		return fmt.Errorf("calendar: bad datetime %q: %w", localDateTime, err)
	}
	end := start.Add(eventDuration)

	ev := Event{
		Start:       start.UTC().Format(time.RFC3339),
		End:         end.UTC().Format(time.RFC3339),
		Name:        "Randevu: " + customerName,
		Description: fmt.Sprintf("Müşteri: %s\nTel: %s\nİşletme: %s", customerName, customerPhone, businessName),
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("calendar: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("calendar: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("calendar: webhook post failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("calendar: webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// ParseLocal interprets a raw "YYYY-MM-DD HH:MM" string as wall-clock time
// in loc.
func ParseLocal(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(LocalLayout, s, loc)
}
