package conversation

import (
	"strings"
	"testing"
	"time"

	"kairos-voice/internal/directory"
)

func TestGreeting(t *testing.T) {
	got := Greeting("Ayşe", "Salon Kairos")
	if got != "Merhaba Ayşe, Salon Kairos'den arıyorum. Size nasıl yardımcı olabilirim?" {
		t.Fatalf("unexpected greeting: %q", got)
	}
}

func TestDateWindow_SevenDaysWithISODates(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	// 2025-06-01 is a Sunday.
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, loc)

	lines := strings.Split(DateWindow(now, loc), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d", len(lines))
	}
	if lines[0] != "1 Haziran 2025 Pazar -> 2025-06-01" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if lines[1] != "2 Haziran 2025 Pazartesi -> 2025-06-02" {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
	if !strings.HasSuffix(lines[6], "2025-06-07") {
		t.Fatalf("unexpected last line: %q", lines[6])
	}
}

func TestSystemPrompt_ContainsCatalogAndMarkers(t *testing.T) {
	services := []directory.Service{
		{ID: "1", Name: "Haircut", Price: 100},
		{ID: "2", Name: "Shave", Price: 50},
	}
	got := SystemPrompt("Salon Kairos", services, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.UTC)

	for _, want := range []string{
		"KİMLİK: Salon Kairos asistanısın.",
		"- Haircut (100 TL) [ID: 1]",
		"- Shave (50 TL) [ID: 2]",
		"||SAVE||YYYY-MM-DD HH:MM||SERVICE_ID||",
		"||HANGUP||",
		"2025-06-01",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestSystemPrompt_EmptyCatalog(t *testing.T) {
	got := SystemPrompt("Salon Kairos", nil, time.Now(), time.UTC)
	if !strings.Contains(got, "Hizmet listesi şu an mevcut değil.") {
		t.Fatalf("expected empty-catalog notice:\n%s", got)
	}
}
