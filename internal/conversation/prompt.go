package conversation

import (
	"fmt"
	"strings"
	"time"

	"kairos-voice/internal/directory"
)

// dateWindowDays is how many days ahead the model may book. Each day is
// listed with its Turkish long form and ISO date so relative phrases like
// "yarın" resolve to absolute YYYY-MM-DD values.
const dateWindowDays = 7

var turkishDays = [...]string{
	"Pazar", "Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi",
}

var turkishMonths = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// Greeting is the assistant's opening line, queued before the first turn.
func Greeting(customerName, businessName string) string {
	return fmt.Sprintf("Merhaba %s, %s'den arıyorum. Size nasıl yardımcı olabilirim?", customerName, businessName)
}

// SystemPrompt builds the immutable first transcript message: business
// identity, the bookable catalog with the ids the booking marker references,
// the date window, and the marker formats.
func SystemPrompt(businessName string, services []directory.Service, now time.Time, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "KİMLİK: %s asistanısın.\n", businessName)
	b.WriteString("HİZMETLER:\n")
	b.WriteString(catalogText(services))
	b.WriteString("\nTARİHLER:\n")
	b.WriteString(DateWindow(now, loc))
	b.WriteString("\nFORMAT: ||SAVE||YYYY-MM-DD HH:MM||SERVICE_ID||")
	b.WriteString("\nKAPANIŞ: Görüşme tamamlandığında yanıtın sonuna ||HANGUP|| ekle.")
	return b.String()
}

func catalogText(services []directory.Service) string {
	if len(services) == 0 {
		return "Hizmet listesi şu an mevcut değil."
	}
	lines := make([]string, 0, len(services))
	for _, s := range services {
		lines = append(lines, fmt.Sprintf("- %s (%d TL) [ID: %s]", s.Name, s.Price, s.ID))
	}
	return strings.Join(lines, "\n")
}

// DateWindow renders the next dateWindowDays days, one per line, as
// "<Turkish long date> -> YYYY-MM-DD".
func DateWindow(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	day := now.In(loc)

	lines := make([]string, 0, dateWindowDays)
	for i := 0; i < dateWindowDays; i++ {
		d := day.AddDate(0, 0, i)
		lines = append(lines, fmt.Sprintf("%d %s %d %s -> %s",
			d.Day(),
			turkishMonths[d.Month()-1],
			d.Year(),
			turkishDays[d.Weekday()],
			d.Format("2006-01-02"),
		))
	}
	return strings.Join(lines, "\n")
}
