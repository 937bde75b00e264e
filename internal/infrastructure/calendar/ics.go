// Package calendar renders nutrition plans as iCalendar documents
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/fitpantry/coach/internal/domain/nutrition"
	"github.com/fitpantry/coach/internal/domain/shared"
	"github.com/fitpantry/coach/internal/ports/outbound"
	"github.com/google/uuid"
)

const (
	icsTimestamp = "20060102T150405"
	icsUTC       = "20060102T150405Z"
)

// Config controls event placement
type Config struct {
	StartHour int
	Spacing   time.Duration
	Duration  time.Duration
	Location  *time.Location
	ProdID    string
}

// DefaultConfig places the first meal at 08:00 local and the next ones every four hours
func DefaultConfig() Config {
	return Config{
		StartHour: 8,
		Spacing:   4 * time.Hour,
		Duration:  30 * time.Minute,
		Location:  time.Local,
		ProdID:    "-//fitpantry//coach//ES",
	}
}

// ICSExporter implements outbound.CalendarExporter
type ICSExporter struct {
	cfg   Config
	newID func() string
}

// NewICSExporter creates an exporter
func NewICSExporter(cfg Config) *ICSExporter {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &ICSExporter{cfg: cfg, newID: uuid.NewString}
}

var _ outbound.CalendarExporter = (*ICSExporter)(nil)

// Export writes one VEVENT per meal, in weekday order and then meal order
func (e *ICSExporter) Export(plan nutrition.Plan, now time.Time) ([]byte, error) {
	now = now.In(e.cfg.Location)
	stamp := now.UTC().Format(icsUTC)

	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+e.cfg.ProdID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "METHOD:PUBLISH")

	for _, day := range plan.OrderedDays() {
		weekday, ok := shared.TimeWeekday(day)
		if !ok {
			return nil, fmt.Errorf("%w: %q", nutrition.ErrUnknownDay, day)
		}
		first := e.firstSlot(now, weekday)

		for i, meal := range plan.Days[day] {
			start := first.Add(time.Duration(i) * e.cfg.Spacing)
			end := start.Add(e.cfg.Duration)

			writeLine(&b, "BEGIN:VEVENT")
			writeLine(&b, "UID:"+e.newID())
			writeLine(&b, "DTSTAMP:"+stamp)
			writeLine(&b, "DTSTART:"+start.Format(icsTimestamp))
			writeLine(&b, "DTEND:"+end.Format(icsTimestamp))
			writeLine(&b, "SUMMARY:"+escape(meal.Type+": "+meal.Dish))
			writeLine(&b, "DESCRIPTION:"+escape(strings.Join(meal.Ingredients, ", ")))
			writeLine(&b, "END:VEVENT")
		}
	}

	writeLine(&b, "END:VCALENDAR")
	return []byte(b.String()), nil
}

// firstSlot is the start hour on the next occurrence of weekday; today counts.
func (e *ICSExporter) firstSlot(now time.Time, weekday time.Weekday) time.Time {
	ahead := (int(weekday) - int(now.Weekday()) + 7) % 7
	date := now.AddDate(0, 0, ahead)
	return time.Date(date.Year(), date.Month(), date.Day(), e.cfg.StartHour, 0, 0, 0, e.cfg.Location)
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

func escape(s string) string {
	return escaper.Replace(s)
}

// writeLine folds content lines at 75 octets and ends them with CRLF
func writeLine(b *strings.Builder, line string) {
	const limit = 75
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

func isRuneStart(c byte) bool {
	return c&0xC0 != 0x80
}
