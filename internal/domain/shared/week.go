package shared

import (
	"strings"
	"time"
)

// Weekdays are the seven fixed day labels used by plans and microcycles, in order.
var Weekdays = []string{"Lunes", "Martes", "Miercoles", "Jueves", "Viernes", "Sabado", "Domingo"}

var weekdayIndex = map[string]int{
	"Lunes": 0, "Martes": 1, "Miercoles": 2, "Jueves": 3, "Viernes": 4, "Sabado": 5, "Domingo": 6,
}

// IsWeekday reports whether label is one of the fixed day labels.
func IsWeekday(label string) bool {
	_, ok := weekdayIndex[label]
	return ok
}

// WeekdayIndex returns the position of label in Weekdays, or -1.
func WeekdayIndex(label string) int {
	if i, ok := weekdayIndex[label]; ok {
		return i
	}
	return -1
}

// TimeWeekday maps a day label to time.Weekday.
func TimeWeekday(label string) (time.Weekday, bool) {
	i, ok := weekdayIndex[label]
	if !ok {
		return time.Sunday, false
	}
	return time.Weekday((i + 1) % 7), true
}

// OrderedDays returns the labels among keys in weekday order.
func OrderedDays[T any](days map[string]T) []string {
	out := make([]string, 0, len(days))
	for _, label := range Weekdays {
		if _, ok := days[label]; ok {
			out = append(out, label)
		}
	}
	return out
}

// LabelFor returns the day label of t
func LabelFor(t time.Time) string {
	return Weekdays[(int(t.Weekday())+6)%7]
}

var accentFolder = strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u")

// CanonicalWeekday folds case and accents so "miércoles" or "SÁBADO" map to their label.
func CanonicalWeekday(raw string) (string, bool) {
	folded := accentFolder.Replace(strings.ToLower(strings.TrimSpace(raw)))
	for _, label := range Weekdays {
		if strings.ToLower(label) == folded {
			return label, true
		}
	}
	return "", false
}
