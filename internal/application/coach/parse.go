package coach

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/fitpantry/coach/internal/domain/nutrition"
	"github.com/fitpantry/coach/internal/domain/pantry"
	"github.com/fitpantry/coach/internal/domain/shared"
	"github.com/fitpantry/coach/internal/domain/training"
)

// Shapes of structured gateway answers
const (
	ShapePlan       = "plan"
	ShapeMeal       = "meal"
	ShapeMicrocycle = "microcycle"
	ShapeExercise   = "exercise"
	ShapeList       = "list"
)

// ParseResult is the outcome of reading a gateway answer: a value or the reason it did not fit.
type ParseResult[T any] struct {
	value  T
	reason string
	ok     bool
}

// Success wraps a parsed value
func Success[T any](v T) ParseResult[T] {
	return ParseResult[T]{value: v, ok: true}
}

// Failure records why parsing failed
func Failure[T any](format string, args ...any) ParseResult[T] {
	return ParseResult[T]{reason: fmt.Sprintf(format, args...)}
}

// Ok reports success
func (r ParseResult[T]) Ok() bool { return r.ok }

// Value returns the parsed value; the zero value on failure
func (r ParseResult[T]) Value() T { return r.value }

// Reason returns the failure reason
func (r ParseResult[T]) Reason() string { return r.reason }

var fenceMarker = regexp.MustCompile("```[A-Za-z0-9_-]*")

// ExtractJSON strips code fence markers and keeps the text between the first '{' and the last '}'.
func ExtractJSON(raw string) (string, bool) {
	text := fenceMarker.ReplaceAllString(strings.TrimSpace(raw), "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

func decodeObject[T any](raw string) ParseResult[T] {
	payload, ok := ExtractJSON(raw)
	if !ok {
		return Failure[T]("no JSON object in response")
	}
	var out T
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return Failure[T]("invalid JSON: %v", err)
	}
	return Success(out)
}

// canonicalDays rekeys a day map to the fixed labels, rejecting unknown or duplicated days.
func canonicalDays[T any](days map[string]T) (map[string]T, error) {
	out := make(map[string]T, len(days))
	for raw, v := range days {
		label, ok := shared.CanonicalWeekday(raw)
		if !ok {
			return nil, fmt.Errorf("unknown day %q", raw)
		}
		if _, dup := out[label]; dup {
			return nil, fmt.Errorf("day %q appears twice", label)
		}
		out[label] = v
	}
	return out, nil
}

// ParsePlan reads a weekly nutrition plan: weekday labels to meal arrays.
func ParsePlan(raw string) ParseResult[nutrition.Plan] {
	decoded := decodeObject[map[string][]nutrition.Meal](raw)
	if !decoded.Ok() {
		return Failure[nutrition.Plan]("%s", decoded.Reason())
	}
	days, err := canonicalDays(decoded.Value())
	if err != nil {
		return Failure[nutrition.Plan]("%v", err)
	}
	plan, err := nutrition.NewPlan(days)
	if err != nil {
		return Failure[nutrition.Plan]("%v", err)
	}
	return Success(plan)
}

// ParseMeal reads a single meal object
func ParseMeal(raw string) ParseResult[nutrition.Meal] {
	decoded := decodeObject[nutrition.Meal](raw)
	if !decoded.Ok() {
		return decoded
	}
	if err := decoded.Value().Validate(); err != nil {
		return Failure[nutrition.Meal]("%v", err)
	}
	return decoded
}

// ParseMicrocycle reads a workout week; completed sets are always emptied.
func ParseMicrocycle(raw string) ParseResult[training.Microcycle] {
	decoded := decodeObject[map[string][]training.Exercise](raw)
	if !decoded.Ok() {
		return Failure[training.Microcycle]("%s", decoded.Reason())
	}
	days, err := canonicalDays(decoded.Value())
	if err != nil {
		return Failure[training.Microcycle]("%v", err)
	}
	m, err := training.NewMicrocycle(days)
	if err != nil {
		return Failure[training.Microcycle]("%v", err)
	}
	return Success(m)
}

// ParseExercise reads a single exercise object with an empty completed list.
func ParseExercise(raw string) ParseResult[training.Exercise] {
	decoded := decodeObject[training.Exercise](raw)
	if !decoded.Ok() {
		return decoded
	}
	ex := decoded.Value()
	if err := ex.Validate(); err != nil {
		return Failure[training.Exercise]("%v", err)
	}
	return Success(ex.Fresh())
}

// ParseIngredientList reads a delimited list of ingredient names
func ParseIngredientList(raw string) ParseResult[[]string] {
	names := pantry.ParseList(raw)
	if len(names) == 0 {
		return Failure[[]string]("no ingredient names in response")
	}
	return Success(names)
}
