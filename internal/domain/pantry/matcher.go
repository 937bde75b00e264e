package pantry

import "strings"

// IngredientMatcher decides whether an inventory entry satisfies an ingredient name.
type IngredientMatcher interface {
	Matches(entry, ingredient string) bool
}

// ContainmentMatcher matches when either lowercased name contains the other,
// so "pollo" and "pechuga de pollo" match in both directions.
type ContainmentMatcher struct{}

// Matches implements IngredientMatcher
func (ContainmentMatcher) Matches(entry, ingredient string) bool {
	e := strings.ToLower(strings.TrimSpace(entry))
	i := strings.ToLower(strings.TrimSpace(ingredient))
	if e == "" || i == "" {
		return false
	}
	return strings.Contains(i, e) || strings.Contains(e, i)
}

// MatcherFunc adapts a function to IngredientMatcher
type MatcherFunc func(entry, ingredient string) bool

// Matches implements IngredientMatcher
func (f MatcherFunc) Matches(entry, ingredient string) bool {
	return f(entry, ingredient)
}
