package discovery

import "strings"

// PositiveKeywords raise a candidate's likelihood of serving bean and cheese tacos.
var PositiveKeywords = []string{
	"taco", "taqueria", "mexican", "tex-mex", "breakfast", "burrito",
	"bean", "cheese", "tortilla", "authentic", "traditional", "local",
	"familia", "casa", "el", "la", "los",
}

// NegativeKeywords lower it.
var NegativeKeywords = []string{
	"pizza", "burger", "chinese", "thai", "sushi", "italian",
	"steakhouse", "seafood", "bbq", "wings", "bar", "club",
}

// Relevance is the keyword tally for a single place.
type Relevance struct {
	Positive int
	Negative int
}

// Score is the net likelihood score.
func (r Relevance) Score() int {
	return r.Positive - r.Negative
}

// Include reports whether the place qualifies: any positive hit with no
// negatives, or at least two positive hits against a single negative.
func (r Relevance) Include() bool {
	if r.Positive > 0 && r.Negative == 0 {
		return true
	}
	return r.Positive >= 2 && r.Negative <= 1
}

// Score counts keyword occurrences in the place name and category tags.
// Matching is case-insensitive substring containment; each keyword counts once.
func Score(name string, types []string) Relevance {
	text := strings.ToLower(name + " " + strings.Join(types, " "))

	var r Relevance
	for _, kw := range PositiveKeywords {
		if strings.Contains(text, kw) {
			r.Positive++
		}
	}
	for _, kw := range NegativeKeywords {
		if strings.Contains(text, kw) {
			r.Negative++
		}
	}
	return r
}
