package export

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/taco-index/internal/model"
)

// CleanText folds accented letters to ASCII, replaces any other non-ASCII
// rune with a space and collapses whitespace. "Jalapeño  café" becomes
// "Jalapeno cafe".
func CleanText(s string) string {
	if s == "" {
		return s
	}
	// transform.Chain is stateful, so each call gets its own.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return ' '
		}
		return r
	}, folded)
	return strings.Join(strings.Fields(ascii), " ")
}

// cleanDataset returns a copy of ds with free text cleaned: taco descriptions
// and review author names and text.
func cleanDataset(ds *model.Dataset) *model.Dataset {
	out := &model.Dataset{
		Restaurants: ds.Restaurants,
		Photos:      ds.Photos,
		Tacos:       make([]model.Taco, len(ds.Tacos)),
		Reviews:     make([]model.Review, len(ds.Reviews)),
	}
	for i, t := range ds.Tacos {
		t.Description = CleanText(t.Description)
		out.Tacos[i] = t
	}
	for i, r := range ds.Reviews {
		r.AuthorName = CleanText(r.AuthorName)
		r.Text = CleanText(r.Text)
		out.Reviews[i] = r
	}
	return out
}
