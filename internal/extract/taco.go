package extract

import (
	"fmt"
	"strings"

	"github.com/sells-group/taco-index/internal/model"
	"github.com/sells-group/taco-index/pkg/google"
)

// MentionIndicators are the phrases that evidence a bean and cheese taco in
// review text.
var MentionIndicators = []string{
	"bean and cheese",
	"bean cheese",
	"beans and cheese",
	"refried bean",
	"breakfast taco",
	"simple taco",
	"basic taco",
	"vegetarian taco",
}

// TacoName is the name given to every synthesized taco.
const TacoName = "Bean and Cheese Taco"

// Defaults for fields the source cannot supply. These are assumptions about a
// typical bean and cheese taco, not observed data.
const (
	defaultTortilla = "flour"
	defaultProtein  = "none"
)

const descriptionFormat = "Traditional bean and cheese taco. Mentioned in %d reviews."

// CountMentions counts indicator matches across texts. A text matching several
// distinct indicators counts each of them once.
func CountMentions(texts []string) int {
	n := 0
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, ind := range MentionIndicators {
			if strings.Contains(lower, ind) {
				n++
			}
		}
	}
	return n
}

// BuildTacos returns a single taco when any review mentions an indicator, and
// nothing otherwise.
func BuildTacos(restaurantID string, reviews []google.Review) []model.Taco {
	texts := make([]string, len(reviews))
	for i, rv := range reviews {
		texts[i] = rv.Text
	}
	mentions := CountMentions(texts)
	if mentions == 0 {
		return nil
	}

	return []model.Taco{{
		ID:           model.TacoID(restaurantID),
		RestaurantID: restaurantID,
		Name:         TacoName,
		Description:  fmt.Sprintf(descriptionFormat, mentions),
		TortillaType: defaultTortilla,
		ProteinType:  defaultProtein,
		MentionCount: mentions,
	}}
}

// MentionsFromDescription recovers the mention count from a stored taco
// description. The count is not persisted on its own.
func MentionsFromDescription(desc string) (int, bool) {
	var n int
	if _, err := fmt.Sscanf(desc, descriptionFormat, &n); err != nil {
		return 0, false
	}
	return n, true
}
