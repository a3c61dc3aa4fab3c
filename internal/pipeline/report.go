package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/sells-group/taco-index/internal/model"
)

const (
	topPlaces      = 3
	topRestaurants = 10
)

// Count is a value and how often it occurs.
type Count struct {
	Value string `json:"value"`
	N     int    `json:"n"`
}

// Summary aggregates a dataset for the terminal report.
type Summary struct {
	Restaurants int `json:"restaurants"`
	Tacos       int `json:"tacos"`
	Reviews     int `json:"reviews"`
	Photos      int `json:"photos"`

	AvgRating    *float64    `json:"avg_rating,omitempty"` // nil when no restaurant is rated
	PriceLevels  map[int]int `json:"price_levels"`
	TotalRatings int         `json:"total_ratings"`
	AvgScore     float64     `json:"avg_score"`

	TotalMentions int     `json:"total_mentions"`
	AvgMentions   float64 `json:"avg_mentions"`

	TopCities []Count            `json:"top_cities"`
	TopStates []Count            `json:"top_states"`
	Top       []model.Restaurant `json:"top"`
	Confirmed []model.Restaurant `json:"confirmed"` // restaurants with a taco
}

// Summarize computes run statistics. Restaurants keep their dataset order
// among equal scores.
func Summarize(ds *model.Dataset) Summary {
	s := Summary{
		Restaurants: len(ds.Restaurants),
		Tacos:       len(ds.Tacos),
		Reviews:     len(ds.Reviews),
		Photos:      len(ds.Photos),
		PriceLevels: make(map[int]int),
	}

	var ratingSum float64
	var rated, scoreSum int
	cities := make(map[string]int)
	states := make(map[string]int)
	for _, r := range ds.Restaurants {
		if r.GoogleRating != nil {
			ratingSum += *r.GoogleRating
			rated++
		}
		if r.GooglePriceLevel != nil {
			s.PriceLevels[*r.GooglePriceLevel]++
		}
		if r.GoogleUserRatingsTotal != nil {
			s.TotalRatings += *r.GoogleUserRatingsTotal
		}
		scoreSum += r.LikelihoodScore
		if r.City != "" {
			cities[r.City]++
		}
		if r.State != "" {
			states[r.State]++
		}
	}
	if rated > 0 {
		avg := ratingSum / float64(rated)
		s.AvgRating = &avg
	}
	if len(ds.Restaurants) > 0 {
		s.AvgScore = float64(scoreSum) / float64(len(ds.Restaurants))
	}
	s.TopCities = topCounts(cities, topPlaces)
	s.TopStates = topCounts(states, topPlaces)

	ranked := make([]model.Restaurant, len(ds.Restaurants))
	copy(ranked, ds.Restaurants)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LikelihoodScore > ranked[j].LikelihoodScore
	})
	if len(ranked) > topRestaurants {
		ranked = ranked[:topRestaurants]
	}
	s.Top = ranked

	withTaco := make(map[string]bool, len(ds.Tacos))
	for _, t := range ds.Tacos {
		s.TotalMentions += t.MentionCount
		withTaco[t.RestaurantID] = true
	}
	if len(ds.Tacos) > 0 {
		s.AvgMentions = float64(s.TotalMentions) / float64(len(ds.Tacos))
	}
	for _, r := range ds.Restaurants {
		if withTaco[r.ID] {
			s.Confirmed = append(s.Confirmed, r)
		}
	}
	return s
}

// topCounts returns the n most frequent values, ties broken by value.
func topCounts(m map[string]int, n int) []Count {
	out := make([]Count, 0, len(m))
	for v, c := range m {
		out = append(out, Count{Value: v, N: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// FormatReport renders a summary for the terminal.
func FormatReport(s Summary) string {
	var b strings.Builder

	b.WriteString("=== BEAN AND CHEESE TACO COLLECTION SUMMARY ===\n")
	fmt.Fprintf(&b, "Restaurants found: %d\n", s.Restaurants)
	fmt.Fprintf(&b, "Bean & cheese tacos identified: %d\n", s.Tacos)
	fmt.Fprintf(&b, "Reviews collected: %d\n", s.Reviews)
	fmt.Fprintf(&b, "Photos found: %d\n", s.Photos)

	if s.Restaurants > 0 {
		b.WriteString("\n")
		if s.AvgRating != nil {
			fmt.Fprintf(&b, "Average Google rating: %.1f\n", *s.AvgRating)
		}
		if len(s.PriceLevels) > 0 {
			fmt.Fprintf(&b, "Price levels: %s\n", formatPriceLevels(s.PriceLevels))
		}
		if s.TotalRatings > 0 {
			fmt.Fprintf(&b, "Total Google ratings: %d\n", s.TotalRatings)
		}
		fmt.Fprintf(&b, "Average likelihood score: %.1f\n", s.AvgScore)
		fmt.Fprintf(&b, "Most common cities: %s\n", formatCounts(s.TopCities))
		fmt.Fprintf(&b, "Most common states: %s\n", formatCounts(s.TopStates))

		b.WriteString("\n=== TOP RESTAURANTS BY LIKELIHOOD ===\n")
		writeRestaurants(&b, s.Top)
	}

	if s.Tacos > 0 {
		b.WriteString("\n=== BEAN AND CHEESE TACO FINDINGS ===\n")
		fmt.Fprintf(&b, "Total review mentions: %d\n", s.TotalMentions)
		fmt.Fprintf(&b, "Average mentions per taco: %.1f\n", s.AvgMentions)

		b.WriteString("\n=== RESTAURANTS WITH CONFIRMED TACOS ===\n")
		writeRestaurants(&b, s.Confirmed)
	}
	return b.String()
}

func writeRestaurants(b *strings.Builder, rs []model.Restaurant) {
	w := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSCORE\tRATING\tPRICE\tCITY\tSTATE")
	for _, r := range rs {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			r.Name, r.LikelihoodScore, optFloat(r.GoogleRating), optInt(r.GooglePriceLevel), r.City, r.State)
	}
	w.Flush() //nolint:errcheck
}

func formatPriceLevels(m map[int]int) string {
	levels := make([]int, 0, len(m))
	for l := range m {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = fmt.Sprintf("%d: %d", l, m[l])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatCounts(cs []Count) string {
	if len(cs) == 0 {
		return "-"
	}
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = fmt.Sprintf("%s (%d)", c.Value, c.N)
	}
	return strings.Join(parts, ", ")
}

func optFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
