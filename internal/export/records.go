package export

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/taco-index/internal/model"
)

// Table names, in seed order.
const (
	tableRestaurants = "restaurants"
	tableTacos       = "tacos"
	tablePhotos      = "photos"
	tableReviews     = "reviews"
)

var tables = []string{tableRestaurants, tableTacos, tablePhotos, tableReviews}

// reviewRecord is a review as exported: the text is repeated in content, as
// it is stored, and a missing date is null rather than "".
type reviewRecord struct {
	model.Review
	Content    string  `json:"content"`
	ReviewDate *string `json:"review_date"`
}

func reviewRecords(rs []model.Review) []reviewRecord {
	out := make([]reviewRecord, len(rs))
	for i, r := range rs {
		out[i] = reviewRecord{Review: r, Content: r.Text}
		if r.ReviewDate != "" {
			d := r.ReviewDate
			out[i].ReviewDate = &d
		}
	}
	return out
}

// collections returns each table's records ready for encoding. Empty tables
// encode as [] rather than null.
func collections(ds *model.Dataset) map[string]any {
	return map[string]any{
		tableRestaurants: nonNil(ds.Restaurants),
		tableTacos:       nonNil(ds.Tacos),
		tablePhotos:      nonNil(ds.Photos),
		tableReviews:     nonNil(reviewRecords(ds.Reviews)),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// marshalIndent encodes v with two-space indentation, leaving <, > and &
// unescaped.
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, eris.Wrap(err, "export: encode json")
	}
	return buf.Bytes(), nil
}

// rowMaps flattens records to generic maps keyed by their JSON names, in the
// order the records are given.
func rowMaps(records any) ([]map[string]any, error) {
	b, err := json.Marshal(records)
	if err != nil {
		return nil, eris.Wrap(err, "export: encode records")
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, eris.Wrap(err, "export: decode records")
	}
	return rows, nil
}
