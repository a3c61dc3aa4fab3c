package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/taco-index/internal/model"
)

// csvTimestamp matches the original collector's file stamps.
const csvTimestamp = "20060102_150405"

var csvColumns = map[string][]string{
	tableRestaurants: {"id", "place_id", "name", "street_address", "city", "state", "zip",
		"latitude", "longitude", "phone", "website", "yelp_id", "google_rating",
		"google_price_level", "google_user_ratings_total", "business_hours", "tags",
		"likelihood_score"},
	tableTacos: {"id", "restaurant_id", "name", "description", "price_cents", "calories",
		"tortilla_type", "protein_type", "is_vegan", "is_bulk", "is_daily_special",
		"available_from", "available_to", "mention_count"},
	tablePhotos: {"id", "taco_id", "user_id", "url", "is_user_uploaded"},
	tableReviews: {"id", "restaurant_id", "author_name", "author_url", "google_rating",
		"review_text", "review_time", "relative_time_description", "language", "review_date"},
}

// writeCSV writes <prefix>_<table>_<stamp>.csv for each non-empty table.
func writeCSV(dir, prefix string, at time.Time, ds *model.Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create %s", dir)
	}

	rows, err := csvRows(ds)
	if err != nil {
		return nil, err
	}

	stamp := at.Format(csvTimestamp)
	var files []string
	for _, table := range tables {
		if len(rows[table]) == 0 {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.csv", prefix, table, stamp))
		if err := writeCSVFile(path, csvColumns[table], rows[table]); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

// csvRows flattens each table, adding the run-only fields that are not stored.
func csvRows(ds *model.Dataset) (map[string][]map[string]any, error) {
	out := make(map[string][]map[string]any, len(tables))
	cols := collections(ds)
	for _, table := range tables {
		rows, err := rowMaps(cols[table])
		if err != nil {
			return nil, err
		}
		out[table] = rows
	}
	for i, r := range ds.Restaurants {
		out[tableRestaurants][i]["place_id"] = r.PlaceID
		out[tableRestaurants][i]["likelihood_score"] = r.LikelihoodScore
	}
	for i, t := range ds.Tacos {
		out[tableTacos][i]["mention_count"] = t.MentionCount
	}
	return out, nil
}

func writeCSVFile(path string, columns []string, rows []map[string]any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrapf(cerr, "export: close %s", path)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, c := range columns {
			record[i] = csvCell(row[c])
		}
		if err := w.Write(record); err != nil {
			return eris.Wrapf(err, "export: write %s", path)
		}
	}
	w.Flush()
	return eris.Wrapf(w.Error(), "export: flush %s", path)
}

func csvCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
