package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/taco-index/internal/model"
)

var fixturePrefix = map[string]string{
	tableRestaurants: "restaurant",
	tableTacos:       "taco",
	tablePhotos:      "photo",
	tableReviews:     "review",
}

// writeFixtures writes Rails test fixtures, one <table>.yml per table. Labels
// are positional; ids are kept as attributes so foreign keys resolve. Null
// attributes are omitted.
func writeFixtures(dir string, ds *model.Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create %s", dir)
	}

	cols := collections(ds)
	var files []string
	for _, table := range tables {
		b, err := fixtureYAML(table, cols[table])
		if err != nil {
			return files, err
		}
		path := filepath.Join(dir, table+".yml")
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return files, eris.Wrapf(err, "export: write %s", path)
		}
		files = append(files, path)
	}
	return files, nil
}

func fixtureYAML(table string, records any) ([]byte, error) {
	rows, err := rowMaps(records)
	if err != nil {
		return nil, err
	}

	fixtures := make(map[string]map[string]any, len(rows))
	for i, row := range rows {
		attrs := make(map[string]any, len(row))
		for k, v := range row {
			if v == nil {
				continue
			}
			attrs[k] = yamlValue(v)
		}
		fixtures[fmt.Sprintf("%s_%03d", fixturePrefix[table], i+1)] = attrs
	}

	b, err := yaml.Marshal(fixtures)
	if err != nil {
		return nil, eris.Wrapf(err, "export: encode %s fixtures", table)
	}
	return b, nil
}

// yamlValue turns decoded JSON numbers back into numbers so YAML does not
// quote them.
func yamlValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
