package export

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/taco-index/internal/model"
)

// writeJSON writes <dir>/<table>.json for every table, as UTF-8.
func writeJSON(dir string, ds *model.Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create %s", dir)
	}

	cols := collections(ds)
	var files []string
	for _, table := range tables {
		b, err := marshalIndent(cols[table])
		if err != nil {
			return files, err
		}
		path := filepath.Join(dir, table+".json")
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return files, eris.Wrapf(err, "export: write %s", path)
		}
		files = append(files, path)
	}
	return files, nil
}
