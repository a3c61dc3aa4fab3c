package store

import (
	"embed"
	"io/fs"
	"path"
	"sort"

	"github.com/rotisserie/eris"
)

//go:embed migrations
var migrationFS embed.FS

const migrationTable = "schema_migrations"

type migration struct {
	name string
	sql  string
}

// migrations returns the embedded files for dialect in lexicographic order.
func migrations(dialect string) ([]migration, error) {
	dir := path.Join("migrations", dialect)
	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return nil, eris.Wrapf(err, "store: read migration dir %s", dir)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	out := make([]migration, 0, len(entries))
	for _, e := range entries {
		data, err := migrationFS.ReadFile(path.Join(dir, e.Name()))
		if err != nil {
			return nil, eris.Wrapf(err, "store: read migration %s", e.Name())
		}
		out = append(out, migration{name: e.Name(), sql: string(data)})
	}
	return out, nil
}
