package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/taco-index/internal/model"
)

// seedModels maps tables to their Rails model names.
var seedModels = map[string]string{
	tableRestaurants: "Restaurant",
	tableTacos:       "Taco",
	tablePhotos:      "Photo",
	tableReviews:     "Review",
}

// writeRails writes a Rails db/seeds.rb that clears the four models and
// recreates every record.
func writeRails(path string, ds *model.Dataset) error {
	src, err := RailsSeeds(ds)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "export: create dir for %s", path)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}

// RailsSeeds renders the seeds.rb source. The output is pure ASCII.
func RailsSeeds(ds *model.Dataset) (string, error) {
	cols := collections(ds)

	var b strings.Builder
	b.WriteString("# Taco Index seed data\n")
	b.WriteString("# Generated by taco-index export. Do not edit by hand.\n\n")
	b.WriteString("puts \"Seeding taco index database...\"\n\n")

	// Children first so foreign keys never dangle.
	for i := len(tables) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%s.destroy_all if defined?(%s)\n", seedModels[tables[i]], seedModels[tables[i]])
	}

	for _, table := range tables {
		lit, err := rubyLiteral(cols[table])
		if err != nil {
			return "", err
		}
		m := seedModels[table]
		fmt.Fprintf(&b, "\nputs \"Creating %s...\"\n", table)
		fmt.Fprintf(&b, "%s_data = %s\n\n", table, lit)
		fmt.Fprintf(&b, "%s_data.each do |attrs|\n", table)
		if table == tableReviews {
			b.WriteString("  attrs[:review_date] = DateTime.parse(attrs[:review_date]) if attrs[:review_date]\n")
		}
		fmt.Fprintf(&b, "  %s.create!(attrs)\n", m)
		b.WriteString("end\n")
		fmt.Fprintf(&b, "puts \"Created #{%s.count} %s\"\n", m, table)
	}

	b.WriteString("\nputs \"Seeding complete: #{Restaurant.count} restaurants, #{Taco.count} tacos, " +
		"#{Photo.count} photos, #{Review.count} reviews\"\n")
	return b.String(), nil
}

// rubyLiteral renders v as a Ruby array/hash literal. JSON syntax is valid
// Ruby once null becomes nil, non-ASCII is escaped, and '#' cannot start an
// interpolation.
func rubyLiteral(v any) (string, error) {
	raw, err := marshalIndent(v)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, r := range strings.TrimRight(string(raw), "\n") {
		switch {
		case r == '#':
			b.WriteString(`\u0023`)
		case r > 0x7e:
			writeUnicodeEscape(&b, r)
		default:
			b.WriteRune(r)
		}
	}

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		switch {
		case strings.HasSuffix(line, ": null,"):
			lines[i] = strings.TrimSuffix(line, "null,") + "nil,"
		case strings.HasSuffix(line, ": null"):
			lines[i] = strings.TrimSuffix(line, "null") + "nil"
		}
	}
	return strings.Join(lines, "\n"), nil
}

func writeUnicodeEscape(b *strings.Builder, r rune) {
	// Ruby rejects surrogate escapes; astral runes use the braced form.
	if r > 0xffff {
		fmt.Fprintf(b, `\u{%x}`, r)
		return
	}
	fmt.Fprintf(b, `\u%04x`, r)
}
