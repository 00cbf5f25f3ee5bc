package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Yorktech/rpscrape/internal/schema"
	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// testRow builds a full-width row with recognizable values, overridable per
// source column name.
func testRow(table schema.Table, overrides map[string]string) []string {
	row := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		if v, ok := overrides[col.Name]; ok {
			row[i] = v
		} else {
			row[i] = col.Name + "_v"
		}
	}
	return row
}

func header(table schema.Table) string {
	names := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		names[i] = col.Name
	}
	return strings.Join(names, ",")
}

func TestParseResults(t *testing.T) {
	table := schema.Results()

	t.Run("Expect: well-formed rows to map positionally", func(t *testing.T) {
		row := testRow(table, map[string]string{"horse": "Frankel", "pos": "1"})
		path := writeFile(t, "results.csv", header(table)+"\n"+strings.Join(row, ",")+"\n")

		records, rowErrs, err := ParseResults(path, table)
		assert.NoError(t, err)
		assert.Empty(t, rowErrs)
		assert.Len(t, records, 1)
		assert.Equal(t, "Frankel", records[0]["horse"])
		assert.Equal(t, "1", records[0]["pos"])
		assert.Equal(t, "comment_v", records[0]["comment"])
		assert.Len(t, records[0], len(table.Columns))
	})

	t.Run("Expect: short rows to be right-padded with empty fields", func(t *testing.T) {
		row := testRow(table, nil)
		short := strings.Join(row[:len(row)-1], ",") // drop the trailing comment
		path := writeFile(t, "short.csv", header(table)+"\n"+short+"\n")

		records, rowErrs, err := ParseResults(path, table)
		assert.NoError(t, err)
		assert.Empty(t, rowErrs)
		assert.Len(t, records, 1)
		assert.Equal(t, "", records[0]["comment"])
		assert.Equal(t, "owner_v", records[0]["owner"])
	})

	t.Run("Expect: padded short row to equal the explicit-empty-field row", func(t *testing.T) {
		row := testRow(table, map[string]string{"comment": ""})
		explicit := writeFile(t, "explicit.csv", header(table)+"\n"+strings.Join(row, ",")+"\n")
		short := writeFile(t, "short.csv", header(table)+"\n"+strings.Join(row[:len(row)-1], ",")+"\n")

		fromExplicit, _, err := ParseResults(explicit, table)
		assert.NoError(t, err)
		fromShort, _, err := ParseResults(short, table)
		assert.NoError(t, err)
		assert.Equal(t, fromExplicit, fromShort)
	})

	t.Run("Expect: unescaped delimiter in the comment to be rejoined", func(t *testing.T) {
		// The comment contains a raw comma, so tokenization yields 40 fields.
		row := testRow(table, map[string]string{"comment": "led, kept on well"})
		path := writeFile(t, "ragged.csv", header(table)+"\n"+strings.Join(row, ",")+"\n")

		records, rowErrs, err := ParseResults(path, table)
		assert.NoError(t, err)
		assert.Empty(t, rowErrs)
		assert.Len(t, records, 1)
		// The tokenizer keeps the space after the comma, so the rejoin
		// reproduces the original free text exactly.
		assert.Equal(t, "led, kept on well", records[0]["comment"])
		assert.Equal(t, "owner_v", records[0]["owner"])
	})

	t.Run("Expect: header column mismatch to warn but not fail", func(t *testing.T) {
		row := testRow(table, nil)
		path := writeFile(t, "badheader.csv", "a,b,c\n"+strings.Join(row, ",")+"\n")

		records, rowErrs, err := ParseResults(path, table)
		assert.NoError(t, err)
		assert.Empty(t, rowErrs)
		assert.Len(t, records, 1)
		assert.Equal(t, "date_v", records[0]["date"])
	})

	t.Run("Expect: header-only file to yield zero records", func(t *testing.T) {
		path := writeFile(t, "empty.csv", header(table)+"\n")
		records, rowErrs, err := ParseResults(path, table)
		assert.NoError(t, err)
		assert.Empty(t, rowErrs)
		assert.Empty(t, records)
	})

	t.Run("Expect: missing file to be an error", func(t *testing.T) {
		_, _, err := ParseResults(filepath.Join(t.TempDir(), "nope.csv"), table)
		assert.Error(t, err)
	})

	t.Run("Expect: quoted fields to keep literal delimiters without repair", func(t *testing.T) {
		row := testRow(table, map[string]string{"comment": `"held up, no extra"`})
		path := writeFile(t, "quoted.csv", header(table)+"\n"+strings.Join(row, ",")+"\n")

		records, _, err := ParseResults(path, table)
		assert.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, "held up, no extra", records[0]["comment"])
	})
}

func TestRepairRow(t *testing.T) {
	t.Run("Expect: exact-width rows untouched", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, repairRow([]string{"a", "b", "c"}, 3))
	})

	t.Run("Expect: short rows padded", func(t *testing.T) {
		assert.Equal(t, []string{"a", "", ""}, repairRow([]string{"a"}, 3))
	})

	t.Run("Expect: overflow rejoined into the final column", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c,d,e"}, repairRow([]string{"a", "b", "c", "d", "e"}, 3))
	})
}
