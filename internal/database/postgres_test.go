package database

import (
	"testing"

	"github.com/Yorktech/rpscrape/internal/models"
	"github.com/Yorktech/rpscrape/internal/schema"
	"github.com/stretchr/testify/assert"
)

func TestBuildInsert(t *testing.T) {
	table := schema.Results()
	rows := []models.Record{
		{"date": "2025-07-01", "horse": "Frankel", "pos": int64(1)},
		{"date": "2025-07-01", "horse": "Sea Mist", "pos": int64(2)},
	}

	t.Run("Expect: one multi-row statement with positional placeholders", func(t *testing.T) {
		query, args := buildInsert(table, rows, "")

		assert.Contains(t, query, `INSERT INTO "historical_racing_results"`)
		assert.Len(t, args, 2*len(table.Columns))
		assert.Contains(t, query, "$1")
		assert.Contains(t, query, "$78") // 2 rows * 39 columns
		assert.NotContains(t, query, "$79")
	})

	t.Run("Expect: the reserved column to appear under its renamed form", func(t *testing.T) {
		query, _ := buildInsert(table, rows, "")

		assert.Contains(t, query, `"or_rating"`)
		assert.NotContains(t, query, `"or",`)
	})

	t.Run("Expect: args to follow schema column order per row", func(t *testing.T) {
		_, args := buildInsert(table, rows[:1], "")

		assert.Equal(t, "2025-07-01", args[0]) // date is the first column
		assert.Equal(t, "Frankel", args[21])   // horse is column 22
	})
}

func TestConflictClause(t *testing.T) {
	t.Run("Expect: conflict target to be the natural key", func(t *testing.T) {
		clause := conflictClause(schema.Results())

		assert.Contains(t, clause, `ON CONFLICT ("date", "course", "race_name", "horse", "pos")`)
	})

	t.Run("Expect: non-key columns to overwrite from the incoming row", func(t *testing.T) {
		clause := conflictClause(schema.Results())

		assert.Contains(t, clause, `"comment" = EXCLUDED."comment"`)
		assert.Contains(t, clause, `"or_rating" = EXCLUDED."or_rating"`)
		// key columns are the conflict target, never update targets
		assert.NotContains(t, clause, `"horse" = EXCLUDED."horse"`)
	})

	t.Run("Expect: racecards key to be race and horse identifiers", func(t *testing.T) {
		clause := conflictClause(schema.Racecards())

		assert.Contains(t, clause, `ON CONFLICT ("race_id", "horse_id")`)
		assert.NotContains(t, clause, `"race_id" = EXCLUDED."race_id"`)
	})
}
