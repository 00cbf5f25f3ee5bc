package transform

import (
	"testing"

	"github.com/Yorktech/rpscrape/internal/models"
	"github.com/Yorktech/rpscrape/internal/schema"
	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	table := schema.Results()

	t.Run("Expect: columns to be coerced per declared kind", func(t *testing.T) {
		raw := models.RawRecord{
			"date":    "2025-07-01",
			"course":  " Ascot ",
			"pos":     "3",
			"ovr_btn": "1.25",
			"lbs":     "132.0",
			"comment": "led, kept on well",
		}

		record, err := Apply(raw, table)
		assert.NoError(t, err)
		assert.Equal(t, "2025-07-01", record["date"])
		assert.Equal(t, "Ascot", record["course"])
		assert.Equal(t, int64(3), record["pos"])
		assert.Equal(t, 1.25, record["ovr_btn"])
		assert.Equal(t, int64(132), record["lbs"])
		assert.Equal(t, "led, kept on well", record["comment"])
	})

	t.Run("Expect: reserved column to be renamed", func(t *testing.T) {
		record, err := Apply(models.RawRecord{"or": "85"}, table)
		assert.NoError(t, err)
		assert.Equal(t, int64(85), record["or_rating"])
		assert.NotContains(t, record, "or")
	})

	t.Run("Expect: bad field values to become null, not errors", func(t *testing.T) {
		record, err := Apply(models.RawRecord{"pos": "PU", "secs": "-", "ran": ""}, table)
		assert.NoError(t, err)
		assert.Nil(t, record["pos"])
		assert.Nil(t, record["secs"])
		assert.Nil(t, record["ran"])
	})

	t.Run("Expect: transform to be idempotent", func(t *testing.T) {
		raw := models.RawRecord{"date": "2025-07-01", "pos": "1", "prize": "5000.50", "or": "90"}
		first, err := Apply(raw, table)
		assert.NoError(t, err)
		second, err := Apply(raw, table)
		assert.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Expect: nil raw record to be a record-level error", func(t *testing.T) {
		_, err := Apply(nil, table)
		assert.Error(t, err)
	})

	t.Run("Expect: JSON columns to serialize nested values", func(t *testing.T) {
		cards := schema.Racecards()
		record, err := Apply(models.RawRecord{
			"horse_id":      float64(101),
			"prev_trainers": []any{map[string]any{"trainer": "J Gosden"}},
			"medical":       []any{},
		}, cards)
		assert.NoError(t, err)
		assert.Equal(t, int64(101), record["horse_id"])
		assert.JSONEq(t, `[{"trainer":"J Gosden"}]`, record["prev_trainers"].(string))
		assert.Nil(t, record["medical"])
	})
}
