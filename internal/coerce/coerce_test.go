package coerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	t.Run("Expect: decimal-point exports to truncate", func(t *testing.T) {
		got := ToInt("7.0")
		assert.NotNil(t, got)
		assert.Equal(t, int64(7), *got)

		got = ToInt("7.9")
		assert.NotNil(t, got)
		assert.Equal(t, int64(7), *got)
	})

	t.Run("Expect: empty and unparseable values to be nil", func(t *testing.T) {
		assert.Nil(t, ToInt(""))
		assert.Nil(t, ToInt("abc"))
		assert.Nil(t, ToInt(nil))
		assert.Nil(t, ToInt("NaN"))
		assert.Nil(t, ToInt("  "))
	})

	t.Run("Expect: plain integers and JSON numbers to convert", func(t *testing.T) {
		got := ToInt("42")
		assert.Equal(t, int64(42), *got)

		got = ToInt(float64(12))
		assert.Equal(t, int64(12), *got)

		got = ToInt("-3")
		assert.Equal(t, int64(-3), *got)
	})
}

func TestToFloat(t *testing.T) {
	got := ToFloat("3.5")
	assert.NotNil(t, got)
	assert.Equal(t, 3.5, *got)

	assert.Nil(t, ToFloat(""))
	assert.Nil(t, ToFloat("n/a s"))
	assert.Nil(t, ToFloat(nil))
	assert.Nil(t, ToFloat("nan"))
}

func TestToStr(t *testing.T) {
	got := ToStr("  x  ")
	assert.NotNil(t, got)
	assert.Equal(t, "x", *got)

	assert.Nil(t, ToStr(""))
	assert.Nil(t, ToStr("   "))
	assert.Nil(t, ToStr(nil))

	got = ToStr(float64(2))
	assert.Equal(t, "2", *got)
}

func TestToDate(t *testing.T) {
	got := ToDate("2025-07-01T13:30:00")
	assert.Equal(t, "2025-07-01", *got)

	got = ToDate("2025-07-01")
	assert.Equal(t, "2025-07-01", *got)

	assert.Nil(t, ToDate(""))
	assert.Nil(t, ToDate(nil))
}

func TestToJSON(t *testing.T) {
	t.Run("Expect: nested values to serialize", func(t *testing.T) {
		got := ToJSON(map[string]any{"wins": 3})
		assert.NotNil(t, got)
		assert.JSONEq(t, `{"wins":3}`, *got)

		got = ToJSON([]any{"a", "b"})
		assert.JSONEq(t, `["a","b"]`, *got)
	})

	t.Run("Expect: absent and empty structures to be nil, not sentinels", func(t *testing.T) {
		assert.Nil(t, ToJSON(nil))
		assert.Nil(t, ToJSON([]any{}))
		assert.Nil(t, ToJSON(map[string]any{}))
		assert.Nil(t, ToJSON(""))
	})
}
