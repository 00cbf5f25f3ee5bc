// Package transform maps repaired raw records onto the canonical typed schema
// of a target table, applying one coercion per column.
package transform

import (
	"fmt"

	"github.com/Yorktech/rpscrape/internal/coerce"
	"github.com/Yorktech/rpscrape/internal/models"
	"github.com/Yorktech/rpscrape/internal/schema"
)

// Apply builds one typed record from a raw record. Per-column coercion never
// fails: a value that cannot be converted becomes null in that column. The
// reserved-word rename (or -> or_rating) comes from the schema's static
// column mapping. Apply is pure; calling it twice on the same input yields
// identical output.
func Apply(raw models.RawRecord, table schema.Table) (models.Record, error) {
	if raw == nil {
		return nil, fmt.Errorf("nil raw record")
	}

	record := make(models.Record, len(table.Columns))
	for _, col := range table.Columns {
		record[col.Dest()] = coerceValue(raw[col.Name], col.Kind)
	}
	return record, nil
}

func coerceValue(v any, kind schema.Kind) any {
	switch kind {
	case schema.Int:
		if p := coerce.ToInt(v); p != nil {
			return *p
		}
	case schema.Float:
		if p := coerce.ToFloat(v); p != nil {
			return *p
		}
	case schema.Date:
		if p := coerce.ToDate(v); p != nil {
			return *p
		}
	case schema.JSON:
		if p := coerce.ToJSON(v); p != nil {
			return *p
		}
	default:
		if p := coerce.ToStr(v); p != nil {
			return *p
		}
	}
	return nil
}
