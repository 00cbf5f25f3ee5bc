package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Yorktech/rpscrape/internal/models"
	"github.com/Yorktech/rpscrape/internal/schema"
)

const delimiter = ','

// ParseResults reads a delimited results file and maps every row onto the
// expected schema, repairing ragged rows on the way. The whole file is parsed
// into memory before the caller sees it; each call re-reads the file.
//
// Repair rules, in order:
//   - fewer fields than expected: right-pad with empty strings (missing
//     trailing free-text fields are assumed empty);
//   - more fields than expected: rejoin everything from the last expected
//     position onward with the delimiter, assuming the overflow came from an
//     unescaped delimiter inside the trailing comment field. With two or more
//     corrupted fields in one row this is lossy; that is the accepted
//     trade-off, not something the parser tries to outguess.
//
// Rows that cannot be tokenized at all are skipped, logged and returned as
// row errors; they never abort the rest of the file.
func ParseResults(path string, table schema.Table) ([]models.RawRecord, []models.AppError, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}

	expected := len(table.Columns)
	if len(header) != expected {
		// The header is informational only; positions always follow the
		// expected schema order.
		log.Printf("WARN: %s: header has %d columns, expected %d", path, len(header), expected)
	}

	var records []models.RawRecord
	var rowErrors []models.AppError

	rowNum := 1 // header is row 1
	for {
		rowNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("ERROR: %s row %d: skipping untokenizable row: %v", path, rowNum, err)
			rowErrors = append(rowErrors, models.AppError{File: path, Row: rowNum, Message: "untokenizable row", Err: err})
			continue
		}

		records = append(records, mapRow(repairRow(row, expected), table))
	}

	return records, rowErrors, nil
}

// repairRow forces a tokenized row to exactly n fields.
func repairRow(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}
	if len(row) > n {
		tail := strings.Join(row[n-1:], string(delimiter))
		row = append(row[:n-1], tail)
	}
	return row
}

func mapRow(row []string, table schema.Table) models.RawRecord {
	record := make(models.RawRecord, len(table.Columns))
	for i, col := range table.Columns {
		record[col.Name] = row[i]
	}
	return record
}
