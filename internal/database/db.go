package database

import (
	"time"

	"github.com/Yorktech/rpscrape/internal/models"
	"github.com/Yorktech/rpscrape/internal/schema"
)

const (
	FILE_STATUS_PROCESSING       = "PROCESSING"
	FILE_STATUS_DONE             = "DONE"
	FILE_STATUS_DONE_WITH_ERRORS = "DONE_WITH_ERRORS"
	FILE_STATUS_ARCHIVE_FAILED   = "ARCHIVE_FAILED"
	FILE_STATUS_FATAL            = "FATAL"
)

// DBManager is the contract the pipeline needs from the tabular store. Insert
// and Upsert return the number of rows the store accepted; a response
// accepting fewer rows than submitted is treated by callers as a failure of
// the whole call.
type DBManager interface {
	CreateFileRecordsTable() error
	CreateResultsTable() error
	CreateRacecardsTable() error
	Insert(table schema.Table, rows []models.Record) (int, error)
	Upsert(table schema.Table, rows []models.Record) (int, error)
	InsertFileRecord(fileName string, processedAt time.Time, status string, checksum string, runID string) (int, error)
	UpdateFileStatus(fileID int, status string, errors any) error
	IsFileAlreadyProcessed(checksum string) (bool, error)
}
