package ingestion

import (
	"fmt"
	"log"

	"github.com/Yorktech/rpscrape/internal/database"
	"github.com/Yorktech/rpscrape/internal/models"
	"github.com/Yorktech/rpscrape/internal/schema"
	"github.com/Yorktech/rpscrape/internal/transform"
)

type UploadMode int

const (
	ModeInsert UploadMode = iota
	ModeUpsert
)

func ParseMode(s string) (UploadMode, error) {
	switch s {
	case "insert":
		return ModeInsert, nil
	case "upsert":
		return ModeUpsert, nil
	}
	return 0, fmt.Errorf("unknown upload mode %q (want insert or upsert)", s)
}

// BatchUploader submits a file's repaired rows to the store in batches.
type BatchUploader interface {
	Upload(table schema.Table, records []models.RawRecord) models.UploadOutcome
}

type Uploader struct {
	dbManager database.DBManager
	batchSize int
	mode      UploadMode
}

func NewUploader(dbManager database.DBManager, batchSize int, mode UploadMode) *Uploader {
	return &Uploader{
		dbManager: dbManager,
		batchSize: batchSize,
		mode:      mode,
	}
}

// Upload partitions records into consecutive batches (the last may be
// smaller), transforms each batch and submits it in sequence. Failure is
// terminal per batch but isolated: a failed batch never stops the next one.
// Rows dropped by the transform count as failed rows in the aggregate.
func (u *Uploader) Upload(table schema.Table, records []models.RawRecord) models.UploadOutcome {
	var outcome models.UploadOutcome

	total := len(records)
	batchNum := 0
	for start := 0; start < total; start += u.batchSize {
		end := start + u.batchSize
		if end > total {
			end = total
		}
		batchNum++
		outcome.Add(u.uploadBatch(table, records[start:end], batchNum))
	}

	return outcome
}

func (u *Uploader) uploadBatch(table schema.Table, batch []models.RawRecord, batchNum int) models.UploadOutcome {
	var outcome models.UploadOutcome

	rows := make([]models.Record, 0, len(batch))
	for _, raw := range batch {
		row, err := transform.Apply(raw, table)
		if err != nil {
			log.Printf("ERROR: batch %d: dropping record that failed to transform: %v (record: %v)", batchNum, err, raw)
			outcome.Failed++
			outcome.Errors = append(outcome.Errors, models.AppError{Message: "failed to transform record", Err: err})
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		log.Printf("WARN: batch %d is empty after transformation, skipping", batchNum)
		return outcome
	}

	accepted, err := u.submit(table, rows)
	if err != nil {
		log.Printf("ERROR: batch %d failed (%d rows): %v", batchNum, len(rows), err)
		outcome.Failed += len(rows)
		outcome.Errors = append(outcome.Errors, models.AppError{Message: fmt.Sprintf("batch %d rejected by store", batchNum), Err: err})
		return outcome
	}

	if accepted < len(rows) {
		// The store did not say which subset succeeded, so the whole batch is
		// conservatively counted failed.
		log.Printf("ERROR: batch %d partially accepted (%d of %d rows), counting batch as failed", batchNum, accepted, len(rows))
		outcome.Failed += len(rows)
		outcome.Errors = append(outcome.Errors, models.AppError{Message: fmt.Sprintf("batch %d partially accepted: %d of %d rows", batchNum, accepted, len(rows))})
		return outcome
	}

	log.Printf("Batch %d uploaded successfully (%d rows)", batchNum, accepted)
	outcome.Accepted += accepted
	return outcome
}

func (u *Uploader) submit(table schema.Table, rows []models.Record) (int, error) {
	if u.mode == ModeUpsert {
		return u.dbManager.Upsert(table, rows)
	}
	return u.dbManager.Insert(table, rows)
}
