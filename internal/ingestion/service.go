package ingestion

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/Yorktech/rpscrape/internal/database"
	"github.com/Yorktech/rpscrape/internal/models"
	"github.com/Yorktech/rpscrape/internal/parser"
	"github.com/Yorktech/rpscrape/internal/schema"
	"github.com/google/uuid"
)

// maxRecordedErrors caps how many row errors are stored per file record; a
// file with more than this is probably malformed wholesale.
const maxRecordedErrors = 100

type Format int

const (
	FormatResults Format = iota
	FormatRacecards
)

func ParseFormat(s string) (Format, error) {
	switch s {
	case "results":
		return FormatResults, nil
	case "racecards":
		return FormatRacecards, nil
	}
	return 0, fmt.Errorf("unknown input format %q (want results or racecards)", s)
}

func (f Format) Ext() string {
	if f == FormatRacecards {
		return ".json"
	}
	return ".csv"
}

func (f Format) Table() schema.Table {
	if f == FormatRacecards {
		return schema.Racecards()
	}
	return schema.Results()
}

// Service drives one ingestion run: discover files, then per file
// parse -> upload -> archive, with all failures recovered at the narrowest
// scope and aggregated upward. No file's failure stops its siblings.
type Service struct {
	dbManager database.DBManager
	uploader  BatchUploader
	processor Processor
	format    Format
}

func NewService(dbManager database.DBManager, uploader BatchUploader, processor Processor, format Format) *Service {
	return &Service{
		dbManager: dbManager,
		uploader:  uploader,
		processor: processor,
		format:    format,
	}
}

// Run processes every discovered file and reports the aggregate summary. The
// returned error covers discovery only; per-file failures are counted, never
// propagated.
func (s *Service) Run(target string) (models.RunSummary, error) {
	summary := models.RunSummary{RunID: uuid.NewString()}

	files, err := s.processor.ScanForFiles(target, s.format.Ext())
	if err != nil {
		return summary, err
	}
	if len(files) == 0 {
		log.Printf("No *%s files found at %s", s.format.Ext(), target)
		return summary, nil
	}

	for _, fileInfo := range files {
		result := s.processFile(fileInfo, summary.RunID)

		summary.Files++
		summary.RowsAccepted += result.Outcome.Accepted
		summary.RowsFailed += result.Outcome.Failed
		if result.Skipped {
			summary.SkippedFiles++
		}
		if result.Uploaded() {
			summary.Succeeded++
		} else {
			summary.Failed++
			log.Printf("ERROR: failed to fully upload %s (%d accepted, %d failed)", result.Path, result.Outcome.Accepted, result.Outcome.Failed)
		}
		if result.ArchiveErr != nil {
			summary.ArchiveFailures++
			// The rows are safely stored; only the archival move failed. Kept
			// distinct from upload failure so nobody re-uploads stored data.
			log.Printf("ERROR: %s uploaded but not archived, leave in place and do NOT re-upload: %v", result.Path, result.ArchiveErr)
		}
	}

	s.logSummary(summary)
	return summary, nil
}

func (s *Service) processFile(fileInfo models.FileInfo, runID string) models.FileResult {
	result := models.FileResult{Path: fileInfo.Path}
	log.Printf("Processing file: %s", fileInfo.Path)

	alreadyDone, err := s.dbManager.IsFileAlreadyProcessed(fileInfo.Checksum)
	if err != nil {
		log.Printf("WARN: could not check processed status for %s: %v", fileInfo.Path, err)
	}
	if alreadyDone {
		log.Printf("File %s (checksum %s) has already been uploaded. Skipping.", fileInfo.Path, fileInfo.Checksum)
		result.Skipped = true
		return result
	}

	fileID, err := s.dbManager.InsertFileRecord(
		filepath.Base(fileInfo.Path),
		time.Now(),
		database.FILE_STATUS_PROCESSING,
		fileInfo.Checksum,
		runID,
	)
	if err != nil {
		log.Printf("ERROR: failed to insert file record for %s: %v. Skipping file.", fileInfo.Path, err)
		result.Outcome.Errors = append(result.Outcome.Errors, models.AppError{File: fileInfo.Path, Message: "failed to insert file record", Err: err})
		return result
	}

	raws, rowErrors, err := s.parse(fileInfo.Path)
	if err != nil {
		log.Printf("ERROR: failed to parse %s: %v", fileInfo.Path, err)
		result.Outcome.Errors = append(result.Outcome.Errors, models.AppError{File: fileInfo.Path, Message: "failed to parse file", Err: err})
		s.updateStatus(fileID, database.FILE_STATUS_FATAL, result.Outcome.Errors)
		return result
	}

	result.ParsedRows = len(raws)
	result.Outcome.Failed += len(rowErrors)
	result.Outcome.Errors = append(result.Outcome.Errors, rowErrors...)

	if len(raws) == 0 {
		log.Printf("ERROR: no parseable rows in %s", fileInfo.Path)
		s.updateStatus(fileID, database.FILE_STATUS_FATAL, result.Outcome.Errors)
		return result
	}

	log.Printf("Parsed %d rows from %s", len(raws), fileInfo.Path)
	result.Outcome.Add(s.uploader.Upload(s.format.Table(), raws))

	status := database.FILE_STATUS_DONE_WITH_ERRORS
	if result.Uploaded() {
		dest, moveErr := s.processor.MoveToProcessed(fileInfo.Path)
		if moveErr != nil {
			result.ArchiveErr = moveErr
			status = database.FILE_STATUS_ARCHIVE_FAILED
			result.Outcome.Errors = append(result.Outcome.Errors, models.AppError{File: fileInfo.Path, Message: "failed to archive file", Err: moveErr})
		} else {
			result.ArchivedAs = dest
			status = database.FILE_STATUS_DONE
		}
	}

	s.updateStatus(fileID, status, result.Outcome.Errors)
	return result
}

func (s *Service) parse(path string) ([]models.RawRecord, []models.AppError, error) {
	if s.format == FormatRacecards {
		return parser.ParseRacecards(path)
	}
	return parser.ParseResults(path, s.format.Table())
}

func (s *Service) updateStatus(fileID int, status string, errs []models.AppError) {
	if len(errs) > maxRecordedErrors {
		errs = errs[:maxRecordedErrors]
	}
	var recorded any
	if len(errs) > 0 {
		recorded = errs
	}
	if err := s.dbManager.UpdateFileStatus(fileID, status, recorded); err != nil {
		log.Printf("ERROR: failed to update status for file record %d: %v", fileID, err)
	}
}

func (s *Service) logSummary(summary models.RunSummary) {
	log.Println("============================================================")
	log.Println("UPLOAD SUMMARY")
	log.Println("============================================================")
	log.Printf("Run: %s", summary.RunID)
	log.Printf("Files: %d total, %d succeeded (%d skipped), %d failed", summary.Files, summary.Succeeded, summary.SkippedFiles, summary.Failed)
	log.Printf("Rows: %d accepted, %d failed", summary.RowsAccepted, summary.RowsFailed)
	if summary.ArchiveFailures > 0 {
		log.Printf("Archive failures (uploaded but still pending on disk): %d", summary.ArchiveFailures)
	}
}
