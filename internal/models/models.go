package models

import (
	"encoding/json"
	"fmt"
)

// RawRecord is one repaired source row: source column name -> raw value.
// CSV rows hold string values; racecard rows may hold nested JSON values.
type RawRecord map[string]any

// Record is one typed row ready for upload: destination column name -> typed
// value (nil, string, int64 or float64). Records are plain values with no
// shared state, so re-transforming the same RawRecord yields identical output.
type Record map[string]any

type AppError struct {
	File    string `json:"file,omitempty"`
	Row     int    `json:"row,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s row %d: %s - %v", e.File, e.Row, e.Message, e.Err)
	}
	return fmt.Sprintf("%s row %d: %s", e.File, e.Row, e.Message)
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias AppError
	out := struct {
		*alias
		Cause string `json:"cause,omitempty"`
	}{alias: (*alias)(e)}
	if e.Err != nil {
		out.Cause = e.Err.Error()
	}
	return json.Marshal(out)
}

// UploadOutcome aggregates per-batch accounting for one file.
type UploadOutcome struct {
	Accepted int
	Failed   int
	Errors   []AppError
}

func (o *UploadOutcome) Add(other UploadOutcome) {
	o.Accepted += other.Accepted
	o.Failed += other.Failed
	o.Errors = append(o.Errors, other.Errors...)
}

// Clean reports whether every submitted row was accepted.
func (o *UploadOutcome) Clean() bool {
	return o.Failed == 0
}

type FileInfo struct {
	Path     string
	Checksum string
}

// FileResult is the terminal accounting for one source file.
type FileResult struct {
	Path       string
	Skipped    bool   // checksum already uploaded in a previous run
	ArchivedAs string // destination path after the pending -> processed move
	ArchiveErr error  // move failed after a clean upload
	Outcome    UploadOutcome
	ParsedRows int
}

// Uploaded reports whether every row of the file reached the store. A file
// with zero parseable rows never counts as uploaded.
func (r *FileResult) Uploaded() bool {
	return r.Skipped || (r.ParsedRows > 0 && r.Outcome.Clean())
}

type RunSummary struct {
	RunID           string
	Files           int
	Succeeded       int
	Failed          int
	SkippedFiles    int
	ArchiveFailures int
	RowsAccepted    int
	RowsFailed      int
}

// Ok is the process exit contract: true only when every discovered file
// achieved a fully successful upload.
func (s *RunSummary) Ok() bool {
	return s.Failed == 0
}
