package ingestion

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Yorktech/rpscrape/internal/models"
	"github.com/Yorktech/rpscrape/pkg/checksum"
)

// Processor owns file discovery and the pending -> processed transition. It is
// the only component that moves or renames files.
type Processor interface {
	ScanForFiles(target string, ext string) ([]models.FileInfo, error)
	MoveToProcessed(path string) (string, error)
}

type FileProcessor struct {
	processedDir string
}

func NewFileProcessor(processedDir string) *FileProcessor {
	return &FileProcessor{processedDir: processedDir}
}

// ScanForFiles lists the files to ingest. A file target is returned as-is; a
// directory target is walked for files matching the extension. Each file's
// checksum is computed up front for the already-processed check; a file whose
// checksum cannot be computed is skipped with a logged diagnostic.
func (fp *FileProcessor) ScanForFiles(target string, ext string) ([]models.FileInfo, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("cannot stat %s: %w", target, err)
	}

	if !info.IsDir() {
		sum, err := checksum.GetFileChecksum(target)
		if err != nil {
			return nil, err
		}
		return []models.FileInfo{{Path: target, Checksum: sum}}, nil
	}

	var fileInfos []models.FileInfo
	log.Printf("Scanning for *%s files in: %s", ext, target)

	err = filepath.Walk(target, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ext) {
			return nil
		}

		sum, err := checksum.GetFileChecksum(path)
		if err != nil {
			log.Printf("WARN: could not checksum %s: %v. Skipping file.", path, err)
			return nil
		}
		fileInfos = append(fileInfos, models.FileInfo{Path: path, Checksum: sum})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", target, err)
	}

	log.Printf("Found %d files to process.", len(fileInfos))
	return fileInfos, nil
}

// MoveToProcessed moves a fully uploaded file into the processed directory as
// one rename: the file either lands at the destination or stays untouched at
// the source. A name collision gets a timestamp suffix before the extension;
// an existing processed file is never overwritten.
func (fp *FileProcessor) MoveToProcessed(path string) (string, error) {
	if err := os.MkdirAll(fp.processedDir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create processed directory %s: %w", fp.processedDir, err)
	}

	dest := filepath.Join(fp.processedDir, filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(dest)
		stem := strings.TrimSuffix(filepath.Base(dest), ext)
		stamp := time.Now().Format("20060102_150405")
		dest = filepath.Join(fp.processedDir, fmt.Sprintf("%s_%s%s", stem, stamp, ext))
	}

	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("cannot move %s to %s: %w", path, dest, err)
	}

	log.Printf("Moved %s to processed directory as %s", filepath.Base(path), filepath.Base(dest))
	return dest, nil
}
