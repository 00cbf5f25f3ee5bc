package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Yorktech/rpscrape/internal/config"
	"github.com/Yorktech/rpscrape/internal/database"
	"github.com/Yorktech/rpscrape/internal/ingestion"
	"github.com/joho/godotenv"
)

func setup(modeName, formatName, target string) (*ingestion.Service, func(), error) {
	mode, err := ingestion.ParseMode(modeName)
	if err != nil {
		return nil, nil, err
	}

	format, err := ingestion.ParseFormat(formatName)
	if err != nil {
		return nil, nil, err
	}

	if target == "" {
		return nil, nil, fmt.Errorf("please provide a file or folder path as a command-line argument")
	}

	cfg, err := config.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbpool, err := database.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	dbManager := database.NewPostgresDBManager(context.Background(), dbpool)
	uploader := ingestion.NewUploader(dbManager, cfg.BatchSize, mode)
	processor := ingestion.NewFileProcessor(cfg.ProcessedDir)
	service := ingestion.NewService(dbManager, uploader, processor, format)

	cleanup := func() {
		dbpool.Close()
	}

	return service, cleanup, nil
}

// run returns the process exit code: zero only when every discovered file
// achieved a fully successful upload.
func run() int {
	modeName := flag.String("mode", "insert", "upload mode: insert or upsert")
	formatName := flag.String("format", "results", "input format: results (CSV) or racecards (JSON)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}
	startTime := time.Now()

	service, cleanupFunc, err := setup(*modeName, *formatName, flag.Arg(0))
	if err != nil {
		log.Printf("Setup failed: %v", err)
		return 1
	}
	defer cleanupFunc()

	log.Println("Starting upload process...")
	summary, err := service.Run(flag.Arg(0))
	if err != nil {
		log.Printf("Error during upload: %v", err)
		return 1
	}

	log.Printf("Execution time: %s", time.Since(startTime))

	if !summary.Ok() {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
