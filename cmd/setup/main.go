package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Yorktech/rpscrape/internal/database"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("Starting database setup...")

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	dbpool, err := database.ConnectDB(dbURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer dbpool.Close()

	dbManager := database.NewPostgresDBManager(context.Background(), dbpool)

	fmt.Println("Creating file_records table...")
	if err := dbManager.CreateFileRecordsTable(); err != nil {
		log.Fatalf("Error creating file_records table: %v", err)
	}

	fmt.Println("Creating historical_racing_results table...")
	if err := dbManager.CreateResultsTable(); err != nil {
		log.Fatalf("Error creating historical_racing_results table: %v", err)
	}

	fmt.Println("Creating racecards table...")
	if err := dbManager.CreateRacecardsTable(); err != nil {
		log.Fatalf("Error creating racecards table: %v", err)
	}

	fmt.Println("Database setup finished successfully.")
}
