package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Yorktech/rpscrape/internal/models"
	"github.com/Yorktech/rpscrape/internal/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectDB(connStr string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	return dbpool, nil
}

type PostgresDBManager struct {
	dbpool *pgxpool.Pool
	ctx    context.Context
}

func NewPostgresDBManager(ctx context.Context, pool *pgxpool.Pool) *PostgresDBManager {
	return &PostgresDBManager{dbpool: pool, ctx: ctx}
}

func (m *PostgresDBManager) CreateFileRecordsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS file_records (
		id SERIAL PRIMARY KEY,
		file_name VARCHAR(255) NOT NULL,
		run_id VARCHAR(36) NOT NULL,
		processed_at TIMESTAMP NOT NULL,
		status VARCHAR(50) NOT NULL CHECK (status IN ('PROCESSING', 'DONE', 'DONE_WITH_ERRORS', 'ARCHIVE_FAILED', 'FATAL')),
		checksum VARCHAR(64),
		errors jsonb
	);`

	_, err := m.dbpool.Exec(m.ctx, query)
	if err != nil {
		return fmt.Errorf("error creating file_records table: %v", err)
	}

	return nil
}

func (m *PostgresDBManager) CreateResultsTable() error {
	return m.createSchemaTable(schema.Results())
}

func (m *PostgresDBManager) CreateRacecardsTable() error {
	return m.createSchemaTable(schema.Racecards())
}

// createSchemaTable builds the DDL for a target table from its expected
// schema, plus the unique natural-key index that backs upsert conflict
// resolution.
func (m *PostgresDBManager) createSchemaTable(table schema.Table) error {
	defs := make([]string, 0, len(table.Columns)+1)
	defs = append(defs, "id BIGSERIAL PRIMARY KEY")
	for _, col := range table.Columns {
		defs = append(defs, fmt.Sprintf("%s %s", pgx.Identifier{col.Dest()}.Sanitize(), sqlType(col.Kind)))
	}

	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n);",
		pgx.Identifier{table.Name}.Sanitize(), strings.Join(defs, ",\n\t"))

	if _, err := m.dbpool.Exec(m.ctx, query); err != nil {
		return fmt.Errorf("error creating %s table: %v", table.Name, err)
	}

	keyCols := make([]string, len(table.ConflictKey))
	for i, k := range table.ConflictKey {
		keyCols[i] = pgx.Identifier{k}.Sanitize()
	}
	indexQuery := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s);",
		pgx.Identifier{table.Name + "_natural_key"}.Sanitize(),
		pgx.Identifier{table.Name}.Sanitize(),
		strings.Join(keyCols, ", "))

	if _, err := m.dbpool.Exec(m.ctx, indexQuery); err != nil {
		return fmt.Errorf("error creating natural key index for %s: %v", table.Name, err)
	}

	return nil
}

func sqlType(kind schema.Kind) string {
	switch kind {
	case schema.Int:
		return "BIGINT"
	case schema.Float:
		return "DOUBLE PRECISION"
	case schema.Date:
		return "DATE"
	case schema.JSON:
		return "JSONB"
	default:
		return "TEXT"
	}
}

// Insert submits one batch as a single multi-row INSERT. Any conflict with the
// natural-key index fails the whole statement, which is the insert-mode
// contract.
func (m *PostgresDBManager) Insert(table schema.Table, rows []models.Record) (int, error) {
	query, args := buildInsert(table, rows, "")
	tag, err := m.dbpool.Exec(m.ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error inserting batch into %s: %w", table.Name, err)
	}
	return int(tag.RowsAffected()), nil
}

// Upsert submits one batch with ON CONFLICT resolution on the table's natural
// key: a conflicting key overwrites the stored row instead of erroring.
func (m *PostgresDBManager) Upsert(table schema.Table, rows []models.Record) (int, error) {
	query, args := buildInsert(table, rows, conflictClause(table))
	tag, err := m.dbpool.Exec(m.ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error upserting batch into %s: %w", table.Name, err)
	}
	return int(tag.RowsAffected()), nil
}

func buildInsert(table schema.Table, rows []models.Record, suffix string) (string, []any) {
	cols := table.DestNames()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}

	args := make([]any, 0, len(rows)*len(cols))
	valueRows := make([]string, len(rows))
	placeholder := 1
	for r, row := range rows {
		ph := make([]string, len(cols))
		for c, col := range cols {
			ph[c] = fmt.Sprintf("$%d", placeholder)
			placeholder++
			args = append(args, row[col])
		}
		valueRows[r] = "(" + strings.Join(ph, ", ") + ")"
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s%s;",
		pgx.Identifier{table.Name}.Sanitize(),
		strings.Join(quoted, ", "),
		strings.Join(valueRows, ", "),
		suffix)

	return query, args
}

func conflictClause(table schema.Table) string {
	keyCols := make([]string, len(table.ConflictKey))
	keySet := make(map[string]bool, len(table.ConflictKey))
	for i, k := range table.ConflictKey {
		keyCols[i] = pgx.Identifier{k}.Sanitize()
		keySet[k] = true
	}

	var updates []string
	for _, c := range table.DestNames() {
		if keySet[c] {
			continue
		}
		quoted := pgx.Identifier{c}.Sanitize()
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", quoted, quoted))
	}

	return fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s",
		strings.Join(keyCols, ", "), strings.Join(updates, ", "))
}

func (m *PostgresDBManager) InsertFileRecord(fileName string, processedAt time.Time, status string, checksum string, runID string) (int, error) {
	query := `
	INSERT INTO file_records (file_name, run_id, processed_at, status, checksum)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id;`

	var fileID int
	err := m.dbpool.QueryRow(m.ctx, query, fileName, runID, processedAt, status, checksum).Scan(&fileID)
	if err != nil {
		return 0, fmt.Errorf("error inserting file record: %v", err)
	}

	return fileID, nil
}

func (m *PostgresDBManager) UpdateFileStatus(fileID int, status string, errors any) error {
	query := `
	UPDATE file_records
	SET status = $1,
		errors = $2
	WHERE id = $3;`

	_, err := m.dbpool.Exec(m.ctx, query, status, errors, fileID)
	if err != nil {
		return fmt.Errorf("error updating file status: %v", err)
	}

	return nil
}

func (m *PostgresDBManager) IsFileAlreadyProcessed(checksum string) (bool, error) {
	query := `
	SELECT id
	FROM file_records
	WHERE checksum = $1 AND status = 'DONE';`

	var id int

	err := m.dbpool.QueryRow(m.ctx, query, checksum).Scan(&id)

	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("error finding file record by checksum: %v", err)
	}

	return true, nil
}
