// Package sqlite provides the SQLite-backed document registry.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ragpipe/internal/adapters/driven/registry/sqlite/migrations"
	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.DocumentRegistry = (*Registry)(nil)

// Registry is the SQLite-backed processed-document ledger.
type Registry struct {
	db   *sql.DB
	path string
}

// NewRegistry opens (or creates) the registry database in dataDir.
// If dataDir is empty, defaults to ~/.ragpipe/data/registry.db.
func NewRegistry(dataDir string) (*Registry, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragpipe", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "registry.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	r := &Registry{
		db:   db,
		path: dbPath,
	}

	if err := r.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return r, nil
}

// Close closes the database connection.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Registry) Path() string {
	return r.path
}

// Get retrieves the latest record for a document.
func (r *Registry) Get(ctx context.Context, documentID string) (*domain.ProcessedRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT document_id, version, fingerprint, collection_name, strategy,
		       strategy_params, embedding_model, chunk_ids, processed_at
		FROM processed_documents
		WHERE document_id = ?
		ORDER BY version DESC
		LIMIT 1
	`, documentID)

	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying record: %w", err)
	}
	return record, nil
}

// Put appends a record version. The caller sets Version.
func (r *Registry) Put(ctx context.Context, record *domain.ProcessedRecord) error {
	params, err := json.Marshal(record.StrategyParams)
	if err != nil {
		return fmt.Errorf("marshalling strategy params: %w", err)
	}
	chunkIDs, err := json.Marshal(record.ChunkIDs)
	if err != nil {
		return fmt.Errorf("marshalling chunk IDs: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO processed_documents
			(document_id, version, fingerprint, collection_name, strategy,
			 strategy_params, embedding_model, chunk_ids, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.DocumentID,
		record.Version,
		string(record.Fingerprint),
		record.CollectionName,
		record.Strategy,
		string(params),
		record.EmbeddingModel,
		string(chunkIDs),
		record.ProcessedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

// List returns the latest record of every tracked document, ordered by ID.
func (r *Registry) List(ctx context.Context) ([]domain.ProcessedRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.document_id, p.version, p.fingerprint, p.collection_name,
		       p.strategy, p.strategy_params, p.embedding_model, p.chunk_ids,
		       p.processed_at
		FROM processed_documents p
		JOIN (
			SELECT document_id, MAX(version) AS version
			FROM processed_documents
			GROUP BY document_id
		) latest
		ON p.document_id = latest.document_id AND p.version = latest.version
		ORDER BY p.document_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.ProcessedRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// scanner abstracts over sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.ProcessedRecord, error) {
	var (
		record      domain.ProcessedRecord
		fingerprint string
		params      string
		chunkIDs    string
		processedAt string
	)
	err := row.Scan(
		&record.DocumentID,
		&record.Version,
		&fingerprint,
		&record.CollectionName,
		&record.Strategy,
		&params,
		&record.EmbeddingModel,
		&chunkIDs,
		&processedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Fingerprint = domain.Fingerprint(fingerprint)
	if err := json.Unmarshal([]byte(params), &record.StrategyParams); err != nil {
		return nil, fmt.Errorf("unmarshalling strategy params: %w", err)
	}
	if err := json.Unmarshal([]byte(chunkIDs), &record.ChunkIDs); err != nil {
		return nil, fmt.Errorf("unmarshalling chunk IDs: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, processedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing processed_at: %w", err)
	}
	record.ProcessedAt = ts
	return &record, nil
}

func (r *Registry) migrate(fsys embed.FS) error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := r.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := r.db.Exec(string(content)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := r.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}
