package sources

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"hetracker/domain/core"
	"hetracker/domain/dataset"
	"hetracker/ports"
)

// CatalogTable maps dataset IDs to the tables holding their rows
const CatalogTable = "het_datasets"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLSource reads datasets from a database. Each dataset lives in its own
// table, registered in the catalog table.
type SQLSource struct {
	db          *sqlx.DB
	tablePrefix string
}

// NewSQLSource wraps an open database
func NewSQLSource(db *sqlx.DB, tablePrefix string) *SQLSource {
	return &SQLSource{db: db, tablePrefix: tablePrefix}
}

// OpenSQLSource connects with driver ("postgres" or "sqlite3")
func OpenSQLSource(driver, url, tablePrefix string, maxOpenConns int, connMaxLifetime time.Duration) (*SQLSource, error) {
	db, err := sqlx.Connect(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	return NewSQLSource(db, tablePrefix), nil
}

// EnsureCatalog creates the catalog table if it does not exist
func (s *SQLSource) EnsureCatalog(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+s.tablePrefix+CatalogTable+` (
		id TEXT PRIMARY KEY,
		table_name TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create dataset catalog: %w", err)
	}
	return nil
}

// RegisterTable points dataset id at table
func (s *SQLSource) RegisterTable(ctx context.Context, id, table string) error {
	if !tableNamePattern.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	query := s.db.Rebind(`INSERT INTO ` + s.tablePrefix + CatalogTable + ` (id, table_name) VALUES (?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, id, table); err != nil {
		return fmt.Errorf("failed to register dataset %s: %w", id, err)
	}
	return nil
}

func (s *SQLSource) tableFor(ctx context.Context, id string) (string, error) {
	var table string
	query := s.db.Rebind(`SELECT table_name FROM ` + s.tablePrefix + CatalogTable + ` WHERE id = ?`)
	err := s.db.GetContext(ctx, &table, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", core.ErrDatasetNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up dataset %s: %w", id, err)
	}
	if !tableNamePattern.MatchString(table) {
		return "", fmt.Errorf("catalog entry for %s has invalid table name %q", id, table)
	}
	return s.tablePrefix + table, nil
}

// Fetch reads every row of the table registered for id
func (s *SQLSource) Fetch(ctx context.Context, id string) ([]dataset.Row, error) {
	table, err := s.tableFor(ctx, id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := s.db.QueryxContext(ctx, `SELECT * FROM `+table)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset %s: %w", id, err)
	}
	defer rows.Close()

	out := []dataset.Row{}
	for rows.Next() {
		raw := make(map[string]interface{})
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("failed to scan dataset %s: %w", id, err)
		}
		row := make(dataset.Row, len(raw))
		for col, v := range raw {
			row[col] = cellFromSQL(col, v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", id, err)
	}

	log.Printf("[SQLSource] %s read from %s in %.2fms (%d rows)", id, table, float64(time.Since(start).Nanoseconds())/1e6, len(out))
	return out, nil
}

// ImportRows writes rows into a new table and registers it as id. Every
// column is stored as text; suppressed cells and absent columns become NULL.
func (s *SQLSource) ImportRows(ctx context.Context, id, table string, rows []dataset.Row) error {
	if !tableNamePattern.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	seen := make(map[string]bool)
	var cols []string
	for _, r := range rows {
		for _, c := range r.Columns() {
			if seen[c] {
				continue
			}
			if !tableNamePattern.MatchString(c) {
				return fmt.Errorf("dataset %s has invalid column name %q", id, c)
			}
			seen[c] = true
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return fmt.Errorf("dataset %s has no columns", id)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import of %s: %w", id, err)
	}
	defer tx.Rollback()

	defs := make([]string, len(cols))
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = `"` + c + `"`
		defs[i] = quoted[i] + " TEXT"
		marks[i] = "?"
	}
	name := s.tablePrefix + table
	if _, err := tx.ExecContext(ctx, `CREATE TABLE `+name+` (`+strings.Join(defs, ", ")+`)`); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	insert := tx.Rebind(`INSERT INTO ` + name + ` (` + strings.Join(quoted, ", ") + `) VALUES (` + strings.Join(marks, ", ") + `)`)
	for _, r := range rows {
		args := make([]interface{}, len(cols))
		for i, c := range cols {
			if v := r.Get(c); !v.IsMissing() {
				args[i] = v.Text()
			}
		}
		if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", name, err)
		}
	}

	register := tx.Rebind(`INSERT INTO ` + s.tablePrefix + CatalogTable + ` (id, table_name) VALUES (?, ?)`)
	if _, err := tx.ExecContext(ctx, register, id, table); err != nil {
		return fmt.Errorf("failed to register dataset %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import of %s: %w", id, err)
	}
	log.Printf("[SQLSource] imported %s into %s (%d rows)", id, name, len(rows))
	return nil
}

// List returns every dataset ID in the catalog
func (s *SQLSource) List(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, `SELECT id FROM `+s.tablePrefix+CatalogTable+` ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	return ids, nil
}

// Close closes the database
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// drivers return numeric and text columns as []byte or string depending on
// the column type, so both go through the text path
func cellFromSQL(col string, v interface{}) dataset.Value {
	switch t := v.(type) {
	case nil:
		return dataset.Suppressed()
	case []byte:
		return cellFromText(col, string(t))
	case string:
		return cellFromText(col, t)
	case time.Time:
		return dataset.Str(t.Format("2006-01-02"))
	}
	cell := dataset.FromInterface(v)
	if isIdentifierColumn(col) && cell.IsNumber() {
		return dataset.Str(cell.Text())
	}
	return cell
}

var _ ports.DatasetSource = (*SQLSource)(nil)
