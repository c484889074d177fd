package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/j-veylop/material-forecast-tui/internal/models"
)

// ReadTable returns the header and every record of table as text.
// NULL cells become empty strings; numbers are rendered without exponent.
func (db *DB) ReadTable(ctx context.Context, table string) ([]string, [][]string, error) {
	query := fmt.Sprintf("SELECT * FROM %s", quoteIdent(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var records [][]string
	for rows.Next() {
		values := make([]any, len(header))
		ptrs := make([]any, len(header))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make([]string, len(values))
		for i, v := range values {
			record[i] = cellText(v)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return header, records, nil
}

// WriteTable replaces table with the given rows, writing only the listed columns.
func (db *DB) WriteTable(ctx context.Context, table string, columns []models.Column, rows []models.Row) error {
	if len(columns) == 0 {
		return fmt.Errorf("no columns to write")
	}

	defs := make([]string, len(columns))
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = quoteIdent(c.String())
		defs[i] = names[i] + " " + columnType(c)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table),
		strings.Join(names, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "),
	)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	args := make([]any, len(columns))
	for _, r := range rows {
		for i, c := range columns {
			args[i] = cellValue(r, c)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}

	return tx.Commit()
}

func columnType(c models.Column) string {
	switch {
	case c == models.ColID || c == models.ColMasterItemNo:
		return "INTEGER"
	case c.IsMetric():
		return "REAL"
	default:
		return "TEXT"
	}
}

func cellValue(r models.Row, c models.Column) any {
	switch c {
	case models.ColID:
		return sql.NullInt64{Int64: r.ID, Valid: r.IDValid}
	case models.ColMasterItemNo:
		return sql.NullInt64{Int64: r.MasterItemNo, Valid: r.ItemValid}
	case models.ColUOM:
		return nullString(r.UOM)
	default:
		return r.Metric(c)
	}
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []byte:
		return string(x)
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// nullString converts an empty string to NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
