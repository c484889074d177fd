package dataset

import (
	"context"

	"github.com/j-veylop/material-forecast-tui/internal/db"
	"github.com/j-veylop/material-forecast-tui/internal/models"
)

func readSQLite(path, table string) ([]string, [][]string, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = conn.Close() }()

	return conn.ReadTable(context.Background(), table)
}

func writeSQLite(path, table string, t *models.Table) error {
	conn, err := db.New(path)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	return conn.WriteTable(context.Background(), table, exportColumns(t), t.Rows)
}
