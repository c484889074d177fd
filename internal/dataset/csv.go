package dataset

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// readDelimited reads a delimited text file. Every column is kept as text so
// coercion happens in one place for all formats.
func readDelimited(path string, delim rune) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(delim),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		return nil, nil, fmt.Errorf("failed to parse: %w", df.Err)
	}

	records := df.Records()
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}
