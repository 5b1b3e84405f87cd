// Package decode holds stateless byte-to-value decoders with the
// fallback policies the extractors rely on.
package decode

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"golang.org/x/text/encoding/charmap"
)

// Table is a decoded tabular payload: named columns plus string cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ParseTable decodes CSV bytes. It first assumes a header row; if the
// first column name is purely numeric the data is re-read headerless
// (numeric column names imply no header was present). On any decode
// failure the same two-step logic is retried under Latin-1.
func ParseTable(content []byte) (Table, error) {
	table, err := parseCSV(content)
	if err == nil {
		return table, nil
	}

	decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if decErr != nil {
		return Table{}, fmt.Errorf("parse csv: %w", err)
	}
	table, latinErr := parseCSV(decoded)
	if latinErr != nil {
		return Table{}, fmt.Errorf("parse csv (latin-1 fallback): %w", latinErr)
	}
	return table, nil
}

func parseCSV(content []byte) (Table, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, err
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("empty csv input")
	}

	header := records[0]
	if len(header) > 0 && isNumeric(header[0]) {
		// Headerless data: synthesize positional column names.
		columns := make([]string, len(header))
		for i := range columns {
			columns[i] = strconv.Itoa(i)
		}
		return Table{Columns: columns, Rows: records}, nil
	}

	return Table{Columns: header, Rows: records[1:]}, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
