package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// utf8BOM prefixes CSV exports saved by spreadsheet tools on Windows.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// loadCSV reads a CSV export. The delimiter is sniffed from the header line
// because the same teams produce both comma and semicolon files.
func loadCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user's own flags
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rows, nil
}

// sniffDelimiter picks ';' when the first line has more semicolons than
// commas, otherwise ','.
func sniffDelimiter(data []byte) rune {
	line := string(data)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}
