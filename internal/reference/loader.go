package reference

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/patrickmn/go-cache"
	"github.com/xuri/excelize/v2"
)

// Parsed tables are memoized by content hash for the life of the process.
// Re-uploading the same extract in a new session skips the parse.
var tableCache = cache.New(cache.NoExpiration, cache.NoExpiration)

func contentKey(kind string, data []byte) string {
	sum := sha256.Sum256(data)
	return kind + ":" + hex.EncodeToString(sum[:])
}

// LoadCSV parses a delimited extract (the insurance/servicing file is
// pipe-delimited) with the first row as headers.
func LoadCSV(r io.Reader, delimiter rune) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	key := contentKey(fmt.Sprintf("csv:%c", delimiter), data)
	if cached, ok := tableCache.Get(key); ok {
		return cached.(*Table), nil
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	t := tableFromRecords(records)
	tableCache.SetDefault(key, t)
	return t, nil
}

// LoadWorkbookSheet parses one named sheet of a spreadsheet workbook,
// skipping skipRows leading rows before the header row. Upstream exports
// tend to put a title banner above the real header.
func LoadWorkbookSheet(r io.Reader, sheet string, skipRows int) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	key := contentKey(fmt.Sprintf("xlsx:%s:%d", sheet, skipRows), data)
	if cached, ok := tableCache.Get(key); ok {
		return cached.(*Table), nil
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if skipRows > 0 {
		if skipRows >= len(rows) {
			rows = nil
		} else {
			rows = rows[skipRows:]
		}
	}

	t := tableFromRecords(rows)
	tableCache.SetDefault(key, t)
	return t, nil
}
