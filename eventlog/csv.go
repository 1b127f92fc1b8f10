package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{"run_id", "rule", "mode", "index", "text", "timestamp"}

// WriteCSV writes records to w as CSV with a header row.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, rec := range records {
		row := []string{
			rec.RunID,
			rec.Rule,
			rec.Mode,
			strconv.Itoa(rec.Index),
			rec.Text,
			rec.Timestamp.Format(time.RFC3339Nano),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a CSV generation log written by WriteCSV.
func ReadCSV(r io.Reader) (*Log, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range csvHeader {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	log := NewLog()
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		index, err := strconv.Atoi(row[col["index"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid index: %w", rowNum, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, row[col["timestamp"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid timestamp: %w", rowNum, err)
		}

		log.Append(Record{
			RunID:     row[col["run_id"]],
			Rule:      row[col["rule"]],
			Mode:      row[col["mode"]],
			Index:     index,
			Text:      row[col["text"]],
			Timestamp: ts,
		})
	}
	return log, nil
}
