// Package eventlog records generation runs: one record per generated
// string, tagged with the run that produced it. Logs can be written to and
// read back from JSONL and CSV.
package eventlog

import (
	"sort"
	"time"
)

// Record is a single generated string within a run.
type Record struct {
	RunID     string    `json:"run_id"`
	Rule      string    `json:"rule"`    // starting rule, empty for all public rules
	Mode      string    `json:"mode"`    // "expand" or "sample"
	Index     int       `json:"index"`   // position within the run, starting at 0
	Text      string    `json:"text"`    // the generated string
	Timestamp time.Time `json:"timestamp"`
}

// Log accumulates the records of one or more runs.
type Log struct {
	Records []Record
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append adds a record.
func (l *Log) Append(rec Record) {
	l.Records = append(l.Records, rec)
}

// RunIDs returns the distinct run identifiers in the log, sorted.
func (l *Log) RunIDs() []string {
	seen := make(map[string]bool)
	for _, rec := range l.Records {
		seen[rec.RunID] = true
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Run returns the records of a single run, in index order.
func (l *Log) Run(runID string) []Record {
	var out []Record
	for _, rec := range l.Records {
		if rec.RunID == runID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Len returns the total number of records.
func (l *Log) Len() int {
	return len(l.Records)
}
