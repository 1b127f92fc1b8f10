package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syntactic/JSGFTools/eventlog"
	"github.com/syntactic/JSGFTools/history"
	"github.com/syntactic/JSGFTools/jsgf"
	"github.com/syntactic/JSGFTools/parser"
)

// loadGrammar opens and parses a grammar file. File handling lives here;
// the parser itself only sees a reader.
func loadGrammar(path string) (*jsgf.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	g, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return g, nil
}

// runSink funnels generated strings to stdout or a file, and optionally to
// a JSONL/CSV run log and a SQLite run database.
type runSink struct {
	runID   string
	grammar string
	rule    string
	mode    string

	out     io.Writer
	outFile *os.File

	logPath string
	log     *eventlog.Log

	store     *history.Store
	startedAt time.Time
	count     int
}

// newRunSink prepares output, log, and database targets. requested is the
// number of strings the caller asked for (0 when unbounded).
func newRunSink(grammarPath, rule, mode, outputPath, logPath, dbPath string, requested int) (*runSink, error) {
	sink := &runSink{
		runID:     uuid.New().String(),
		grammar:   grammarPath,
		rule:      rule,
		mode:      mode,
		out:       os.Stdout,
		logPath:   logPath,
		startedAt: time.Now(),
	}

	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("create output: %w", err)
		}
		sink.outFile = f
		sink.out = f
	}

	if logPath != "" {
		sink.log = eventlog.NewLog()
	}

	if dbPath != "" {
		store, err := history.Open(dbPath)
		if err != nil {
			sink.cleanup()
			return nil, err
		}
		sink.store = store
		err = store.RecordRun(history.Run{
			ID:        sink.runID,
			Grammar:   grammarPath,
			Rule:      rule,
			Mode:      mode,
			Requested: requested,
			StartedAt: sink.startedAt,
		})
		if err != nil {
			sink.cleanup()
			return nil, err
		}
	}

	return sink, nil
}

// emit handles one generated string.
func (s *runSink) emit(text string) error {
	if _, err := fmt.Fprintln(s.out, text); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if s.log != nil {
		s.log.Append(eventlog.Record{
			RunID:     s.runID,
			Rule:      s.rule,
			Mode:      s.mode,
			Index:     s.count,
			Text:      text,
			Timestamp: time.Now(),
		})
	}
	if s.store != nil {
		if err := s.store.AppendOutput(s.runID, s.count, text); err != nil {
			return err
		}
	}
	s.count++
	return nil
}

// close flushes the run log and finishes the database run.
func (s *runSink) close() error {
	defer s.cleanup()

	if s.log != nil {
		f, err := os.Create(s.logPath)
		if err != nil {
			return fmt.Errorf("create run log: %w", err)
		}
		defer f.Close()

		switch strings.ToLower(filepath.Ext(s.logPath)) {
		case ".csv":
			err = eventlog.WriteCSV(f, s.log.Records)
		default:
			err = eventlog.WriteJSONL(f, s.log.Records)
		}
		if err != nil {
			return fmt.Errorf("write run log: %w", err)
		}
	}

	if s.store != nil {
		if err := s.store.FinishRun(s.runID, s.count, time.Now()); err != nil {
			return err
		}
	}

	logger.Debug().
		Str("run_id", s.runID).
		Str("mode", s.mode).
		Int("produced", s.count).
		Msg("run finished")
	return nil
}

func (s *runSink) cleanup() {
	if s.outFile != nil {
		s.outFile.Close()
		s.outFile = nil
	}
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}
