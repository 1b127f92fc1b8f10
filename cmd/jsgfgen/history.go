package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/syntactic/JSGFTools/history"
)

func historyCmd(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite run database (required)")
	limit := fs.Int("limit", 20, "Maximum number of runs to list")
	runID := fs.String("run", "", "Print the outputs of one run instead of listing runs")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: jsgfgen history --db <path> [options]

List recent generation runs recorded with --db, newest first, or print
the outputs of a single run.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  jsgfgen history --db runs.db
  jsgfgen history --db runs.db --run 3e9f1c7a-...
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		fs.Usage()
		return fmt.Errorf("--db is required")
	}

	store, err := history.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if *runID != "" {
		outputs, err := store.RunOutputs(*runID)
		if err != nil {
			return err
		}
		for _, o := range outputs {
			fmt.Println(o.Text)
		}
		return nil
	}

	runs, err := store.ListRuns(*limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	for _, r := range runs {
		status := "running"
		if r.FinishedAt != nil {
			status = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		rule := r.Rule
		if rule == "" {
			rule = "(public)"
		}
		fmt.Printf("%s  %-6s  %-20s  %-15s  %4d strings  %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Mode, r.Grammar, rule, r.Produced, status)
	}
	return nil
}
