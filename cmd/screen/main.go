// Command screen ranks resume files on disk against a job description.
//
//	screen --jd jd.txt [--role "Python Developer"] [--out results.xlsx] resume1.pdf resume2.docx
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/muhammadolammi/resumescreener/internal/config"
	"github.com/muhammadolammi/resumescreener/internal/export"
	"github.com/muhammadolammi/resumescreener/internal/logger"
	"github.com/muhammadolammi/resumescreener/internal/pipeline"
	"github.com/muhammadolammi/resumescreener/internal/ranker"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "screen:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("screen", flag.ContinueOnError)
	jdPath := fs.String("jd", "", "path to the job description text file")
	role := fs.String("role", "", "job role shown in the export summary")
	out := fs.String("out", "", "write the ranked results to this .xlsx file")
	workers := fs.Int("workers", 0, "analyze this many resumes in parallel (default from ANALYSIS_WORKERS)")
	logLevel := fs.String("log-level", "", "log level (default from LOG_LEVEL, else warn)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *workers > 0 {
		cfg.AnalysisWorkers = *workers
	}
	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	} else if level == "" {
		level = "warn"
	}
	logger.InitWithWriter(logger.Config{Level: level, Format: "pretty", TimeFormat: time.Kitchen}, os.Stderr)

	if *jdPath == "" {
		return fmt.Errorf("--jd is required")
	}
	jd, err := os.ReadFile(*jdPath)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	docs := make([]ranker.Document, 0, fs.NArg())
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("skipping unreadable resume")
			continue
		}
		docs = append(docs, ranker.Document{Filename: filepath.Base(path), Data: data})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	analyzer, _, err := pipeline.Build(ctx, cfg, logger.Component("screen"))
	if err != nil {
		return err
	}
	records, err := analyzer.Analyze(ctx, docs, string(jd))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(stdout, "no results")
		return nil
	}

	rows := ranker.Rows(records)
	printRows(stdout, rows)

	if *out != "" {
		data, err := export.Write(rows, *role, time.Now())
		if err != nil {
			return err
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", *out, err)
		}
		fmt.Fprintf(stdout, "\nwrote %d candidates to %s\n", len(rows), *out)
	}
	return nil
}

func printRows(w io.Writer, rows []ranker.Row) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(ranker.Columns, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r.Strings(), "\t"))
	}
	tw.Flush()
}
