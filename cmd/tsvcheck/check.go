package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/JonMunkholm/tsvcheck/internal/check"
	"github.com/JonMunkholm/tsvcheck/internal/report"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type checkFlags struct {
	rules        string
	format       string
	maxFailures  int
	unexpected   string
	flexible     bool
	strictQuotes bool
}

func newCheckCmd(root *rootFlags, stdin io.Reader) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [FILE...]",
		Short: "Check tab-separated files and print every failure",
		Long: `Check reads each FILE (or standard input when no FILE or "-" is given) and
prints every failure it finds.

The exit status is 0 when nothing was found, 1 when any failure was
reported, and 2 when a file could not be read or the configuration is
invalid.`,
		Example: `  tsvcheck check data.tsv
  tsvcheck check --rules strains.yaml --format json a.tsv b.tsv
  cat data.tsv | tsvcheck check --max-failures 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, root, flags, stdin, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.rules, "rules", "r", "", "YAML rules file (env TSVCHECK_RULES)")
	f.StringVarP(&flags.format, "format", "f", "text", "output format: text or json")
	f.IntVarP(&flags.maxFailures, "max-failures", "n", 0, "stop after this many failures, 0 for no limit (env TSVCHECK_MAX_FAILURES)")
	f.StringVar(&flags.unexpected, "unexpected-columns", "", "cells beyond the rules: cell or fatal (env TSVCHECK_UNEXPECTED_COLUMN)")
	f.BoolVar(&flags.flexible, "flexible", false, "allow records with differing field counts (env TSVCHECK_FLEXIBLE)")
	f.BoolVar(&flags.strictQuotes, "strict-quotes", false, "treat bare quotes in fields as a parse error (env TSVCHECK_STRICT_QUOTES)")
	return cmd
}

func runCheck(cmd *cobra.Command, root *rootFlags, flags *checkFlags, stdin io.Reader, args []string) error {
	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if changed("rules") {
		cfg.Check.RulesPath = flags.rules
	}
	if changed("max-failures") {
		cfg.Check.MaxFailures = flags.maxFailures
	}
	if changed("unexpected-columns") {
		cfg.Check.UnexpectedColumn = flags.unexpected
	}
	if changed("flexible") {
		cfg.Check.Flexible = flags.flexible
	}
	if changed("strict-quotes") {
		cfg.Check.StrictQuotes = flags.strictQuotes
	}
	if cfg.Check.MaxFailures < 0 {
		return errors.New("--max-failures must be non-negative")
	}

	out := cmd.OutOrStdout()
	var w report.Writer
	switch flags.format {
	case "text":
		w = report.NewPrinter(out, report.IsTerminal(out))
	case "json":
		w = report.NewJSONWriter(out)
	default:
		return fmt.Errorf("unknown format %q (want text or json)", flags.format)
	}

	settings, err := loadRules(cfg.Check.RulesPath)
	if err != nil {
		return err
	}
	policy, err := check.ParseUnexpectedColumnPolicy(cfg.Check.UnexpectedColumn)
	if err != nil {
		return err
	}
	if settings.UnexpectedColumns == check.Fatal {
		policy = check.Fatal
	}

	runID := uuid.NewString()
	logger := slog.Default().With("run_id", runID)
	opts := check.Options{
		UnexpectedColumn: policy,
		Flexible:         cfg.Check.Flexible,
		StrictQuotes:     cfg.Check.StrictQuotes,
		Logger:           logger,
	}

	if len(args) == 0 {
		args = []string{"-"}
	}

	r := &checkRun{w: w, limit: uint64(cfg.Check.MaxFailures)}
	var openErrs []error
	for _, path := range args {
		var stream *check.Stream
		name := path
		if path == "-" {
			name = ""
			stream = check.NewStream(io.NopCloser(stdin), settings, opts)
		} else {
			stream, err = check.FileChecks(path, settings, opts)
			if err != nil {
				logger.Error("skipping file", "file", path, "error", err)
				openErrs = append(openErrs, err)
				continue
			}
		}

		if err := r.drain(name, stream); err != nil {
			return err
		}
		if r.limitReached() {
			break
		}
	}

	logger.Info("check finished", "files", len(args), "failures", r.total)
	switch {
	case len(openErrs) > 0:
		return errors.Join(openErrs...)
	case r.total > 0:
		return errFailuresFound
	}
	return nil
}

// checkRun carries the failure budget across files.
type checkRun struct {
	w     report.Writer
	limit uint64
	total uint64
}

func (r *checkRun) limitReached() bool {
	return r.limit > 0 && r.total >= r.limit
}

// drain writes the failures of one stream and its summary. It stops pulling
// once the failure budget is spent.
func (r *checkRun) drain(name string, stream *check.Stream) error {
	defer stream.Close()

	truncated := false
	for f := range stream.Failures() {
		if err := r.w.WriteFailure(name, f); err != nil {
			return err
		}
		r.total++
		if r.limitReached() {
			truncated = true
			break
		}
	}
	return r.w.WriteSummary(report.NewSummary(name, stream.Stats(), truncated))
}
