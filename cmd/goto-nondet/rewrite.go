package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/goto-nondet/nondet"
	"github.com/wippyai/goto-nondet/objfactory"
	"github.com/wippyai/goto-nondet/program"
	"github.com/wippyai/goto-nondet/symtab"
)

// passFlags are the flags shared by the commands that run the pass.
type passFlags struct {
	maxArrayLength int
	maxDepth       int
	namespace      string
	mode           string
}

func (f *passFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxArrayLength, "max-array-length", 0, "upper bound on generated array lengths")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "pointer expansion depth (0 keeps the configured value)")
	cmd.Flags().StringVar(&f.namespace, "namespace", "", "namespace of the nondet stubs; empty matches any")
	cmd.Flags().StringVar(&f.mode, "mode", "", "input language mode (default: from the file extension)")
}

// apply overrides cfg with the flags set on cmd.
func (f *passFlags) apply(cmd *cobra.Command, cfg Config) (Config, error) {
	if cmd.Flags().Changed("max-array-length") {
		cfg.MaxArrayLength = f.maxArrayLength
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if cmd.Flags().Changed("namespace") {
		cfg.Namespace = f.namespace
	}
	return cfg, cfg.validate()
}

// findingsError reports idioms found by rewrite --check.
type findingsError struct {
	count int
}

func (e *findingsError) Error() string {
	return fmt.Sprintf("%d nondet call(s) to rewrite", e.count)
}

func (a *app) rewriteCmd() *cobra.Command {
	var (
		flags  passFlags
		output string
		to     string
		stats  bool
		check  bool
	)
	cmd := &cobra.Command{
		Use:   "rewrite <file>",
		Short: "Replace nondet stub calls and write the resulting program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(cmd, a.cfg)
			if err != nil {
				return err
			}
			lang, p, st, err := a.load(args[0], flags.mode)
			if err != nil {
				return err
			}
			report, err := a.pass(p, st, cfg)
			if err != nil {
				return err
			}
			if check {
				printFindings(a.stdout, args[0], report)
				if n := len(report.Rewrites); n > 0 {
					return &findingsError{count: n}
				}
				return nil
			}
			if err := p.Validate(); err != nil {
				return fmt.Errorf("rewritten program: %w", err)
			}

			if to != "" {
				if lang, err = a.registry.FromMode(to); err != nil {
					return err
				}
			}
			if err := a.write(output, func(w io.Writer) error { return lang.Write(w, p, st) }); err != nil {
				return err
			}
			if stats {
				renderStats(a.stderr, report)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&to, "to", "", "output language mode (default: the input mode)")
	cmd.Flags().BoolVar(&stats, "stats", false, "print a per-function rewrite table to stderr")
	cmd.Flags().BoolVar(&check, "check", false, "list stub calls and fail if any are found; writes no program")
	return cmd
}

// pass runs the rewriting pass over p with the effective configuration.
func (a *app) pass(p *program.Program, st *symtab.Table, cfg Config) (*nondet.Report, error) {
	m, err := cfg.matcher()
	if err != nil {
		return nil, err
	}
	return nondet.Rewrite(p, nondet.Config{
		Logger:  a.logger,
		Symbols: st,
		Matcher: m,
		Generator: objfactory.New(objfactory.Options{
			Logger:   a.logger.Named("objfactory"),
			MaxDepth: cfg.MaxDepth,
		}),
		MaxArrayLength: cfg.MaxArrayLength,
	})
}

func (a *app) write(path string, emit func(io.Writer) error) error {
	if path == "" {
		return emit(a.stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := emit(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.logger.Info("wrote program", zap.String("file", path))
	return nil
}

func printFindings(w io.Writer, file string, r *nondet.Report) {
	for _, rw := range r.Rewrites {
		loc := rw.Location.String()
		if rw.Location.IsNil() {
			loc = file
		}
		fmt.Fprintf(w, "%s: %s: %s -> %s (%s)\n", loc, rw.Function, rw.Callee, rw.Target, rw.Variant)
	}
}

// renderStats prints one row per function that had rewrites.
func renderStats(w io.Writer, r *nondet.Report) {
	type row struct {
		rewrites, neverNull, mayBeNull, removed, inserted, warnings int
	}
	var order []string
	rows := make(map[string]*row)
	get := func(fn string) *row {
		if rows[fn] == nil {
			rows[fn] = &row{}
			order = append(order, fn)
		}
		return rows[fn]
	}
	var total row
	for _, rw := range r.Rewrites {
		x := get(rw.Function)
		x.rewrites++
		if rw.Variant.AllowNull() {
			x.mayBeNull++
		} else {
			x.neverNull++
		}
		x.removed += rw.Removed
		x.inserted += rw.Inserted
	}
	for _, wn := range r.Warnings {
		get(wn.Function).warnings++
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("nondet rewrites")
	tw.AppendHeader(table.Row{"Function", "Rewrites", "Never null", "May be null", "Removed", "Inserted", "Warnings"})
	for _, fn := range order {
		x := rows[fn]
		tw.AppendRow(table.Row{fn, x.rewrites, x.neverNull, x.mayBeNull, x.removed, x.inserted, x.warnings})
		total.rewrites += x.rewrites
		total.neverNull += x.neverNull
		total.mayBeNull += x.mayBeNull
		total.removed += x.removed
		total.inserted += x.inserted
		total.warnings += x.warnings
	}
	tw.AppendFooter(table.Row{"Total", total.rewrites, total.neverNull, total.mayBeNull, total.removed, total.inserted, total.warnings})
	tw.Render()
}
