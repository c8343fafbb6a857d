package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bindgen/internal/config"
	"bindgen/internal/diag"
	"bindgen/internal/diagfmt"
	"bindgen/internal/driver"
	"bindgen/internal/trace"
	"bindgen/internal/version"
)

// pipelineFlags are shared by generate and check.
type pipelineFlags struct {
	configPath       string
	lang             string
	jobs             int
	format           string
	withNotes        bool
	warningsAsErrors bool
	fullPath         bool
	pathMode         string
	cache            bool
	timingsFormat    string
	ui               string

	// generate only
	output string
	outDir string
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "configuration file (default: nearest "+config.FileName+")")
	fl.StringVar(&f.lang, "lang", "", "override the header language (C|C++)")
	fl.IntVar(&f.jobs, "jobs", 0, "max parallel workers (0=auto)")
	fl.StringVar(&f.format, "format", "pretty", "diagnostics format (pretty|short|json|sarif)")
	fl.BoolVar(&f.withNotes, "with-notes", false, "include diagnostic notes in output")
	fl.BoolVar(&f.warningsAsErrors, "warnings-as-errors", false, "treat warnings as errors")
	fl.BoolVar(&f.fullPath, "fullpath", false, "emit absolute file paths in diagnostics")
	fl.StringVar(&f.pathMode, "path-mode", "auto", "file paths in diagnostics (auto|absolute|relative|basename)")
	fl.BoolVar(&f.cache, "cache", false, "reuse headers from the on-disk cache")
	fl.StringVar(&f.timingsFormat, "timings-format", "text", "format for --timings (text|json)")
	fl.StringVar(&f.ui, "ui", "auto", "progress UI mode (auto|on|off)")
}

func newGenerateCmd() *cobra.Command {
	var flags pipelineFlags
	cmd := &cobra.Command{
		Use:   "generate [flags] <decls.toml|decls.msgpack>...",
		Short: "Generate headers from declaration sets",
		Long: `Generate a header for every declaration set. With a single input and no
--output or --out-dir the header is printed to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, args, &flags, true)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "header file for a single input (- for stdout)")
	cmd.Flags().StringVar(&flags.outDir, "out-dir", "", "directory receiving one header per input")
	return cmd
}

func runPipeline(cmd *cobra.Command, inputs []string, flags *pipelineFlags, write bool) error {
	root := cmd.Root().PersistentFlags()
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := root.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}
	switch flags.format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unknown format: %s", flags.format)
	}
	if flags.timingsFormat != "text" && flags.timingsFormat != "json" {
		return fmt.Errorf("unknown timings format: %s", flags.timingsFormat)
	}
	if _, err := diagfmt.ParsePathMode(flags.pathMode); err != nil {
		return err
	}
	mode, err := readUIMode(flags.ui)
	if err != nil {
		return err
	}
	if write && len(inputs) > 1 && flags.outDir == "" {
		return fmt.Errorf("%d inputs need --out-dir", len(inputs))
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, cmd.Name())
	defer span.End("")

	all := diag.NewBag(maxDiagnostics)
	cfg, err := loadConfig(flags.configPath, flags.lang, diag.BagReporter{Bag: all})
	if err != nil {
		return err
	}

	opts := driver.Options{
		Jobs:           flags.jobs,
		MaxDiagnostics: maxDiagnostics,
	}
	if write {
		opts.Output = flags.output
		opts.OutDir = flags.outDir
	}
	if flags.cache {
		if opts.Cache, err = driver.OpenDiskCache("bindgen"); err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	var results []*driver.Result
	toStdout := write && flags.outDir == "" && (flags.output == "" || flags.output == "-")
	if !quiet && shouldUseTUI(mode, cmd.ErrOrStderr(), toStdout) {
		results, err = runWithUI(ctx, cmd.ErrOrStderr(), cmd.Name(), cfg, inputs, opts)
	} else {
		results, err = driver.Run(ctx, cfg, inputs, opts)
	}
	if err != nil {
		return err
	}

	for _, res := range results {
		all.Merge(res.Bag)
	}
	all.Sort()
	if flags.warningsAsErrors {
		all.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}

	stderr := cmd.ErrOrStderr()
	if err := printDiagnostics(stderr, all, flags, colored); err != nil {
		return err
	}

	failed := all.HasErrors()
	for _, res := range results {
		if res.Failed() {
			failed = true
			continue
		}
		switch {
		case write && res.OutputPath == "":
			if _, err := cmd.OutOrStdout().Write(res.Header); err != nil {
				return fmt.Errorf("failed to write header: %w", err)
			}
		case quiet:
		case !write:
			fmt.Fprintf(stderr, "%s: %d declarations\n", res.Path, len(res.Items))
		case res.Written:
			fmt.Fprintf(stderr, "wrote %s\n", res.OutputPath)
		default:
			fmt.Fprintf(stderr, "%s is up to date\n", res.OutputPath)
		}
	}

	if showTimings {
		if err := printTimings(stderr, results, flags.timingsFormat); err != nil {
			return err
		}
	}
	if !quiet && flags.format == "pretty" {
		if summary := diagfmt.Summary(all); summary != "" {
			fmt.Fprintf(stderr, "%s\n", summary)
		}
	}
	if failed {
		return exitError{code: 1}
	}
	return nil
}

// loadConfig reads path, or the nearest bindgen.toml when path is empty, and
// applies the --lang override.
func loadConfig(path, lang string, r diag.Reporter) (*config.Config, error) {
	if path == "" {
		found, ok, err := config.Find(".")
		if err != nil {
			return nil, err
		}
		if ok {
			path = found
		}
	}
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path, r); err != nil {
			return nil, err
		}
	}
	if lang != "" {
		l, err := config.ParseLanguage(lang)
		if err != nil {
			return nil, err
		}
		cfg.Language = l
	}
	return cfg, nil
}

func printDiagnostics(w io.Writer, bag *diag.Bag, flags *pipelineFlags, colored bool) error {
	pathMode, err := diagfmt.ParsePathMode(flags.pathMode)
	if err != nil {
		return err
	}
	if flags.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	base, _ := os.Getwd()

	switch flags.format {
	case "pretty":
		return diagfmt.Pretty(w, bag, diagfmt.PrettyOpts{
			Color:     colored,
			PathMode:  pathMode,
			BaseDir:   base,
			Width:     terminalWidth(w),
			ShowNotes: flags.withNotes,
		})
	case "short":
		if out := diag.FormatShortDiagnostics(bag.Items(), flags.withNotes); out != "" {
			_, err := fmt.Fprintln(w, out)
			return err
		}
		return nil
	case "json":
		return diagfmt.JSON(w, bag, diagfmt.JSONOpts{
			PathMode:     pathMode,
			BaseDir:      base,
			IncludeNotes: flags.withNotes,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, diagfmt.SarifRunMeta{
			ToolName:       "bindgen",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
			PathMode:       pathMode,
			BaseDir:        base,
		})
	}
	return fmt.Errorf("unknown format: %s", flags.format)
}
