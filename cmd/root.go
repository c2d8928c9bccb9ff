package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tabula/internal/cel"
	"github.com/oakwood-commons/tabula/internal/formatter"
	"github.com/oakwood-commons/tabula/internal/ui"
	"github.com/oakwood-commons/tabula/pkg/loader"
	"github.com/oakwood-commons/tabula/pkg/logger"
	"github.com/oakwood-commons/tabula/pkg/record"
	"github.com/oakwood-commons/tabula/pkg/settings"
	"github.com/oakwood-commons/tabula/pkg/view"
)

// rootFlags holds the values bound to the root command's flags.
type rootFlags struct {
	columnsFile  string
	filter       string
	filterColumn string
	sort         sortFlag
	page         int
	pageSize     int
	hide         []string
	where        string
	root         string
	format       string
	table        string
	query        string
	output       string
	interactive  bool
	noColor      bool
	width        int
	height       int
	debug        bool
}

var (
	stdinIsPiped   = func() bool { stat, _ := os.Stdin.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	stdoutIsPiped  = func() bool { stat, _ := os.Stdout.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	runInteractive = ui.Run
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	c := &cobra.Command{
		Use:   settings.CliBinaryName + " [file]",
		Short: "Filter, sort and page through record collections",
		Long: `tabula loads a collection of records (JSON, NDJSON, YAML, TOML, CSV or a
SQLite table) and shows one page of it, filtered on a column, sorted on any
number of keys, with columns hidden or shown. Use -i to browse interactively.`,
		Example:       "\n  tabula users.json\n  tabula users.json --sort status --sort amount:desc --page 2\n  tabula users.json --filter-column name --filter ada -o yaml\n  tabula users.yaml --where '_.amount > 1000' --hide date\n  tabula app.db --table users -i\n  cat users.ndjson | tabula --columns-file columns.yaml\n",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// debug => zap.DebugLevel (-1), which also enables logr V(1)
			var level int8
			if f.debug {
				level = -1
			}
			lgr := logger.Get(level)
			lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

			run := settings.NewCliParams()
			run.MinLogLevel = level
			run.Interactive = f.interactive
			run.NoColor = f.noColor
			run.Source = "-"
			if len(args) > 0 {
				run.Source = args[0]
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = logger.WithLogger(ctx, lgr)
			cmd.SetContext(settings.IntoContext(ctx, run))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, f)
		},
	}

	c.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	fl := c.Flags()
	fl.StringVar(&f.columnsFile, "columns-file", "", "YAML file with the column schema (columns, page_size, filter_column, sort)")
	fl.StringVar(&f.filter, "filter", "", "case-insensitive substring to match in the filter column")
	fl.StringVar(&f.filterColumn, "filter-column", "", "column key the filter applies to (default: first column)")
	fl.Var(&f.sort, "sort", "sort key as key[:asc|:desc]; repeat for secondary keys")
	fl.IntVar(&f.page, "page", 1, "page number to show")
	fl.IntVar(&f.pageSize, "page-size", 0, fmt.Sprintf("rows per page (default %d or page_size from the columns file)", settings.DefaultPageSize))
	fl.StringArrayVar(&f.hide, "hide", nil, "column key to hide; repeatable")
	fl.StringVar(&f.where, "where", "", "CEL expression over the record '_' that rows must satisfy, e.g. '_.amount > 1000'")
	fl.StringVar(&f.root, "root", "", "path to the record list inside the document, e.g. data.users")
	fl.StringVar(&f.format, "format", "", "input format: json|ndjson|yaml|toml|csv (default: detect)")
	fl.StringVar(&f.table, "table", "", "read every row of this table from the SQLite database given as file")
	fl.StringVar(&f.query, "query", "", "run this SQL query against the SQLite database given as file")
	fl.StringVarP(&f.output, "output", "o", string(formatter.OutputTable), "output format: table|json|yaml|csv|tree")
	fl.BoolVarP(&f.interactive, "interactive", "i", false, "browse the records in an interactive view")
	fl.BoolVar(&f.noColor, "no-color", false, "disable color output")
	fl.IntVar(&f.width, "width", 0, "output width in columns (default: terminal width)")
	fl.IntVar(&f.height, "height", 0, "interactive view height in rows (default: terminal height)")
	c.PersistentFlags().BoolVar(&f.debug, "debug", false, "write debug logs to stderr")

	c.Version = cliVersionString()
	c.SetVersionTemplate("{{.Version}}\n")
	c.AddCommand(newGenerateCmd())
	c.AddCommand(newVersionCmd())
	return c
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// usageError marks errors caused by invalid flags or arguments.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by Execute to a process exit code:
// 0 on success, 2 for invalid usage, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

func runRoot(cmd *cobra.Command, args []string, f *rootFlags) error {
	ctx := cmd.Context()
	lgr := *logger.FromContext(ctx)
	run := settings.FromContextOrDefault(ctx)

	out, err := formatter.ParseOutput(f.output)
	if err != nil {
		return usageError{err: err}
	}
	format, err := loader.ParseFormat(f.format)
	if err != nil {
		return usageError{err: err}
	}
	if f.table != "" && f.query != "" {
		return usageErrorf("--table and --query are mutually exclusive")
	}
	if (f.table != "" || f.query != "") && len(args) == 0 {
		return usageErrorf("--table and --query need the SQLite database file as argument")
	}
	if cmd.Flags().Changed("page-size") && f.pageSize < 1 {
		return usageErrorf("--page-size must be at least 1, got %d", f.pageSize)
	}

	var cfg columnFile
	if f.columnsFile != "" {
		cfg, err = loadColumnFile(f.columnsFile)
		if err != nil {
			return err
		}
	}

	if len(args) == 0 && f.table == "" && f.query == "" && cmd.InOrStdin() == os.Stdin && !stdinIsPiped() {
		return cmd.Help()
	}

	records, err := loadRecords(ctx, cmd.InOrStdin(), args, f, format, lgr)
	if err != nil {
		return err
	}
	lgr.V(1).Info("loaded records", logger.SourceKey, run.Source, logger.RecordsKey, len(records))

	schema := cfg.Schema()
	if len(schema) == 0 {
		schema = view.InferSchema(records)
	}
	if len(schema) == 0 {
		schema = view.Schema{{Key: record.IDField, Label: "ID"}}
	}

	run.PageSize = settings.DefaultPageSize
	if cfg.PageSize > 0 {
		run.PageSize = cfg.PageSize
	}
	if cmd.Flags().Changed("page-size") {
		run.PageSize = f.pageSize
	}

	opts := []view.Option{view.WithPageSize(run.PageSize), view.WithLogger(lgr)}
	if strings.TrimSpace(f.where) != "" {
		eval, err := cel.NewEvaluator()
		if err != nil {
			return err
		}
		pred, err := eval.Compile(f.where)
		if err != nil {
			return usageError{err: fmt.Errorf("--where: %w", err)}
		}
		opts = append(opts, view.WithPredicate(pred.Func(lgr)))
	}

	engine, err := view.New(records, schema, opts...)
	if err != nil {
		return err
	}

	sortKeys := f.sort.keys
	if !cmd.Flags().Changed("sort") {
		sortKeys, err = cfg.SortKeys()
		if err != nil {
			return err
		}
	}
	if err := applyState(engine, f, cfg, sortKeys); err != nil {
		return err
	}

	if !cfg.Colors.isZero() {
		formatter.SetTableTheme(cfg.Colors.TableColors())
	}

	noColor := f.noColor || os.Getenv("NO_COLOR") != ""
	if f.interactive {
		progOpts, cleanup := getProgramOptions()
		defer cleanup()
		state, err := runInteractive(engine, ui.Options{
			Title:   run.Source,
			NoColor: noColor,
			Width:   f.width,
			Height:  f.height,
			Hints:   cfg.Hints(),
			Colors:  cfg.Colors.TableColors(),
			Logger:  lgr,
		}, progOpts...)
		if err != nil {
			return fmt.Errorf("interactive view: %w", err)
		}
		lgr.V(1).Info("final view", "filter", state.FilterText, "sort", state.Sort.String(), "page", state.Page)
		return nil
	}

	if !noColor && stdoutIsPiped() {
		noColor = true
	}
	return formatter.Render(cmd.OutOrStdout(), engine.Snapshot(), out, formatter.TableOptions{
		NoColor: noColor,
		Width:   f.width,
		Hints:   cfg.Hints(),
	})
}

// loadRecords reads records from the SQLite database, the file argument or
// stdin, in that order of precedence.
func loadRecords(ctx context.Context, stdin io.Reader, args []string, f *rootFlags, format loader.Format, lgr logr.Logger) ([]record.Record, error) {
	if f.table != "" || f.query != "" {
		query := f.query
		if f.table != "" {
			query = loader.TableQuery(f.table)
		}
		lgr.V(1).Info("querying sqlite", "path", args[0], "query", query)
		return loader.LoadSQLite(ctx, args[0], query)
	}

	opts := loader.Options{Format: format, Root: f.root, Logger: lgr}
	if len(args) == 0 || args[0] == "-" {
		records, err := loader.LoadReader(stdin, opts)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return records, nil
	}
	return loader.LoadFile(filepath.Clean(args[0]), opts)
}

// applyState replays the flags and column file settings as engine
// transitions. Order matters: visibility and filter first, then sort (which
// resets the page), then the page itself.
func applyState(engine *view.Engine, f *rootFlags, cfg columnFile, sortKeys view.SortSpec) error {
	schema := engine.Schema()

	hidden := append(cfg.HiddenKeys(), f.hide...)
	seen := make(map[string]bool, len(hidden))
	for _, key := range hidden {
		if seen[key] {
			continue
		}
		seen[key] = true
		if !engine.ToggleColumnVisibility(key) {
			return usageErrorf("--hide: unknown column %q (columns: %s)", key, strings.Join(schema.Keys(), ", "))
		}
	}

	filterColumn := f.filterColumn
	if filterColumn == "" {
		filterColumn = cfg.FilterColumn
	}
	if filterColumn != "" && !engine.SetFilterColumn(filterColumn) {
		return usageErrorf("--filter-column: unknown column %q (columns: %s)", filterColumn, strings.Join(schema.Keys(), ", "))
	}
	if f.filter != "" {
		engine.SetFilterText(f.filter)
	}

	for _, k := range sortKeys {
		engine.ToggleSort(k.Key)
		if k.Direction == view.Descending {
			engine.ToggleSort(k.Key)
		}
	}

	if f.page != 1 && !engine.SetPage(f.page) {
		return usageErrorf("--page %d is out of range (1-%d)", f.page, max(engine.TotalPages(), 1))
	}
	return nil
}
