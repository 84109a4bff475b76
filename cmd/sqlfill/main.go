// Command sqlfill expands a SQL template once per row of a CSV, TSV, JSON,
// XLSX or Parquet data source.
//
// Usage:
//
//	sqlfill -data users.csv -t "INSERT INTO users (id, name) VALUES ({id}, {name})"
//	cat users.json | sqlfill -template insert.sql -variant WITH-NULL
//	sqlfill -data users.csv -template insert.sql -batch 500 -out ./scripts -compress zst
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/nao1215/sqlfill"
	"github.com/nao1215/sqlfill/domain/model"
	"github.com/nao1215/sqlfill/history"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options are the resolved command line settings.
type options struct {
	data         string
	templateFile string
	templateText string
	batch        int
	variant      string
	list         bool
	out          string
	compress     string
	history      string
	verbose      bool
}

// run executes the command and returns the process exit status.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := execute(ctx, opts, stdin, stdout, logger); err != nil {
		var verrs model.ValidationErrors
		if errors.As(err, &verrs) {
			for _, msg := range verrs.Messages() {
				fmt.Fprintln(stderr, msg)
			}
			return 1
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// parseFlags parses args and merges the YAML config underneath them.
func parseFlags(args []string, stderr io.Writer) (options, error) {
	var (
		opts       options
		configPath string
	)
	fs := flag.NewFlagSet("sqlfill", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.data, "data", "", "data file (.csv, .tsv, .txt, .json, .xlsx, .parquet, optionally .gz/.bz2/.xz/.zst); stdin when empty")
	fs.StringVar(&opts.templateFile, "template", "", "file holding the SQL template")
	fs.StringVar(&opts.templateText, "t", "", "SQL template text")
	fs.IntVar(&opts.batch, "batch", 0, "rows per Batch-N variant (default: stored preference or 1000)")
	fs.StringVar(&opts.variant, "variant", model.VariantAll, "variant to print")
	fs.BoolVar(&opts.list, "list", false, "list every variant with its row count instead of printing one")
	fs.StringVar(&opts.out, "out", "", "write every variant to this directory")
	fs.StringVar(&opts.compress, "compress", "none", "compression for -out: none|gz|xz|zst")
	fs.StringVar(&opts.history, "history", "", "SQLite file remembering batch size and templates")
	fs.StringVar(&configPath, "config", "", "YAML file with default settings")
	fs.BoolVar(&opts.verbose, "v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return opts, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["batch"] && cfg.BatchSize > 0 {
		opts.batch = cfg.BatchSize
	}
	if !set["variant"] && cfg.Variant != "" {
		opts.variant = cfg.Variant
	}
	if !set["out"] && cfg.Out != "" {
		opts.out = cfg.Out
	}
	if !set["compress"] && cfg.Compress != "" {
		opts.compress = cfg.Compress
	}
	if !set["history"] && cfg.History != "" {
		opts.history = cfg.History
	}
	if !set["v"] && cfg.Verbose {
		opts.verbose = true
	}
	return opts, nil
}

// execute loads the data, expands the template and emits the result.
func execute(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	template, err := readTemplate(opts)
	if err != nil {
		return err
	}
	compression, err := sqlfill.ParseCompressionType(opts.compress)
	if err != nil {
		return err
	}

	batch := opts.batch
	if opts.history != "" {
		store, err := history.Open(ctx, opts.history)
		if err != nil {
			return err
		}
		defer store.Close()

		if batch > 0 {
			if err := store.SetBatchSize(ctx, batch); err != nil {
				return err
			}
		} else if batch, err = store.BatchSize(ctx); err != nil {
			return err
		}
		if _, err := store.AddTemplate(ctx, template); err != nil {
			return err
		}
	}
	if batch <= 0 {
		batch = sqlfill.DefaultBatchSize
	}

	loader := sqlfill.NewLoader(sqlfill.WithLogger(logger))
	var ds *sqlfill.Dataset
	if opts.data != "" {
		ds, err = loader.LoadFile(ctx, opts.data)
	} else {
		var text []byte
		if text, err = io.ReadAll(stdin); err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		ds, err = loader.LoadText(ctx, string(text))
	}
	if err != nil {
		return err
	}

	variants, err := sqlfill.Expand(ds.Rows, template, batch)
	if err != nil {
		return err
	}
	logger.Debug("expanded template",
		slog.String("mode", sqlfill.DetectMode(template).String()),
		slog.Int("variants", len(variants)))

	switch {
	case opts.out != "":
		paths, err := sqlfill.Save(ctx, opts.out, variants, sqlfill.NewSaveOptions().WithCompression(compression))
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(stdout, p)
		}
	case opts.list:
		for _, v := range variants {
			fmt.Fprintf(stdout, "%s\t%d\n", v.Name, v.RowCount)
		}
	default:
		v, ok := findVariant(variants, opts.variant)
		if !ok {
			return fmt.Errorf("variant %q was not generated; available: %s", opts.variant, variantNames(variants))
		}
		fmt.Fprintln(stdout, v.Script)
	}
	return nil
}

// readTemplate returns the template from -t or -template.
func readTemplate(opts options) (string, error) {
	switch {
	case opts.templateText != "" && opts.templateFile != "":
		return "", errors.New("use either -t or -template, not both")
	case opts.templateText != "":
		return opts.templateText, nil
	case opts.templateFile != "":
		data, err := os.ReadFile(opts.templateFile)
		if err != nil {
			return "", fmt.Errorf("failed to read template: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	default:
		return "", model.ValidationErrors{"template cannot be empty"}
	}
}

// findVariant looks a variant up by name, ignoring case.
func findVariant(variants []model.Variant, name string) (model.Variant, bool) {
	for _, v := range variants {
		if strings.EqualFold(v.Name, name) {
			return v, true
		}
	}
	return model.Variant{}, false
}

// variantNames joins variant names for error messages.
func variantNames(variants []model.Variant) string {
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.Name
	}
	return strings.Join(names, ", ")
}
