package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mangler "github.com/cfcurtis/pdf-mangler"
)

var version = "0.1.0"

var (
	configPath string
	outDir     string
	reportPath string
	seed       int64
	workers    int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "pdf-mangler [flags] input.pdf [input ...]",
	Short: "Anonymize PDF files while preserving their structure",
	Long: `pdf-mangler destroys the identifying content of PDF files while keeping
their structure intact: text becomes same-shaped gibberish rendered with the
original fonts, vector drawings are nudged, images turn into flat grey
placeholders, and metadata, scripts, layer names, bookmarks, and annotation
text are stripped or replaced. The mangled file still renders, so it can be
attached to a bug report in place of a confidential original.

Each input may be a file or a directory; directories are walked for .pdf
files. Output names are derived from each document's identity hash, so the
same input always produces the same output name.

Examples:
  # Mangle one file into the current directory
  pdf-mangler statement.pdf

  # Mangle a folder four documents at a time, with a JSON report
  pdf-mangler --out mangled --parallel 4 --report report.json invoices/

  # Reproducible output
  pdf-mangler --seed 42 --config mangler.yaml statement.pdf`,
	Version: version,
	Args:    cobra.MinimumNArgs(1),
	RunE:    run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration file")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory mangled files are written to")
	rootCmd.Flags().StringVarP(&reportPath, "report", "r", "", "write a JSON batch report to this path")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 seeds from the clock")
	rootCmd.Flags().IntVarP(&workers, "parallel", "p", 1, "number of documents mangled concurrently")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "development logging to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// result is one line of the batch report.
type result struct {
	Input    string   `json:"input"`
	Output   string   `json:"output,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := buildLogger()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no PDF files found under %s", strings.Join(args, ", "))
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := mangleAll(ctx, logger, cfg, inputs)

	failed := 0
	for _, r := range results {
		switch {
		case r.Error != "":
			failed++
			fmt.Printf("FAIL  %s: %s\n", r.Input, r.Error)
		case len(r.Warnings) > 0:
			fmt.Printf("ok    %s -> %s (%d warnings)\n", r.Input, r.Output, len(r.Warnings))
		default:
			fmt.Printf("ok    %s -> %s\n", r.Input, r.Output)
		}
	}

	if reportPath != "" {
		if err := writeReport(results); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("\nReport written to: %s\n", reportPath)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

func buildLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadConfig loads the --config file. A missing file is not fatal: the
// defaults apply and a note is logged.
func loadConfig(logger *zap.Logger) (*mangler.Config, error) {
	if configPath == "" {
		return mangler.DefaultConfig(), nil
	}
	cfg, err := mangler.LoadConfig(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("config file not found, using defaults", zap.String("path", configPath))
			return mangler.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// collectInputs expands the positional arguments: files are taken as-is,
// directories are walked for .pdf entries.
func collectInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
				inputs = append(inputs, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return inputs, nil
}

// mangleAll runs the documents through a fixed-size worker pool. Runs are
// independent, so parallelism is per document.
func mangleAll(ctx context.Context, logger *zap.Logger, cfg *mangler.Config, inputs []string) []result {
	if workers < 1 {
		workers = 1
	}
	results := make([]result, len(inputs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = mangleOne(ctx, logger, cfg, inputs[i])
			}
		}()
	}
	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func mangleOne(ctx context.Context, logger *zap.Logger, cfg *mangler.Config, input string) result {
	doc := mangler.Open(input).
		WithConfig(cfg).
		WithLogger(logger.With(zap.String("input", input)))
	if seed != 0 {
		doc = doc.WithSeed(seed)
	}

	out, warnings, err := doc.MangleToFile(ctx, outDir)
	r := result{Input: input, Output: out}
	for _, w := range warnings {
		r.Warnings = append(r.Warnings, w.String())
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

func writeReport(results []result) error {
	data, err := sonic.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(reportPath, data, 0o644)
}
