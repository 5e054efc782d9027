package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/feels/internal/model"
	"github.com/ppiankov/feels/internal/pipeline"
	"github.com/ppiankov/feels/internal/worker"
)

var (
	concurrency  int
	batchOut     string
	batchMode    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Classify every line of a file in parallel",
	Long: `Batch classifies texts from a file (one per line) concurrently.
Blank lines and lines starting with # are skipped. Results keep input order.

Example:
  feels batch diary.txt
  feels batch diary.txt --concurrency 8 --out results.yaml
  feels batch tweets.txt --mode model --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, fmt.Sprintf("number of concurrent workers (default: configured, else %d)", runtime.NumCPU()))
	batchCmd.Flags().StringVar(&batchOut, "out", "", "write results as YAML to this file")
	batchCmd.Flags().StringVar(&batchMode, "mode", "", "classification mode (examples, model, hybrid)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	analyzer, err := a.analyzer(batchMode, false)
	if err != nil {
		return err
	}

	workers := concurrency
	if workers <= 0 {
		workers = a.cfg.Concurrency.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var limiter *worker.Limiter
	if analyzer.Mode() != pipeline.ModeExamples {
		limiter = newLimiter(a.cfg.RateLimiting)
	}

	a.logger.Info().
		Str("file", file).
		Int("workers", workers).
		Str("mode", string(analyzer.Mode())).
		Msg("Starting batch")

	processor := worker.NewBatchProcessor(analyzer, workers, limiter, a.providerName(), a.logger)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	failures := 0
	entries := make([]batchEntry, 0, len(results))
	for _, r := range results {
		entry := batchEntry{Result: r.Result}
		entry.Result.Text = r.Text
		entry.Result.Index = r.Index
		if r.Error != nil {
			failures++
			entry.Error = r.Error.Error()
		}
		entries = append(entries, entry)
	}

	if batchOut != "" {
		if err := writeBatchYAML(batchOut, entries); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %d results to %s\n", len(entries), batchOut)
	} else {
		printBatch(cmd.OutOrStdout(), entries)
	}

	fmt.Fprintf(os.Stderr, "\n  Total:     %d texts\n  Success:   %d\n  Failures:  %d\n\n",
		len(entries), len(entries)-failures, failures)
	return nil
}

// newLimiter applies the default rate and every per-provider override
func newLimiter(cfg model.RateLimitingConfig) *worker.Limiter {
	limiter := worker.NewLimiter(cfg.RequestsPerSecond, cfg.BurstSize)
	for provider, r := range cfg.Providers {
		limiter.SetProviderRate(strings.ToLower(provider), r.RequestsPerSecond, r.BurstSize)
	}
	return limiter
}

// batchEntry is one line of batch output
type batchEntry struct {
	Result model.Result `yaml:",inline"`
	Error  string       `yaml:"error,omitempty"`
}

func writeBatchYAML(path string, entries []batchEntry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return enc.Close()
}

func printBatch(w io.Writer, entries []batchEntry) {
	for _, e := range entries {
		if e.Error != "" {
			fmt.Fprintf(w, "%4d  ✗ %s: %s\n", e.Result.Index+1, e.Result.Text, e.Error)
			continue
		}
		fmt.Fprintf(w, "%4d  %s  %s\n", e.Result.Index+1, e.Result.Sentiment, e.Result.Text)
	}
}
