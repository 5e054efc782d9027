package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/feels/internal/model"
)

var (
	classifyMode    string
	classifySpeak   bool
	classifyJSON    bool
	classifyTimeout time.Duration
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <text...>",
	Short: "Classify the sentiment of a text",
	Long: `Classify prints the sentiment of a text.

Modes:
  examples  taught examples, then the keyword rule (default)
  model     the configured external classifier only
  hybrid    taught examples, then the external classifier, then the keyword rule

Example:
  feels classify me encanta el sol
  feels classify "what a day" --mode hybrid --speak`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&classifyMode, "mode", "", "classification mode (examples, model, hybrid)")
	classifyCmd.Flags().BoolVar(&classifySpeak, "speak", false, "speak the result")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "print the full result as JSON")
	classifyCmd.Flags().DurationVar(&classifyTimeout, "timeout", time.Minute, "overall timeout")
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), classifyTimeout)
	defer cancel()

	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	analyzer, err := a.analyzer(classifyMode, classifySpeak)
	if err != nil {
		return err
	}

	result, err := analyzer.Analyze(ctx, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}

	return printResult(cmd.OutOrStdout(), result, classifyJSON)
}

func printResult(w io.Writer, result model.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	line := result.Sentiment.String()
	if verbose {
		line += fmt.Sprintf(" [%s]", result.Source)
		if result.Language != "" {
			line += fmt.Sprintf(" [lang: %s]", result.Language)
		}
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
