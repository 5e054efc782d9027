package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/feels/internal/learner"
	"github.com/ppiankov/feels/internal/pipeline"
)

var (
	replMode  string
	replSpeak bool
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Classify texts interactively",
	Long: `Repl reads texts from standard input and prints their sentiment.

  salir | exit               end the session
  /teach <label> | <text>    teach an example`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := openApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		analyzer, err := a.analyzer(replMode, replSpeak)
		if err != nil {
			return err
		}

		return runREPL(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), analyzer, a.store)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVar(&replMode, "mode", "", "classification mode (examples, model, hybrid)")
	replCmd.Flags().BoolVar(&replSpeak, "speak", false, "speak each result")
}

func runREPL(ctx context.Context, in io.Reader, out io.Writer, analyzer *pipeline.Analyzer, store *learner.Store) error {
	fmt.Fprintln(out, "=== feels ===")
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "\nText to analyze ('salir' to quit): ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue

		case strings.EqualFold(line, "salir"), strings.EqualFold(line, "exit"):
			fmt.Fprintln(out, "¡Hasta luego!")
			return nil

		case strings.HasPrefix(line, "/teach"):
			label, text, ok := parseTeach(strings.TrimPrefix(line, "/teach"))
			if !ok {
				fmt.Fprintln(out, "usage: /teach <label> | <text>")
				continue
			}
			if err := store.Teach(ctx, text, label); err != nil {
				fmt.Fprintf(out, "✗ %v\n", err)
				continue
			}
			fmt.Fprintf(out, "✓ Learned %q as %s\n", text, label)

		default:
			result, err := analyzer.Analyze(ctx, line)
			if err != nil {
				fmt.Fprintf(out, "✗ %v\n", err)
				continue
			}
			if err := printResult(out, result, false); err != nil {
				return err
			}
		}
	}
}

func parseTeach(arg string) (label, text string, ok bool) {
	label, text, found := strings.Cut(arg, "|")
	if !found {
		return "", "", false
	}
	label, text = strings.TrimSpace(label), strings.TrimSpace(text)
	return label, text, label != "" && text != ""
}
