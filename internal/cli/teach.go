package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// teachCmd represents the teach command
var teachCmd = &cobra.Command{
	Use:   "teach <label> <text...>",
	Short: "Teach an example phrase for a sentiment",
	Long: `Teach records that a phrase expresses a sentiment. The example is saved
immediately and used by every later classification.

Example:
  feels teach Alegría me encanta el sol
  feels teach Miedo "gato negro"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := openApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		label := args[0]
		text := strings.Join(args[1:], " ")
		if err := a.store.Teach(ctx, text, label); err != nil {
			return fmt.Errorf("teach: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Learned %q as %s\n", text, label)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(teachCmd)
}
