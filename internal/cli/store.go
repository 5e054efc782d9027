package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/feels/internal/storage"
)

// storeCmd represents the store command
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect or reset the example store",
}

var storeInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show where examples are stored and how many there are",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background(), true)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Location:   %s\n", storage.Describe(a.cfg.Store))
		fmt.Fprintf(out, "Status:     %s\n", a.status)
		fmt.Fprintf(out, "Sentiments: %d\n", len(a.store.Labels()))
		fmt.Fprintf(out, "Examples:   %d\n", a.store.Len())
		return nil
	},
}

var storeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every taught example",
	Long: `Reset deletes the persisted examples, including a damaged state that
cannot be read. This cannot be undone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.Reset(ctx); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared examples at %s\n", storage.Describe(a.cfg.Store))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeInfoCmd)
	storeCmd.AddCommand(storeResetCmd)
}
