package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// labelsCmd represents the labels command
var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List taught sentiments and their example phrases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		snapshot := a.store.Snapshot()
		if len(snapshot) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "# No examples taught yet. Try: feels teach Alegría me encanta el sol")
			return nil
		}

		data, err := yaml.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("marshal examples: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}
