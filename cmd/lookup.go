package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <code>",
	Short: "Resolve a QR code to its record",
	Long:  `Looks up the record for a decoded QR value. Exits with status 2 when no record exists and 1 when the store could not be reached.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.engine.Lookup(ctx, args[0])
		if err != nil {
			return err
		}

		if !result.Found() {
			a.log.Info("No record for code", zap.String("code", args[0]))
			a.close()
			os.Exit(2)
		}

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(lookupCmd)
}
