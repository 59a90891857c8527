package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lacquerai/exdb/internal/database"
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Output the JSON schema of the exercise database",
	Long:  `Output the JSON schema describing the exercise database document.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := database.Schema()
		if err != nil {
			return fmt.Errorf("failed to generate schema: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(schema))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
