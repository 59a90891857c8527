package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lacquerai/exdb/internal/cleaner"
	"github.com/lacquerai/exdb/internal/style"
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean [input] [output]",
	Short: "Remove compound categories from the exercise database",
	Long: `Remove the compound workout categories (interval, emom, amrap, circuit)
from exercise_database.categories and recompute total_exercises.

With no arguments the database at database.input (default
src/data/exercise_database.json) is cleaned in place. The file is replaced
atomically, so a failed write leaves the original intact.`,
	Example: `
  exdb clean                                  # Clean the default database in place
  exdb clean data/db.json                     # Clean another file in place
  exdb clean data/db.json data/clean.json     # Write the result to a new file
  exdb clean --dry-run                        # Show what would change
  exdb clean --backup                         # Keep a .bak copy of the old file
  exdb clean --remove circuit --remove emom   # Remove only these categories`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClean(cmd, args)
	},
}

var (
	dryRun bool
)

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the changes without writing")
	cleanCmd.Flags().Bool("backup", false, "copy the existing output file to <output>.bak before replacing it")
	cleanCmd.Flags().StringSlice("remove", nil, "categories to remove (default interval,emom,amrap,circuit)")

	_ = viper.BindPFlag(keyBackup, cleanCmd.Flags().Lookup("backup"))
	_ = viper.BindPFlag(keyRemove, cleanCmd.Flags().Lookup("remove"))
}

func runClean(cmd *cobra.Command, args []string) error {
	runCtx := newRunContext(cmd)
	input, output := resolvePaths(args)

	log.Debug().
		Str("input", input).
		Str("output", output).
		Bool("dry_run", dryRun).
		Msg("Cleaning exercise database")

	result, err := cleaner.Clean(runCtx, cleaner.Options{
		Input:  input,
		Output: output,
		Remove: viper.GetStringSlice(keyRemove),
		Backup: viper.GetBool(keyBackup),
		DryRun: dryRun,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch viper.GetString("output") {
	case "json":
		style.PrintJSON(w, result)
		return nil
	case "yaml":
		style.PrintYAML(w, result)
		return nil
	}

	if viper.GetBool("quiet") {
		return nil
	}

	fmt.Fprintln(w)
	if result.DryRun {
		if !result.Changed {
			style.Info(w, "Exercise database is already clean")
			return nil
		}
		fmt.Fprint(w, style.RenderDiff(string(result.Before), string(result.After)))
		fmt.Fprintln(w)
		style.Info(w, fmt.Sprintf("Dry run: nothing written to %s", style.FormatFilePath(result.Output)))
		return nil
	}

	style.Success(w, "Exercise database cleaned successfully!")
	return nil
}
