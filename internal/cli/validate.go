package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lacquerai/exdb/internal/cleaner"
	"github.com/lacquerai/exdb/internal/database"
	"github.com/lacquerai/exdb/internal/style"
)

// errValidationFailed is returned when at least one file fails validation.
var errValidationFailed = errors.New("validation failed")

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check exercise database files",
	Long: `Check exercise database files without modifying them.

This command checks:
- JSON syntax validity
- the exercise_database.categories shape
- that every category has an exercises array
- that total_exercises matches the computed sum (warning)
- that no compound categories remain (warning)

With no arguments the database at database.input is checked.`,
	Example: `
  exdb validate                           # Check the default database
  exdb validate data/*.json               # Check several files
  exdb validate --recursive ./data        # Check a directory recursively
  exdb validate --strict data/db.json     # Treat warnings as failures`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			input, _ := resolvePaths(nil)
			args = []string{input}
		}
		return validateDatabases(cmd.OutOrStdout(), args)
	},
}

var (
	recursive bool
	strict    bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recursively validate .json files in directories")
	validateCmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
}

// ValidationResult represents the result of validating a database file
type ValidationResult struct {
	File     string        `json:"file" yaml:"file"`
	Valid    bool          `json:"valid" yaml:"valid"`
	Duration time.Duration `json:"duration_ms" yaml:"duration_ms"`
	Errors   []string      `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ValidationSummary represents the summary of all validation results
type ValidationSummary struct {
	Total    int                `json:"total" yaml:"total"`
	Valid    int                `json:"valid" yaml:"valid"`
	Invalid  int                `json:"invalid" yaml:"invalid"`
	Duration time.Duration      `json:"total_duration_ms" yaml:"total_duration_ms"`
	Results  []ValidationResult `json:"results" yaml:"results"`
}

func validateDatabases(w io.Writer, args []string) error {
	start := time.Now()

	files, err := collectFiles(args, recursive)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}

	if len(files) == 0 {
		style.Warning(w, "No database files found to validate")
		return nil
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validateSingleFile(file, strict))
	}

	summary := ValidationSummary{
		Total:    len(results),
		Duration: time.Since(start),
		Results:  results,
	}

	for _, result := range results {
		if result.Valid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
	}

	switch viper.GetString("output") {
	case "json":
		style.PrintJSON(w, summary)
	case "yaml":
		style.PrintYAML(w, summary)
	default:
		printValidationSummary(w, summary)
	}

	if summary.Invalid > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", errValidationFailed, summary.Invalid, summary.Total)
	}
	return nil
}

func validateSingleFile(filename string, strict bool) ValidationResult {
	start := time.Now()
	result := ValidationResult{
		File:     filename,
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
	}

	doc, err := database.Load(filename)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		result.Duration = time.Since(start)
		return result
	}

	computed := 0
	for _, c := range doc.Categories() {
		computed += c.Exercises
		if cleaner.Kind(c.Name) == cleaner.KindCompound {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("compound category %q is still present (%d exercises)", c.Name, c.Exercises))
		}
	}
	if stored := doc.Total(); stored != computed {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("total_exercises is %d but categories hold %d exercises", stored, computed))
	}

	if strict && len(result.Warnings) > 0 {
		result.Valid = false
	}
	result.Duration = time.Since(start)

	log.Debug().
		Str("file", filename).
		Bool("valid", result.Valid).
		Int("warnings", len(result.Warnings)).
		Dur("duration", result.Duration).
		Msg("Validated database file")

	return result
}

func collectFiles(args []string, recursive bool) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		if !recursive {
			return nil, fmt.Errorf("%s is a directory, use --recursive to validate directories", arg)
		}

		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(path) == ".json" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking directory %s: %w", arg, err)
		}
	}

	return files, nil
}

func printValidationSummary(w io.Writer, summary ValidationSummary) {
	if viper.GetBool("quiet") {
		return
	}

	for _, result := range summary.Results {
		if result.Valid {
			style.Success(w, result.File)
		} else {
			style.Error(w, result.File)
		}
		for _, msg := range result.Errors {
			fmt.Fprintf(w, "  %s\n", msg)
		}
		for _, msg := range result.Warnings {
			fmt.Fprintf(w, "  %s %s\n", style.WarningIcon(), msg)
		}
	}

	fmt.Fprintln(w)
	if summary.Invalid == 0 {
		style.Success(w, fmt.Sprintf("All %d file(s) are valid (%v)", summary.Total, summary.Duration.Round(time.Millisecond)))
	} else {
		style.Error(w, fmt.Sprintf("%d of %d file(s) failed validation (%v)", summary.Invalid, summary.Total, summary.Duration.Round(time.Millisecond)))
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(w, "\nDetailed results:\n")
		headers := []string{"File", "Status", "Warnings", "Duration"}
		rows := make([][]string, len(summary.Results))

		for i, result := range summary.Results {
			status := "valid"
			if !result.Valid {
				status = "invalid"
			}
			rows[i] = []string{
				result.File,
				status,
				strconv.Itoa(len(result.Warnings)),
				result.Duration.String(),
			}
		}

		style.PrintTable(w, headers, rows)
	}
}
