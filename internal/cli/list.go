package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lacquerai/exdb/internal/cleaner"
	"github.com/lacquerai/exdb/internal/database"
	"github.com/lacquerai/exdb/internal/style"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [input]",
	Short: "List the categories in the exercise database",
	Long: `List every category with its exercise count and kind.

Kinds:
  compound    removed by "exdb clean"
  individual  a category of individual exercises
  other       neither of the above

The stored total_exercises is compared with the computed sum.`,
	Example: `
  exdb list                    # List the default database
  exdb list data/db.json       # List another file
  exdb list --output json      # Machine-readable listing`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := resolvePaths(args)
		listing, err := buildListing(input)
		if err != nil {
			return err
		}

		switch viper.GetString("output") {
		case "json":
			style.PrintJSON(cmd.OutOrStdout(), listing)
		case "yaml":
			style.PrintYAML(cmd.OutOrStdout(), listing)
		default:
			printListing(cmd.OutOrStdout(), listing)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// ListedCategory is one row of a Listing.
type ListedCategory struct {
	Name      string `json:"name" yaml:"name"`
	Exercises int    `json:"exercises" yaml:"exercises"`
	Kind      string `json:"kind" yaml:"kind"`
}

// Listing summarises the categories of a database file.
type Listing struct {
	File          string           `json:"file" yaml:"file"`
	Categories    []ListedCategory `json:"categories" yaml:"categories"`
	StoredTotal   int              `json:"stored_total" yaml:"stored_total"`
	ComputedTotal int              `json:"computed_total" yaml:"computed_total"`
}

func buildListing(path string) (*Listing, error) {
	doc, err := database.Load(path)
	if err != nil {
		return nil, err
	}

	listing := &Listing{
		File:        path,
		Categories:  []ListedCategory{},
		StoredTotal: doc.Total(),
	}
	for _, c := range doc.Categories() {
		listing.Categories = append(listing.Categories, ListedCategory{
			Name:      c.Name,
			Exercises: c.Exercises,
			Kind:      cleaner.Kind(c.Name),
		})
		listing.ComputedTotal += c.Exercises
	}

	return listing, nil
}

func printListing(w io.Writer, listing *Listing) {
	fmt.Fprintf(w, "%s\n\n", style.TitleStyle.Render(listing.File))

	if len(listing.Categories) == 0 {
		style.Info(w, "No categories")
	}

	rows := make([][]string, 0, len(listing.Categories))
	compound := 0
	for _, c := range listing.Categories {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.Exercises), c.Kind})
		if c.Kind == cleaner.KindCompound {
			compound++
		}
	}
	style.PrintTable(w, []string{"Category", "Exercises", "Kind"}, rows)

	fmt.Fprintf(w, "\nTotal exercises: %d\n", listing.ComputedTotal)
	if listing.StoredTotal != listing.ComputedTotal {
		style.Warning(w, fmt.Sprintf("Stored total_exercises is %d", listing.StoredTotal))
	}
	if compound > 0 {
		style.Info(w, fmt.Sprintf("%d compound %s can be removed with %s",
			compound, plural(compound, "category", "categories"), style.AccentStyle.Render("exdb clean")))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
