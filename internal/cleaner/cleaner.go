// Package cleaner removes compound workout categories from an exercise
// database and keeps its exercise count in step.
//
// Circuits, EMOMs, AMRAPs and intervals are assembled from individual
// exercises at runtime, so they should not be stored as categories.
package cleaner

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/lacquerai/exdb/internal/database"
	"github.com/lacquerai/exdb/internal/execcontext"
	"github.com/lacquerai/exdb/internal/store"
)

// DefaultPath is the database location used when no path is given.
const DefaultPath = "src/data/exercise_database.json"

var (
	// RemoveCategories are the compound categories removed by default, in
	// removal order.
	RemoveCategories = []string{"interval", "emom", "amrap", "circuit"}

	// KeepCategories lists the individual-exercise categories. It labels
	// categories in listings and is never used to filter.
	KeepCategories = []string{"strength", "mobility", "flexibility", "cardio"}
)

// Category kinds reported by Kind.
const (
	KindCompound   = "compound"
	KindIndividual = "individual"
	KindOther      = "other"
)

// Options controls a Clean run.
type Options struct {
	// Input is the database to read. Defaults to DefaultPath.
	Input string
	// Output is where the cleaned database is written. Defaults to Input.
	Output string
	// Remove overrides RemoveCategories when non-empty.
	Remove []string
	// Backup copies the existing Output to Output+".bak" before replacing it.
	Backup bool
	// DryRun computes the result without writing anything.
	DryRun bool
}

func (o Options) withDefaults() Options {
	if o.Input == "" {
		o.Input = DefaultPath
	}
	if o.Output == "" {
		o.Output = o.Input
	}
	if len(o.Remove) == 0 {
		o.Remove = RemoveCategories
	}
	return o
}

// Result describes a completed Clean run.
type Result struct {
	Input               string              `json:"input" yaml:"input"`
	Output              string              `json:"output" yaml:"output"`
	OriginalCategories  []string            `json:"original_categories" yaml:"original_categories"`
	RemainingCategories []string            `json:"remaining_categories" yaml:"remaining_categories"`
	Removed             []database.Category `json:"removed" yaml:"removed"`
	TotalExercises      int                 `json:"total_exercises" yaml:"total_exercises"`
	Changed             bool                `json:"changed" yaml:"changed"`
	DryRun              bool                `json:"dry_run" yaml:"dry_run"`
	BackupPath          string              `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`

	// Before holds the input bytes and After the cleaned document.
	Before []byte `json:"-" yaml:"-"`
	After  []byte `json:"-" yaml:"-"`
}

// Clean reads opts.Input, removes the compound categories, recomputes
// total_exercises and writes the document to opts.Output. Progress lines and
// the summary are written to runCtx.StdOut.
func Clean(runCtx execcontext.RunContext, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	logger := runCtx.Logger().With().
		Str("input", opts.Input).
		Str("output", opts.Output).
		Logger()

	before, err := store.ReadFile(opts.Input)
	if err != nil {
		return nil, err
	}

	doc, err := database.Parse(before)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Input, err)
	}

	result := &Result{
		Input:              opts.Input,
		Output:             opts.Output,
		OriginalCategories: doc.Names(),
		Removed:            []database.Category{},
		DryRun:             opts.DryRun,
		Before:             before,
	}

	for _, name := range opts.Remove {
		count, ok, err := doc.Remove(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Debug().Str("category", name).Msg("Category not present, skipping")
			continue
		}

		runCtx.Printf("Removing %s category (%d generic exercises)\n", name, count)
		logger.Info().Str("category", name).Int("exercises", count).Msg("Removed category")
		result.Removed = append(result.Removed, database.Category{Name: name, Exercises: count})
	}

	total, err := doc.Recount()
	if err != nil {
		return nil, err
	}

	result.TotalExercises = total
	result.RemainingCategories = doc.Names()
	result.After = doc.Bytes()
	result.Changed = !bytes.Equal(before, result.After)

	if opts.DryRun {
		logger.Debug().Bool("changed", result.Changed).Msg("Dry run, not writing")
	} else {
		if opts.Backup {
			backupPath, err := store.Backup(opts.Output)
			if err != nil {
				return nil, err
			}
			result.BackupPath = backupPath
		}

		if err := store.WriteAtomic(opts.Output, result.After, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write cleaned database: %w", err)
		}
		logger.Info().Int("total_exercises", total).Msg("Wrote cleaned database")
	}

	printSummary(runCtx, result)
	return result, nil
}

func printSummary(runCtx execcontext.RunContext, result *Result) {
	runCtx.Printf("\nCleaned database:\n")
	runCtx.Printf("  Original categories: %s\n", strings.Join(result.OriginalCategories, ", "))
	runCtx.Printf("  Remaining categories: %s\n", strings.Join(result.RemainingCategories, ", "))
	runCtx.Printf("  Total exercises: %d\n", result.TotalExercises)
	if result.BackupPath != "" {
		runCtx.Printf("  Backup: %s\n", result.BackupPath)
	}
}

// Kind classifies a category name against the removal and keep lists.
func Kind(name string) string {
	switch {
	case slices.Contains(RemoveCategories, name):
		return KindCompound
	case slices.Contains(KeepCategories, name):
		return KindIndividual
	default:
		return KindOther
	}
}
