package database

// ExerciseDatabase is the on-disk document holding categorized workout
// exercise definitions.
type ExerciseDatabase struct {
	// Root object holding the categories and the cached exercise count.
	ExerciseDatabase Catalog `json:"exercise_database"`
}

// Catalog groups exercises by category.
type Catalog struct {
	// Mapping from category name to its definition.
	Categories map[string]CategoryDefinition `json:"categories"`
	// Sum of the exercise counts across all categories. Recomputed on every edit.
	TotalExercises int `json:"total_exercises,omitempty" jsonschema:"minimum=0"`
}

// CategoryDefinition is a named grouping of exercises such as "strength" or
// "circuit".
type CategoryDefinition struct {
	// Ordered exercise entries. Their structure is not interpreted.
	Exercises []any `json:"exercises"`
}
