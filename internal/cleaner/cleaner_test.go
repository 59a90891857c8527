package cleaner

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/lacquerai/exdb/internal/database"
	"github.com/lacquerai/exdb/internal/execcontext"
	_ "github.com/lacquerai/exdb/internal/testhelper"
)

const fullDatabase = `{
  "exercise_database": {
    "categories": {
      "strength": {"exercises": [{"name": "Squat"}, {"name": "Bench Press"}, {"name": "Row"}]},
      "interval": {"exercises": [{"name": "Tabata"}, {"name": "30/30"}]},
      "mobility": {"exercises": [{"name": "Hip Circles"}]},
      "emom": {"exercises": [{"name": "EMOM 10"}]},
      "amrap": {"exercises": [{"name": "AMRAP 12"}, {"name": "AMRAP 20"}, {"name": "AMRAP 7"}]},
      "cardio": {"exercises": [{"name": "Run"}]},
      "circuit": {"exercises": [{"name": "Full Body Circuit"}]}
    },
    "total_exercises": 12
  }
}`

func writeDatabase(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exercise_database.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runClean(t *testing.T, opts Options) (*Result, string) {
	t.Helper()
	stdout := &bytes.Buffer{}
	result, err := Clean(execcontext.Background(stdout, &bytes.Buffer{}), opts)
	require.NoError(t, err)
	return result, stdout.String()
}

func categoryNames(t *testing.T, path string) []string {
	t.Helper()
	doc, err := database.Load(path)
	require.NoError(t, err)
	return doc.Names()
}

func TestClean_SingleCompoundCategory(t *testing.T) {
	path := writeDatabase(t, `{"exercise_database": {"categories": {"strength": {"exercises": ["e1", "e2"]}, "circuit": {"exercises": ["e3"]}}, "total_exercises": 3}}`)

	result, out := runClean(t, Options{Input: path})

	expected := "Removing circuit category (1 generic exercises)\n" +
		"\n" +
		"Cleaned database:\n" +
		"  Original categories: strength, circuit\n" +
		"  Remaining categories: strength\n" +
		"  Total exercises: 2\n"
	assert.Equal(t, expected, out)

	assert.Equal(t, 2, result.TotalExercises)
	assert.Equal(t, []database.Category{{Name: "circuit", Exercises: 1}}, result.Removed)
	assert.True(t, result.Changed)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"exercise_database": {"categories": {"strength": {"exercises": ["e1", "e2"]}}, "total_exercises": 2}}`, string(written))
}

func TestClean_NoCompoundCategories(t *testing.T) {
	path := writeDatabase(t, `{"exercise_database": {"categories": {"strength": {"exercises": ["a"]}, "cardio": {"exercises": ["b", "c"]}}, "total_exercises": 3}}`)

	result, out := runClean(t, Options{Input: path})

	assert.NotContains(t, out, "Removing")
	assert.Empty(t, result.Removed)
	assert.Equal(t, 3, result.TotalExercises)
	assert.Equal(t, result.OriginalCategories, result.RemainingCategories)
	assert.Equal(t, []string{"strength", "cardio"}, categoryNames(t, path))
}

func TestClean_SomeCompoundCategoriesMissing(t *testing.T) {
	path := writeDatabase(t, `{"exercise_database": {"categories": {"emom": {"exercises": ["x"]}, "strength": {"exercises": ["a"]}, "interval": {"exercises": []}}, "total_exercises": 0}}`)

	result, out := runClean(t, Options{Input: path})

	assert.Contains(t, out, "Removing interval category (0 generic exercises)\nRemoving emom category (1 generic exercises)\n")
	assert.NotContains(t, out, "amrap")
	assert.Equal(t, []string{"strength"}, result.RemainingCategories)
	assert.Equal(t, 1, result.TotalExercises)
}

func TestClean_AllCompoundCategories(t *testing.T) {
	path := writeDatabase(t, fullDatabase)

	result, out := runClean(t, Options{Input: path})

	assert.Equal(t, []database.Category{
		{Name: "interval", Exercises: 2},
		{Name: "emom", Exercises: 1},
		{Name: "amrap", Exercises: 3},
		{Name: "circuit", Exercises: 1},
	}, result.Removed)
	assert.Equal(t, []string{"strength", "interval", "mobility", "emom", "amrap", "cardio", "circuit"}, result.OriginalCategories)
	assert.Equal(t, []string{"strength", "mobility", "cardio"}, result.RemainingCategories)
	assert.Equal(t, 5, result.TotalExercises)
	assert.Contains(t, out, "  Original categories: strength, interval, mobility, emom, amrap, cardio, circuit\n")

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, name := range RemoveCategories {
		assert.False(t, gjson.GetBytes(written, "exercise_database.categories."+name).Exists(), name)
	}
	assert.Equal(t, int64(5), gjson.GetBytes(written, "exercise_database.total_exercises").Int())
}

func TestClean_PreservesOtherCategories(t *testing.T) {
	path := writeDatabase(t, fullDatabase)
	original := gjson.Get(fullDatabase, "exercise_database.categories")

	runClean(t, Options{Input: path})

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, name := range []string{"strength", "mobility", "cardio"} {
		assert.JSONEq(t,
			original.Get(name+".exercises").Raw,
			gjson.GetBytes(written, "exercise_database.categories."+name+".exercises").Raw,
			name)
	}
}

func TestClean_RecomputesStaleTotal(t *testing.T) {
	path := writeDatabase(t, `{"exercise_database": {"categories": {"strength": {"exercises": ["a", "b"]}}, "total_exercises": 40}}`)

	result, _ := runClean(t, Options{Input: path})

	assert.Equal(t, 2, result.TotalExercises)
	assert.True(t, result.Changed)
}

func TestClean_Idempotent(t *testing.T) {
	path := writeDatabase(t, fullDatabase)

	runClean(t, Options{Input: path})
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	result, out := runClean(t, Options{Input: path})
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.False(t, result.Changed)
	assert.Empty(t, result.Removed)
	assert.NotContains(t, out, "Removing")
}

func TestClean_SeparateOutput(t *testing.T) {
	input := writeDatabase(t, fullDatabase)
	output := filepath.Join(t.TempDir(), "cleaned.json")

	result, _ := runClean(t, Options{Input: input, Output: output})
	assert.Equal(t, output, result.Output)

	untouched, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, fullDatabase, string(untouched))
	assert.Equal(t, []string{"strength", "mobility", "cardio"}, categoryNames(t, output))
}

func TestClean_DryRun(t *testing.T) {
	path := writeDatabase(t, fullDatabase)

	result, out := runClean(t, Options{Input: path, DryRun: true})

	assert.True(t, result.DryRun)
	assert.True(t, result.Changed)
	assert.Contains(t, out, "Removing circuit category (1 generic exercises)")

	untouched, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fullDatabase, string(untouched))
	assert.Equal(t, fullDatabase, string(result.Before))
	assert.NotEqual(t, string(result.Before), string(result.After))
}

func TestClean_Backup(t *testing.T) {
	path := writeDatabase(t, fullDatabase)

	result, out := runClean(t, Options{Input: path, Backup: true})

	assert.Equal(t, path+".bak", result.BackupPath)
	assert.Contains(t, out, "  Backup: "+path+".bak\n")

	backup, err := os.ReadFile(result.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, fullDatabase, string(backup))
}

func TestClean_CustomRemoveList(t *testing.T) {
	path := writeDatabase(t, fullDatabase)

	result, _ := runClean(t, Options{Input: path, Remove: []string{"cardio"}})

	assert.Equal(t, []database.Category{{Name: "cardio", Exercises: 1}}, result.Removed)
	assert.Contains(t, result.RemainingCategories, "circuit")
	assert.Equal(t, 11, result.TotalExercises)
}

func TestClean_MissingFile(t *testing.T) {
	_, err := Clean(execcontext.Background(&bytes.Buffer{}, &bytes.Buffer{}), Options{
		Input: filepath.Join(t.TempDir(), "missing.json"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestClean_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{"},
		{name: "missing nesting", content: `{"exercise_database": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDatabase(t, tt.content)
			stdout := &bytes.Buffer{}

			_, err := Clean(execcontext.Background(stdout, &bytes.Buffer{}), Options{Input: path})
			require.Error(t, err)
			assert.ErrorIs(t, err, database.ErrMalformed)
			assert.Empty(t, stdout.String())

			untouched, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(untouched))
		})
	}
}

func TestClean_UnwritableOutput(t *testing.T) {
	input := writeDatabase(t, fullDatabase)
	output := filepath.Join(t.TempDir(), "missing-dir", "out.json")

	_, err := Clean(execcontext.Background(&bytes.Buffer{}, &bytes.Buffer{}), Options{Input: input, Output: output})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write cleaned database")
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindCompound, Kind("circuit"))
	assert.Equal(t, KindCompound, Kind("emom"))
	assert.Equal(t, KindIndividual, Kind("strength"))
	assert.Equal(t, KindIndividual, Kind("cardio"))
	assert.Equal(t, KindOther, Kind("plyometrics"))
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, DefaultPath, opts.Input)
	assert.Equal(t, DefaultPath, opts.Output)
	assert.Equal(t, RemoveCategories, opts.Remove)

	opts = Options{Input: "in.json"}.withDefaults()
	assert.Equal(t, "in.json", opts.Output)
}
