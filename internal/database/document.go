package database

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/lacquerai/exdb/internal/store"
)

const (
	rootKey        = "exercise_database"
	categoriesPath = rootKey + ".categories"
	totalPath      = rootKey + ".total_exercises"
)

// ErrMalformed is returned when a document is not valid JSON or does not
// have the exercise_database.categories shape.
var ErrMalformed = errors.New("malformed exercise database")

// Category is a summary of one category entry.
type Category struct {
	Name      string `json:"name" yaml:"name"`
	Exercises int    `json:"exercises" yaml:"exercises"`
}

// Document is an exercise database held as raw JSON. Edits go through
// sjson so key order and untouched values survive a round trip.
type Document struct {
	raw []byte
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := store.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse validates data and wraps it in a Document. data is copied.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	doc := &Document{raw: append([]byte(nil), data...)}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) validate() error {
	root := gjson.ParseBytes(d.raw)
	if !root.IsObject() {
		return fmt.Errorf("%w: document root is not an object", ErrMalformed)
	}

	db := root.Get(rootKey)
	if !db.IsObject() {
		return fmt.Errorf("%w: missing %s object", ErrMalformed, rootKey)
	}

	categories := db.Get("categories")
	if !categories.IsObject() {
		return fmt.Errorf("%w: missing %s object", ErrMalformed, categoriesPath)
	}

	var err error
	categories.ForEach(func(key, value gjson.Result) bool {
		if !value.Get("exercises").IsArray() {
			err = fmt.Errorf("%w: category %q has no exercises array", ErrMalformed, key.String())
			return false
		}
		return true
	})
	return err
}

// Categories returns every category in document order.
func (d *Document) Categories() []Category {
	var categories []Category
	gjson.GetBytes(d.raw, categoriesPath).ForEach(func(key, value gjson.Result) bool {
		categories = append(categories, Category{
			Name:      key.String(),
			Exercises: len(value.Get("exercises").Array()),
		})
		return true
	})
	return categories
}

// Names returns the category names in document order.
func (d *Document) Names() []string {
	categories := d.Categories()
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

// Has reports whether the named category exists.
func (d *Document) Has(name string) bool {
	return gjson.GetBytes(d.raw, categoryPath(name)).Exists()
}

// Exercises returns the number of exercises in the named category, or zero
// when it does not exist.
func (d *Document) Exercises(name string) int {
	return len(gjson.GetBytes(d.raw, categoryPath(name)+".exercises").Array())
}

// Remove deletes the named category. It returns the number of exercises the
// category held and whether it was present.
func (d *Document) Remove(name string) (int, bool, error) {
	path := categoryPath(name)
	entry := gjson.GetBytes(d.raw, path)
	if !entry.Exists() {
		return 0, false, nil
	}

	raw, err := sjson.DeleteBytes(d.raw, path)
	if err != nil {
		return 0, false, fmt.Errorf("failed to remove category %s: %w", name, err)
	}
	d.raw = raw

	return len(entry.Get("exercises").Array()), true, nil
}

// Recount sets total_exercises to the sum of exercise counts across the
// current categories and returns it.
func (d *Document) Recount() (int, error) {
	total := 0
	for _, c := range d.Categories() {
		total += c.Exercises
	}

	raw, err := sjson.SetBytes(d.raw, totalPath, total)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", totalPath, err)
	}
	d.raw = raw

	return total, nil
}

// Total returns the stored total_exercises value.
func (d *Document) Total() int {
	return int(gjson.GetBytes(d.raw, totalPath).Int())
}

// Bytes returns the document indented with two spaces, one array element
// per line.
func (d *Document) Bytes() []byte {
	// Width 0 keeps pretty from folding short arrays onto one line
	return pretty.PrettyOptions(d.raw, &pretty.Options{Indent: "  "})
}

func categoryPath(name string) string {
	return categoriesPath + "." + gjson.Escape(name)
}
