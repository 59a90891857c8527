package database

import (
	"embed"
	"encoding/json"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/stoewer/go-strcase"
)

//go:embed types.go
var typesGoFile embed.FS

// CustomReflector extends the default reflector with snake_case naming and
// descriptions taken from the doc comments in types.go.
type CustomReflector struct {
	*jsonschema.Reflector
}

// NewCustomReflector creates a reflector for the exercise database types.
func NewCustomReflector() *CustomReflector {
	r := &jsonschema.Reflector{
		KeyNamer: strcase.SnakeCase,
		Namer: func(t reflect.Type) string {
			return strcase.SnakeCase(t.Name())
		},
		ExpandedStruct: true,
		// categories and the root object may carry fields this tool never
		// touches
		AllowAdditionalProperties: true,
	}

	return &CustomReflector{Reflector: r}
}

// Schema returns the JSON schema of the exercise database document.
func Schema() ([]byte, error) {
	reflector := NewCustomReflector()
	err := reflector.loadComments(reflect.TypeOf(ExerciseDatabase{}).PkgPath())
	if err != nil {
		return nil, err
	}

	fullSchema := reflector.Reflect(&ExerciseDatabase{})
	return json.MarshalIndent(fullSchema, "", "  ")
}

// loadComments fills the reflector's CommentMap from the doc comments in
// the embedded types.go so the schema carries field descriptions.
func (r *CustomReflector) loadComments(pkg string) error {
	src, err := typesGoFile.ReadFile("types.go")
	if err != nil {
		return err
	}

	f, err := parser.ParseFile(token.NewFileSet(), "types.go", src, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("failed to parse embedded types: %w", err)
	}

	comments := make(map[string]string)
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			if !ts.Name.IsExported() {
				continue
			}

			doc := ts.Doc.Text()
			if doc == "" {
				doc = gen.Doc.Text()
			}
			typeKey := pkg + "." + ts.Name.Name
			comments[typeKey] = strings.TrimSpace(doc)

			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			for _, field := range st.Fields.List {
				txt := field.Doc.Text()
				if txt == "" {
					txt = field.Comment.Text()
				}
				if txt == "" {
					continue
				}
				for _, name := range field.Names {
					if name.IsExported() {
						comments[typeKey+"."+name.Name] = strings.TrimSpace(txt)
					}
				}
			}
		}
	}

	r.CommentMap = comments
	return nil
}
