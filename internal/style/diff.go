package style

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// RenderDiff renders a line diff between before and after. Changed lines are
// prefixed with "+ " or "- "; runs of unchanged lines collapse to a single
// marker line. It returns an empty string when the inputs are equal.
func RenderDiff(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		chunk := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			for _, line := range chunk {
				out.WriteString(AddedLineStyle.Render("+ "+line) + "\n")
			}
		case diffmatchpatch.DiffDelete:
			for _, line := range chunk {
				out.WriteString(RemovedLineStyle.Render("- "+line) + "\n")
			}
		case diffmatchpatch.DiffEqual:
			noun := "lines"
			if len(chunk) == 1 {
				noun = "line"
			}
			out.WriteString(MutedStyle.Render(fmt.Sprintf("  ⋮ %d unchanged %s", len(chunk), noun)) + "\n")
		}
	}

	return out.String()
}

func splitLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
