package combiner

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"combinercli/internal/tabular"
)

var titleCaser = cases.Title(language.English)

// WeeklyTable is a single file's data narrowed to the identifier plus its
// tagged score columns. Identifier values and score cells stay positionally
// aligned.
type WeeklyTable struct {
	IdentifierName string
	Identifiers    []string
	Scores         []tabular.Column
}

// BuildWeeklyTable projects a validated table down to the identifier and
// the selected score columns, renaming score columns with the file's
// 1-based ordinal so labels never collide across files.
//
// LabelWeek replaces the (sole) score column name with "Week N". LabelFile
// prefixes each column with "File N - " and title-cases the original name;
// when title-casing makes two labels of the same file collide, the later
// column wins, matching the mapping-overwrite behavior of the merge.
func BuildWeeklyTable(t *tabular.Table, identifierIdx int, scoreIdx []int, ordinal int, style LabelStyle) *WeeklyTable {
	id := &t.Columns[identifierIdx]
	identifiers := make([]string, len(id.Cells))
	for i, cell := range id.Cells {
		identifiers[i] = cell.Text
	}

	wt := &WeeklyTable{
		IdentifierName: id.Name,
		Identifiers:    identifiers,
	}

	labelAt := map[string]int{}
	for _, idx := range scoreIdx {
		col := t.Columns[idx]
		label := scoreLabel(col.Name, ordinal, style)
		if at, ok := labelAt[label]; ok {
			// last write wins on label collision within one file
			wt.Scores[at] = tabular.Column{Name: label, Cells: col.Cells}
			continue
		}
		labelAt[label] = len(wt.Scores)
		wt.Scores = append(wt.Scores, tabular.Column{Name: label, Cells: col.Cells})
	}
	return wt
}

func scoreLabel(name string, ordinal int, style LabelStyle) string {
	if style == LabelWeek {
		return fmt.Sprintf("Week %d", ordinal)
	}
	return fmt.Sprintf("File %d - %s", ordinal, titleCaser.String(name))
}
