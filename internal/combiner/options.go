package combiner

import "regexp"

// IdentifierPolicy selects how the join-key column is located in each file.
type IdentifierPolicy string

const (
	// IdentifierKeyword scans a priority-ordered keyword list and picks the
	// first column whose name contains a keyword as a substring.
	IdentifierKeyword IdentifierPolicy = "keyword"
	// IdentifierRollNumber prefers a column named like "roll", falling back
	// to the column whose values look like six-digit roll numbers.
	IdentifierRollNumber IdentifierPolicy = "roll"
)

// ScorePolicy selects which numeric columns count as scores.
type ScorePolicy string

const (
	// ScoreFirstNumeric takes the first numeric column, nothing else.
	ScoreFirstNumeric ScorePolicy = "first-numeric"
	// ScoreSerialAware keeps every numeric column except recognizable
	// serial-number columns.
	ScoreSerialAware ScorePolicy = "serial-aware"
)

// LabelStyle selects how projected score columns are renamed.
type LabelStyle string

const (
	// LabelWeek renames the single score column to "Week N".
	LabelWeek LabelStyle = "week"
	// LabelFile prefixes each score column with "File N - " and title-cases
	// the original name.
	LabelFile LabelStyle = "file"
)

// RowOrder selects the ordering of rows in the merged report.
type RowOrder string

const (
	// OrderFirstSeen keeps identifiers in the order they first appeared
	// across the input sequence.
	OrderFirstSeen RowOrder = "first-seen"
	// OrderAscending sorts identifiers ascending as strings.
	OrderAscending RowOrder = "ascending"
)

// Placeholder is written to every cell still missing after all joins. A
// literal string rather than a blank keeps absence explicit in exports and
// cannot be mistaken for a zero score.
const Placeholder = "-"

// Heuristic defaults. These are starting points, not law; every one of
// them is overridable through Options and surfaced in the service config.
var (
	// DefaultIdentifierKeywords is the keyword priority order for the
	// keyword policy. Earlier entries win over later ones.
	DefaultIdentifierKeywords = []string{"email", "id", "name", "student id", "roll no"}

	// DefaultSerialKeywords flags columns that carry row numbers rather
	// than scores. Matched as substrings against normalized names.
	DefaultSerialKeywords = []string{"s.no", "serial", "sno", "sr.no", "sr no", "slno", "sl.no", "sl no"}

	// DefaultRollPattern matches exactly six decimal digits.
	DefaultRollPattern = regexp.MustCompile(`^\d{6}$`)
)

const (
	// DefaultMatchThreshold is the minimum fraction of values that must
	// match the roll pattern for a column to be inferred as the identifier.
	DefaultMatchThreshold = 0.70
)

// Options carries the policy selection and heuristic constants for one
// combine run.
type Options struct {
	Identifier         IdentifierPolicy
	Scores             ScorePolicy
	Labels             LabelStyle
	Order              RowOrder
	IdentifierKeywords []string
	SerialKeywords     []string
	RollPattern        *regexp.Regexp
	MatchThreshold     float64
}

// DefaultOptions returns the full-featured profile: roll-number detection,
// serial-aware score selection, per-file column labels and ascending rows.
func DefaultOptions() Options {
	return Options{
		Identifier:         IdentifierRollNumber,
		Scores:             ScoreSerialAware,
		Labels:             LabelFile,
		Order:              OrderAscending,
		IdentifierKeywords: DefaultIdentifierKeywords,
		SerialKeywords:     DefaultSerialKeywords,
		RollPattern:        DefaultRollPattern,
		MatchThreshold:     DefaultMatchThreshold,
	}
}

// SimpleOptions returns the naive profile: keyword identifier detection,
// first numeric column as the score, "Week N" labels and first-seen row
// order.
func SimpleOptions() Options {
	opts := DefaultOptions()
	opts.Identifier = IdentifierKeyword
	opts.Scores = ScoreFirstNumeric
	opts.Labels = LabelWeek
	opts.Order = OrderFirstSeen
	return opts
}
