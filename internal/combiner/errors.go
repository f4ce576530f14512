package combiner

import "fmt"

// The batch aborts on the first of these errors for any file; every error
// names the offending file so the caller can surface it verbatim.

// ParseError means a file's bytes could not be interpreted under its
// declared format, even after the encoding fallback ladder.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse file %q: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IdentifierNotFoundError means no column satisfied the identifier
// detection policy for a file.
type IdentifierNotFoundError struct {
	File   string
	Policy IdentifierPolicy
}

func (e *IdentifierNotFoundError) Error() string {
	return fmt.Sprintf("no identifier column found in %q (policy %s)", e.File, e.Policy)
}

// NoValidRowsError means row validation left zero rows in a file.
type NoValidRowsError struct {
	File string
}

func (e *NoValidRowsError) Error() string {
	return fmt.Sprintf("no rows with a valid identifier in %q", e.File)
}

// NoScoreColumnsError means no qualifying numeric score column was found
// in a file.
type NoScoreColumnsError struct {
	File string
}

func (e *NoScoreColumnsError) Error() string {
	return fmt.Sprintf("no numeric score column found in %q", e.File)
}
