package combiner

// Stage names a step of the per-file pipeline for progress reporting.
type Stage string

const (
	StageParse    Stage = "parse"
	StageDetect   Stage = "detect_identifier"
	StageValidate Stage = "validate_rows"
	StageSelect   Stage = "select_scores"
	StageProject  Stage = "project"
	StageMerge    Stage = "merge"
)

// ProgressEvent describes one discrete step of a combine run. FileIndex is
// 1-based; merge-wide events carry index 0 and an empty file name.
type ProgressEvent struct {
	FileIndex int    `json:"file_index"`
	FileName  string `json:"file_name"`
	Stage     Stage  `json:"stage"`
}

// ProgressFunc receives progress events during a combine run. The pipeline
// itself holds no global state; reporting is entirely the caller's concern
// and a nil func disables it.
type ProgressFunc func(ProgressEvent)

func (f ProgressFunc) emit(ev ProgressEvent) {
	if f != nil {
		f(ev)
	}
}
