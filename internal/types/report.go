package types

// Level is the severity of a reported Finding.
type Level int

const (
	LevelOK Level = iota
	LevelCheck
	LevelWarning
	LevelError
)

// Finding is one reported result, the payload a check hands to the
// Reporter. Detail carries check-specific structured data (e.g. cluster
// member paths) the terminal reporter may render specially.
type Finding struct {
	Check   string
	Level   Level
	Path    string
	Message string
	Detail  any
}

// CheckResult is the per-check summary emitted after a check completes
// (spec §4.5 "a summary of total matches").
type CheckResult struct {
	Check   string
	Matches int
}

// DuplicateClusterDetail is the Detail payload for a confirmed duplicate
// cluster finding.
type DuplicateClusterDetail struct {
	SizeBytes int64
	Paths     []string
}

// Reporter is the thin output interface the core reports through. The
// core never formats or colors output; a concrete Reporter (e.g. a
// terminal implementation) decides how to render a Finding.
type Reporter interface {
	OK(check, path, message string)
	Check(check, path, message string)
	Warning(check, path, message string)
	Error(check, path, message string)

	// DuplicateCluster reports one confirmed cluster of byte-identical
	// files (size header + member list, spec §6).
	DuplicateCluster(sizeBytes int64, paths []string)

	// Total reports the grouped count+message-key summary for a check
	// (spec §6 "totals (count + singular/plural message key)").
	Total(check string, count int, singular, plural string)

	// Header/Footer bracket each check's output (spec §4.5 "emits a
	// header (before) and a summary ... (after)").
	Header(check string)
	Footer(result CheckResult)
}
