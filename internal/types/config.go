package types

// ScanConfig is the enumerated set of options recognized by the scan
// engine (spec §3 "ScanConfig"). It is the single input the host passes
// to the engine; every field here has a matching JSON key in config.json
// (see internal/config).
type ScanConfig struct {
	BufferSize int64 `json:"BUFFER_SIZE"`
	EnableCache bool `json:"ENABLE_CACHE"`
	MaxJobs     int  `json:"MAX_JOBS"` // 0 = detect CPU count

	DuplicateFilesParallel bool `json:"DUPLICATE_FILES_PARALLEL"`
	IntegrityFilesParallel bool `json:"INTEGRITY_FILES_PARALLEL"`

	Patterns           []string `json:"PATTERNS"`
	PatternBase64Bytes []string `json:"PATTERN_BASE64_BYTES"`

	LargeFileSize      int64 `json:"LARGE_FILE_SIZE"`
	LastAccessTime     int64 `json:"LAST_ACCESS_TIME"` // nanoseconds
	MaxItemsDirectory  int   `json:"MAX_ITEMS_DIRECTORY"`
	MaxDirFileNameSize int   `json:"MAX_DIR_FILE_NAME_SIZE"`
	MaxFullPathSize    int   `json:"MAX_FULL_PATH_SIZE"`

	// Per-check enable flags, one per dispatcher entry (spec §4.5 order).
	Checks CheckFlags `json:"CHECKS"`
}

// CheckFlags enables/disables each check the dispatcher knows about.
// Field order mirrors the fixed dispatch order in spec §4.5.
type CheckFlags struct {
	Duplicates       bool `json:"duplicates"`
	Links            bool `json:"links"`
	Integrity        bool `json:"integrity"`
	Temporary        bool `json:"temporary"`
	Confidential     bool `json:"confidential"`
	Compressed       bool `json:"compressed"`
	DuplicateChars   bool `json:"duplicate_chars"`
	EmptyFiles       bool `json:"empty_files"`
	LargeFiles       bool `json:"large_files"`
	LastAccess       bool `json:"last_access"`
	Legacy           bool `json:"legacy"`
	MagicNumbers     bool `json:"magic_numbers"`
	NoExtension      bool `json:"no_extension"`
	JSONParse        bool `json:"json_parse"`
	WrongDates       bool `json:"wrong_dates"`
	EmptyDirs        bool `json:"empty_dirs"`
	ManyItemsDirs    bool `json:"many_items_dirs"`
	OneItemDirs      bool `json:"one_item_dirs"`
	NameSize         bool `json:"name_size"`
	PathSize         bool `json:"path_size"`
	UnportableChars  bool `json:"unportable_chars"`
}

// DefaultConfig returns the built-in defaults used when no config.json is
// present, or when the file on disk fails to parse (spec §7 ConfigInvalid
// falls back to defaults with a warning, never aborts).
func DefaultConfig() ScanConfig {
	return ScanConfig{
		BufferSize:             1 << 20, // 1 MiB
		EnableCache:            true,
		MaxJobs:                0,
		DuplicateFilesParallel: true,
		IntegrityFilesParallel: true,
		LargeFileSize:          500 << 20, // 500 MiB
		LastAccessTime:         int64(365 * 24 * 3600 * 1e9),
		MaxItemsDirectory:      1000,
		MaxDirFileNameSize:     255,
		MaxFullPathSize:        4096,
		Checks: CheckFlags{
			Duplicates: true, Links: true, Integrity: true, Temporary: true,
			Confidential: true, Compressed: true, DuplicateChars: true,
			EmptyFiles: true, LargeFiles: true, LastAccess: true, Legacy: true,
			MagicNumbers: true, NoExtension: true, JSONParse: true, WrongDates: true,
			EmptyDirs: true, ManyItemsDirs: true, OneItemDirs: true,
			NameSize: true, PathSize: true, UnportableChars: true,
		},
	}
}
