package updater

import "github.com/dmelnik/saveguard/internal/protect"

// SourceKind discriminates the two accepted update source shapes.
type SourceKind int

const (
	// SourceDir is a plain directory tree holding the new version.
	SourceDir SourceKind = iota
	// SourceArchive is a zip archive holding the new version.
	SourceArchive
)

// Source is an update source resolved once at entry. Downstream code never
// re-inspects file extensions.
type Source struct {
	Kind SourceKind
	Path string
}

// Progress reports per-file advancement of a live update's merge phase.
type Progress struct {
	Completed int64
	Total     int64
}

// Options configures a single update or preview invocation.
type Options struct {
	// GameExe is the path to the installation's primary executable; its
	// parent directory is the installation root.
	GameExe string
	// SourcePath is the new version: a directory or a zip archive.
	SourcePath string
	// Classifier decides which paths are user data. Nil means the built-in
	// classifier.
	Classifier *protect.Classifier
	// ScanDepth bounds the protected-directory scan of the existing
	// install. Zero means protect.DefaultScanDepth.
	ScanDepth int
	// OnProgress, when non-nil, is called after each file processed during
	// the merge phase of a live update.
	OnProgress func(Progress)
}

// MergeOutcome is the result of a completed live update. A non-empty
// Warnings list does not make the update a failure; fatal conditions are
// returned as errors instead.
//
// FilesUpdated + FilesSkipped + FilesFailed equals the file count of the
// new tree: FilesSkipped counts only deliberate protection skips, and a
// file whose copy failed with an I/O error counts toward FilesFailed alone.
type MergeOutcome struct {
	FilesUpdated int `json:"files_updated"`
	FilesSkipped int `json:"files_skipped"`
	FilesFailed  int `json:"files_failed"`
	// ProtectedDirs holds the relative paths of directory trees that were
	// preserved (saves, configs, screenshots).
	ProtectedDirs []string `json:"protected_dirs"`
	// BackupDir is the absolute path of the backup directory inside the
	// installation root. The engine never deletes it; it stays behind as a
	// manual safety net across repeated updates.
	BackupDir string   `json:"backup_dir"`
	Warnings  []string `json:"warnings"`
}

// PreviewOutcome reports what an update would do, without any writes.
//
// For archive sources the preview does not extract: extraction has
// observable side effects the preview contract forbids, so only the raw
// archive entry count is reported and the per-file overwrite/create split
// stays at zero. ArchiveEntryCount is nil for directory sources and for
// archives that cannot be opened.
type PreviewOutcome struct {
	GameDir           string   `json:"game_dir"`
	SourceIsArchive   bool     `json:"source_is_archive"`
	FilesToUpdate     int      `json:"files_to_update"`
	NewFiles          int      `json:"new_files"`
	ArchiveEntryCount *int     `json:"archive_entry_count,omitempty"`
	ProtectedDirs     []string `json:"protected_dirs"`
}
