package updater

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmelnik/saveguard/internal/backup"
	"github.com/dmelnik/saveguard/internal/logging"
	"github.com/dmelnik/saveguard/internal/protect"
)

// mergeStats carries the merge walk's bookkeeping. Failed counts files
// whose copy hit an I/O error; those are neither updated nor skipped.
type mergeStats struct {
	Updated int
	Skipped int
	Failed  int
}

// mergeDirs walks newRoot depth-first and copies every non-protected file
// into installRoot, creating directories as needed. A path is protected
// when EITHER the classifier flags it OR it falls under a directory from
// the old-tree protected set: the union of "structurally looks like user
// data" and "was already known to be user data" guards against naming
// drift between versions. Protected directories are not pre-created here;
// backup and restore own them entirely. Per-file copy failures become
// warnings and the walk continues: an update partially failing on a locked
// file should not block the rest of the update.
func mergeDirs(newRoot, installRoot string, cls *protect.Classifier, protectedRel []string, total int64, onProgress func(Progress), warnings *[]string) mergeStats {
	var stats mergeStats
	var processed int64

	_ = filepath.WalkDir(newRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			*warnings = append(*warnings, fmt.Sprintf("walk %s: %v", path, err))
			return nil
		}
		if path == newRoot {
			return nil
		}
		rel, err := filepath.Rel(newRoot, path)
		if err != nil {
			return nil
		}

		prot := cls.IsProtected(rel) || protect.UnderAny(rel, protectedRel)

		if d.IsDir() {
			if !prot {
				if err := os.MkdirAll(filepath.Join(installRoot, rel), 0o755); err != nil {
					*warnings = append(*warnings, fmt.Sprintf("mkdir %s: %v", rel, err))
				}
			}
			return nil
		}

		if prot {
			stats.Skipped++
			logging.Debugf("Verbose: skipping protected %s\n", rel)
		} else {
			dst := filepath.Join(installRoot, rel)
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				stats.Failed++
				*warnings = append(*warnings, fmt.Sprintf("mkdir for %s: %v", rel, err))
			} else if err := backup.CopyFile(path, dst); err != nil {
				stats.Failed++
				*warnings = append(*warnings, fmt.Sprintf("copy %s: %v", rel, err))
			} else {
				stats.Updated++
			}
		}

		processed++
		if onProgress != nil {
			onProgress(Progress{Completed: processed, Total: total})
		}
		return nil
	})

	return stats
}

// countFiles returns the number of regular files under root, used to size
// progress reporting before the merge walk.
func countFiles(root string) int64 {
	var n int64
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	return n
}
