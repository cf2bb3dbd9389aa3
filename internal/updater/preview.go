package updater

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmelnik/saveguard/internal/archive"
	"github.com/dmelnik/saveguard/internal/protect"
)

// Preview reports what an update would do without mutating anything. For
// directory sources it repeats the old-tree protected scan and counts, per
// non-protected file in the new tree, whether the installation already has
// it (would overwrite) or not (would create). Protection uses the same
// classifier-or-old-set union as the live merge, so preview and update
// never disagree about a path. Archive sources are only opened for a raw
// entry count; see PreviewOutcome.
func Preview(ctx context.Context, opts Options) (*PreviewOutcome, error) {
	cls := opts.Classifier
	if cls == nil {
		cls = protect.NewClassifier()
	}

	installRoot, err := installRootOf(opts.GameExe)
	if err != nil {
		return nil, err
	}
	src, err := ResolveSource(opts.SourcePath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	protected, err := cls.Scan(installRoot, protect.ScanOptions{
		MaxDepth: opts.ScanDepth,
		Ignore:   []string{BackupDirName},
	})
	if err != nil {
		return nil, fmt.Errorf("scanning installation: %w", err)
	}

	out := &PreviewOutcome{
		GameDir:       installRoot,
		ProtectedDirs: protected,
	}

	switch src.Kind {
	case SourceArchive:
		out.SourceIsArchive = true
		// Opening for a count is the only archive I/O a preview performs;
		// an unreadable archive leaves the count nil rather than failing
		// the otherwise read-only report.
		if n, err := archive.EntryCount(src.Path); err == nil {
			out.ArchiveEntryCount = &n
		}
	case SourceDir:
		err := filepath.WalkDir(src.Path, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Best effort, like the scan: entries the walk cannot
				// read are left out of the counts.
				return nil
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(src.Path, path)
			if err != nil {
				return nil
			}
			if cls.IsProtected(rel) || protect.UnderAny(rel, protected) {
				return nil
			}
			if _, err := os.Stat(filepath.Join(installRoot, rel)); err == nil {
				out.FilesToUpdate++
			} else {
				out.NewFiles++
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
	}

	return out, nil
}
