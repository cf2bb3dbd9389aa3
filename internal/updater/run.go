// Package updater overlays a new version of a game onto its existing
// installation while preserving every path classified as user data.
package updater

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmelnik/saveguard/internal/archive"
	"github.com/dmelnik/saveguard/internal/backup"
	"github.com/dmelnik/saveguard/internal/logging"
	"github.com/dmelnik/saveguard/internal/protect"
)

// Run performs a full live update: resolve the source, extract archives
// into a scratch directory, scan the existing install for protected paths,
// back them up, merge the new tree over the installation, and restore the
// backup on top. The installation root is mutated in place and never
// renamed. On a fatal error, files already copied and the backup directory
// are deliberately left behind as a manual-recovery aid; the scratch
// directory is removed on every exit path.
func Run(ctx context.Context, opts Options) (*MergeOutcome, error) {
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
	logging.Debugf("Verbose: update start install=%q source=%q archive=%t\n",
		installRoot, src.Path, src.Kind == SourceArchive)

	lock, err := acquireLock(installRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	var warnings []string

	// Resolve the new-version root, extracting archives into scratch. The
	// installation is untouched until extraction has fully succeeded.
	newRoot := src.Path
	if src.Kind == SourceArchive {
		scratch, release := acquireScratch(installRoot)
		defer release()
		if err := archive.ExtractZip(src.Path, scratch); err != nil {
			return nil, fmt.Errorf("extracting %s: %w", src.Path, err)
		}
		newRoot = archive.UnwrapSingleDir(scratch)
		logging.Debugf("Verbose: extracted to %q (new root %q)\n", scratch, newRoot)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The protected-path set always comes from the OLD tree: the new
	// version may ship same-named placeholders, but only the existing
	// install knows where user data actually lives.
	protected, err := cls.Scan(installRoot, protect.ScanOptions{
		MaxDepth: opts.ScanDepth,
		Ignore:   []string{BackupDirName},
	})
	if err != nil {
		return nil, fmt.Errorf("scanning installation: %w", err)
	}
	logging.Debugf("Verbose: protected dirs found: %d\n", len(protected))

	backupRoot := filepath.Join(installRoot, BackupDirName)
	if len(protected) > 0 {
		warnings = append(warnings, backup.Backup(installRoot, backupRoot, protected)...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := countFiles(newRoot)
	stats := mergeDirs(newRoot, installRoot, cls, protected, total, opts.OnProgress, &warnings)

	warnings = append(warnings, backup.Restore(installRoot, backupRoot, protected)...)

	outcome := &MergeOutcome{
		FilesUpdated:  stats.Updated,
		FilesSkipped:  stats.Skipped,
		FilesFailed:   stats.Failed,
		ProtectedDirs: protected,
		BackupDir:     backupRoot,
		Warnings:      warnings,
	}
	logging.Debugf("Verbose: update done updated=%d skipped=%d failed=%d warnings=%d\n",
		stats.Updated, stats.Skipped, stats.Failed, len(warnings))
	return outcome, nil
}
