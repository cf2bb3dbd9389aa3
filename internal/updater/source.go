package updater

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmelnik/saveguard/internal/archive"
)

// BackupDirName is the backup directory created inside the installation
// root before any destructive write.
const BackupDirName = ".saveguard_backup"

const scratchPrefix = ".saveguard_update_extract_"

// ResolveSource classifies a new-version path as a directory or archive
// source. Anything else is a fatal error, reported before any I/O against
// the installation.
func ResolveSource(path string) (Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Source{}, fmt.Errorf("source path does not exist: %s", path)
		}
		return Source{}, fmt.Errorf("inspecting source: %w", err)
	}
	if fi.IsDir() {
		return Source{Kind: SourceDir, Path: path}, nil
	}
	if archive.IsArchivePath(path) {
		return Source{Kind: SourceArchive, Path: path}, nil
	}
	return Source{}, fmt.Errorf("unsupported source %q: provide a folder or a .zip file", path)
}

// installRootOf derives the installation root from the primary executable
// path. The root is never renamed or moved, only mutated in place.
func installRootOf(gameExe string) (string, error) {
	if gameExe == "" {
		return "", fmt.Errorf("cannot determine installation directory: empty executable path")
	}
	dir := filepath.Dir(gameExe)
	if dir == gameExe {
		return "", fmt.Errorf("cannot determine installation directory for %q", gameExe)
	}
	fi, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("installation directory: %w", err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("installation directory %q is not a directory", dir)
	}
	return dir, nil
}

// acquireScratch reserves a uniquely named extraction directory next to the
// installation root. The returned release func removes the scratch tree and
// must run on every exit path, success or error.
func acquireScratch(installRoot string) (string, func()) {
	parent := filepath.Dir(installRoot)
	scratch := filepath.Join(parent, fmt.Sprintf("%s%d", scratchPrefix, time.Now().UnixNano()))
	release := func() { _ = os.RemoveAll(scratch) }
	return scratch, release
}
