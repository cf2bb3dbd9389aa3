// Package backup snapshots protected subtrees of an installation before an
// update mutates it, and re-asserts them afterwards.
package backup

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Backup copies every protected subtree under installRoot into backupRoot,
// preserving the relative layout. Subtrees that do not currently exist are
// skipped; there is nothing to protect yet. Per-file failures are returned
// as warnings rather than aborting the pass: refusing to update over a
// single unreadable file would be worse than continuing with a logged miss.
func Backup(installRoot, backupRoot string, protected []string) []string {
	var warnings []string
	for _, rel := range protected {
		src := filepath.Join(installRoot, rel)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		dst := filepath.Join(backupRoot, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			warnings = append(warnings, fmt.Sprintf("backup %s: %v", rel, err))
			continue
		}
		warnings = append(warnings, copyTree(src, dst, "backup")...)
	}
	return warnings
}

// Restore re-copies every backed-up protected subtree from backupRoot over
// installRoot, overwriting anything the merge step may have placed there.
// The merge skips protected files but the new version can still ship a
// placeholder at a protected path; after Restore, protected content equals
// its pre-update value by construction.
func Restore(installRoot, backupRoot string, protected []string) []string {
	var warnings []string
	if _, err := os.Stat(backupRoot); os.IsNotExist(err) {
		return nil
	}
	for _, rel := range protected {
		src := filepath.Join(backupRoot, rel)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		warnings = append(warnings, copyTree(src, filepath.Join(installRoot, rel), "restore")...)
	}
	return warnings
}

// copyTree mirrors the subtree at src into dst. Directories are created,
// files copied byte-for-byte. Failures become warnings tagged with op and
// do not stop the walk.
func copyTree(src, dst, op string) []string {
	var warnings []string
	_ = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s %s: %v", op, path, err))
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return nil
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				warnings = append(warnings, fmt.Sprintf("%s %s: %v", op, target, err))
				return filepath.SkipDir
			}
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s %s: %v", op, target, err))
			return nil
		}
		if err := CopyFile(path, target); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s %s: %v", op, path, err))
		}
		return nil
	})
	return warnings
}

// CopyFile copies src to dst byte-for-byte, truncating dst if it exists.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
