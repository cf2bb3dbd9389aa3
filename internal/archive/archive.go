// Package archive unpacks update archives into a scratch directory.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// IsArchivePath reports whether a source path looks like a supported
// archive. Only .zip is recognized.
func IsArchivePath(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".zip")
}

// EntryCount opens the archive and returns its raw entry count without
// extracting anything.
func EntryCount(zipPath string) (int, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()
	return len(r.File), nil
}

// ExtractZip unpacks the archive into destDir, creating it if needed.
//
// Extraction is two-pass. The first pass collects the distinct top-level
// path segments across all entries; if exactly one exists and no file sits
// directly at the top level, that segment is a wrapper directory (the common
// "AppName-v2.0/app.exe" packaging convention) and is stripped from every
// extracted path. The wrapper cannot be detected in a single pass: whether
// entry 1 has siblings is only known after seeing the whole entry list.
func ExtractZip(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	wrapper := detectWrapper(r.File)

	cleanDest := filepath.Clean(destDir)
	for _, f := range r.File {
		name := stripWrapper(f.Name, wrapper)
		if name == "" {
			continue
		}

		outPath := filepath.Join(destDir, filepath.FromSlash(name))

		// Reject entries that would escape the destination.
		cleanPath := filepath.Clean(outPath)
		if cleanPath != cleanDest && !strings.HasPrefix(cleanPath, cleanDest+string(os.PathSeparator)) {
			continue
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(outPath, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("reading archive entry %s: %w", f.Name, err)
		}

		outFile, err := os.Create(outPath)
		if err != nil {
			rc.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)
		rc.Close()
		closeErr := outFile.Close()
		if err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
		if closeErr != nil {
			return closeErr
		}
	}

	return nil
}

// detectWrapper returns the single top-level segment shared by every entry,
// or "" when the archive has mixed top-level content.
func detectWrapper(files []*zip.File) string {
	var wrapper string
	for _, f := range files {
		name := path.Clean(strings.TrimPrefix(filepath.ToSlash(f.Name), "/"))
		if name == "." || name == "" {
			continue
		}
		top, rest, _ := strings.Cut(name, "/")
		if rest == "" && !f.FileInfo().IsDir() {
			// A file directly at the top level rules out a wrapper.
			return ""
		}
		switch wrapper {
		case "", top:
			wrapper = top
		default:
			return ""
		}
	}
	return wrapper
}

func stripWrapper(name, wrapper string) string {
	name = path.Clean(strings.TrimPrefix(filepath.ToSlash(name), "/"))
	if name == "." || name == "" {
		return ""
	}
	if wrapper == "" {
		return name
	}
	if name == wrapper {
		return ""
	}
	return strings.TrimPrefix(name, wrapper+"/")
}

// UnwrapSingleDir returns the sole subdirectory of dir when dir contains
// exactly one entry and it is a directory, otherwise dir itself. This is a
// post-extraction fallback for archives whose wrapper was not stripped
// during extraction.
func UnwrapSingleDir(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return dir
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name())
	}
	return dir
}
