package updater

import (
	"archive/zip"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// snapshot records every path under root with its size, to prove a preview
// made zero filesystem writes.
func snapshot(t *testing.T, root string) map[string]int64 {
	t.Helper()
	snap := make(map[string]int64)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			snap[path] = -1
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		snap[path] = info.Size()
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap
}

func TestPreviewDirectorySource(t *testing.T) {
	t.Parallel()

	exe := newInstall(t)
	root := filepath.Dir(exe)
	src := newSourceDir(t)

	before := snapshot(t, root)
	beforeSrc := snapshot(t, src)

	out, err := Preview(context.Background(), Options{GameExe: exe, SourcePath: src})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if out.SourceIsArchive {
		t.Fatalf("directory source flagged as archive")
	}
	// game.exe and data/level1.bin exist already; data/level2.bin is new;
	// save/slot1.dat is protected and counts as neither.
	if out.FilesToUpdate != 2 {
		t.Fatalf("FilesToUpdate = %d, want 2", out.FilesToUpdate)
	}
	if out.NewFiles != 1 {
		t.Fatalf("NewFiles = %d, want 1", out.NewFiles)
	}
	if len(out.ProtectedDirs) != 1 || out.ProtectedDirs[0] != "save" {
		t.Fatalf("ProtectedDirs = %v", out.ProtectedDirs)
	}
	if out.ArchiveEntryCount != nil {
		t.Fatalf("ArchiveEntryCount should be nil for dir sources")
	}

	after := snapshot(t, root)
	afterSrc := snapshot(t, src)
	if len(after) != len(before) || len(afterSrc) != len(beforeSrc) {
		t.Fatalf("preview wrote to the filesystem")
	}
	for p, size := range before {
		if after[p] != size {
			t.Fatalf("preview modified %s", p)
		}
	}
}

func TestPreviewArchiveSource(t *testing.T) {
	t.Parallel()

	exe := newInstall(t)
	root := filepath.Dir(exe)

	zipPath := filepath.Join(t.TempDir(), "update.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	w := zip.NewWriter(f)
	for _, name := range []string{"Game/game.exe", "Game/data/level1.bin"} {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip entry: %v", err)
		}
		if _, err := fw.Write([]byte("x")); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file close: %v", err)
	}

	before := snapshot(t, root)

	out, err := Preview(context.Background(), Options{GameExe: exe, SourcePath: zipPath})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if !out.SourceIsArchive {
		t.Fatalf("archive source not flagged")
	}
	if out.ArchiveEntryCount == nil || *out.ArchiveEntryCount != 2 {
		t.Fatalf("ArchiveEntryCount = %v, want 2", out.ArchiveEntryCount)
	}
	// The archive is never extracted for a preview: the per-file split
	// stays zero and nothing appears on disk.
	if out.FilesToUpdate != 0 || out.NewFiles != 0 {
		t.Fatalf("archive preview split = %d/%d, want 0/0", out.FilesToUpdate, out.NewFiles)
	}

	after := snapshot(t, root)
	if len(after) != len(before) {
		t.Fatalf("archive preview wrote to the installation")
	}

	// No scratch dir appeared next to the installation either.
	entries, err := os.ReadDir(filepath.Dir(root))
	if err != nil {
		t.Fatalf("reading parent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("unexpected entries next to install: %v", entries)
	}
}

func TestPreviewSkipsUnreadableSourceDirs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits work differently on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	t.Parallel()

	exe := newInstall(t)

	src := filepath.Join(t.TempDir(), "newver")
	writeFile(t, filepath.Join(src, "game.exe"), "new exe")
	writeFile(t, filepath.Join(src, "locked", "extra.bin"), "x")
	locked := filepath.Join(src, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	out, err := Preview(context.Background(), Options{GameExe: exe, SourcePath: src})
	if err != nil {
		t.Fatalf("unreadable source subdirectory should not fail the preview: %v", err)
	}
	// Only the readable file is counted; the locked subtree is left out.
	if out.FilesToUpdate != 1 || out.NewFiles != 0 {
		t.Fatalf("split = %d/%d, want 1/0", out.FilesToUpdate, out.NewFiles)
	}
}

func TestPreviewUnreadableArchiveLeavesCountNil(t *testing.T) {
	t.Parallel()

	exe := newInstall(t)
	bad := filepath.Join(t.TempDir(), "bad.zip")
	writeFile(t, bad, "not a zip")

	out, err := Preview(context.Background(), Options{GameExe: exe, SourcePath: bad})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if out.ArchiveEntryCount != nil {
		t.Fatalf("unreadable archive should leave the count nil")
	}
}
