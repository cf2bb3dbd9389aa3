// Package protect decides which paths inside a game installation hold
// user data (saves, configuration, screenshots) and must survive updates.
package protect

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultScanDepth bounds how many levels below the installation root
// Scan descends when looking for protected directories.
const DefaultScanDepth = 4

// Directory names that almost certainly contain saves or user-specific data.
// Matching is whole-component and case-insensitive.
var protectedDirNames = []string{
	"save",
	"saves",
	"savedata",
	"save_data",
	"savegame",
	"savegames",
	"save data",
	"user_data",
	"userdata",
	"game_save",
	"playsave",
	"config",
	"configs",
	"settings",
	"screenshots",
	"log",
	"logs",
	// Unity
	"playerprefs",
}

// File extensions that are save or config data regardless of location.
// json and dat are deliberately absent from the extension rule: many engines
// ship ordinary game data as .json/.dat, so those are only protected when
// they sit inside a protected directory.
var protectedExtensions = []string{
	"sav", "save", "rpgsave", "rpgrmvp", "rvdata", "rvdata2",
	"lsd", // RPG Maker 2000
	"xml", // Ren'Py / some custom engines
	"ini", // user configuration
	"cfg", // user configuration
}

// Extensions never protected by extension alone, even if configured.
var extensionOnlyExcluded = map[string]bool{
	"json": true,
	"dat":  true,
}

// Classifier reports whether relative paths look like user data. The zero
// value is not usable; construct with NewClassifier.
type Classifier struct {
	dirNames map[string]bool
	exts     map[string]bool
}

// NewClassifier returns a classifier loaded with the built-in protected
// directory names and extensions.
func NewClassifier() *Classifier {
	c := &Classifier{
		dirNames: make(map[string]bool, len(protectedDirNames)),
		exts:     make(map[string]bool, len(protectedExtensions)),
	}
	for _, n := range protectedDirNames {
		c.dirNames[n] = true
	}
	for _, e := range protectedExtensions {
		c.exts[e] = true
	}
	return c
}

// AddDirNames registers additional protected directory names.
func (c *Classifier) AddDirNames(names ...string) {
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			c.dirNames[n] = true
		}
	}
}

// AddExtensions registers additional protected file extensions. A leading
// dot is accepted and stripped. json and dat stay excluded from the
// extension-only rule no matter what is registered.
func (c *Classifier) AddExtensions(exts ...string) {
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(e, ".")))
		if e != "" {
			c.exts[e] = true
		}
	}
}

// DirNames returns the protected directory names in sorted order.
func (c *Classifier) DirNames() []string {
	names := make([]string, 0, len(c.dirNames))
	for n := range c.dirNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Extensions returns the protected extensions in sorted order.
func (c *Classifier) Extensions() []string {
	exts := make([]string, 0, len(c.exts))
	for e := range c.exts {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return exts
}

// IsProtectedDirName reports whether a single directory name is protected.
func (c *Classifier) IsProtectedDirName(name string) bool {
	return c.dirNames[strings.ToLower(name)]
}

// IsProtected reports whether a path relative to the installation root
// should be treated as user data. A path is protected when any whole path
// component equals a protected directory name (case-insensitive), or when
// its extension is in the protected-extension list. Matching is exact per
// component: "mysavegame" does not match "save". Pure; no filesystem access.
func (c *Classifier) IsProtected(rel string) bool {
	for _, comp := range strings.Split(filepath.ToSlash(rel), "/") {
		if comp == "" {
			continue
		}
		if c.dirNames[strings.ToLower(comp)] {
			return true
		}
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(rel), "."))
	if ext != "" && c.exts[ext] && !extensionOnlyExcluded[ext] {
		return true
	}
	return false
}

// ScanOptions bounds a protected-path scan.
type ScanOptions struct {
	// MaxDepth is how many levels below the root to descend. Zero means
	// DefaultScanDepth.
	MaxDepth int
	// Ignore lists directory names pruned from the walk entirely, such as
	// the engine's own backup directory.
	Ignore []string
}

// Scan walks the installation root and returns the sorted relative paths of
// every directory whose name is protected, down to the configured depth.
// This is the protected-path set of the existing install: it is always
// computed from the old tree, never from an update source. A missing root
// yields an empty set.
func (c *Classifier) Scan(root string, opts ScanOptions) ([]string, error) {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultScanDepth
	}
	ignore := make(map[string]bool, len(opts.Ignore))
	for _, n := range opts.Ignore {
		ignore[n] = true
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal: the scan is
			// best-effort over whatever the install lets us see.
			return nil
		}
		if path == root || !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if ignore[d.Name()] {
			return filepath.SkipDir
		}
		if strings.Count(filepath.ToSlash(rel), "/")+1 > depth {
			return filepath.SkipDir
		}
		if c.IsProtectedDirName(d.Name()) {
			found = append(found, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}

// UnderAny reports whether rel equals or falls under any of the given
// relative directory paths.
func UnderAny(rel string, dirs []string) bool {
	for _, d := range dirs {
		if rel == d || strings.HasPrefix(rel, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
