package updater

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// acquireLock takes a per-installation advisory lock so two updates against
// the same install cannot interleave. The lock file lives under the system
// temp directory, keyed by a hash of the installation root, so the
// installation itself carries no artifact beyond the backup directory. A
// held lock is a fatal error rather than a wait.
func acquireLock(installRoot string) (*flock.Flock, error) {
	abs, err := filepath.Abs(installRoot)
	if err != nil {
		abs = installRoot
	}
	sum := sha256.Sum256([]byte(abs))
	fl := flock.New(filepath.Join(os.TempDir(), fmt.Sprintf("saveguard-%x.lock", sum[:8])))

	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking installation: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another update is already running for %s", installRoot)
	}
	return fl, nil
}
