package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shipit-cli/shipit/internal/errors"
)

// Lock guards the context file against concurrent invocations.
// mkdir is the atomic primitive: it fails if the directory exists, so
// whoever creates it holds the lock.
type Lock struct {
	dir string
}

const (
	lockDirName  = "context.lock"
	lockTimeout  = 5 * time.Second
	lockStale    = 30 * time.Second
	lockInterval = 50 * time.Millisecond
)

// Acquire takes the context lock inside dir, waiting up to lockTimeout.
// Locks older than lockStale are treated as leftovers from a crashed
// invocation and removed.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create shipit home directory",
			"Check permissions on "+dir)
	}

	lockDir := filepath.Join(dir, lockDirName)
	deadline := time.Now().Add(lockTimeout)

	for {
		err := os.Mkdir(lockDir, 0o755)
		if err == nil {
			return &Lock{dir: lockDir}, nil
		}
		if !os.IsExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot create context lock",
				"Check permissions on "+dir)
		}

		if info, statErr := os.Stat(lockDir); statErr == nil {
			if time.Since(info.ModTime()) > lockStale {
				// Holder probably crashed; take over.
				_ = os.RemoveAll(lockDir)
				continue
			}
		}

		if time.Now().After(deadline) {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Timed out waiting for context lock after %s", lockTimeout),
				"Another shipit invocation is running; wait for it, or remove "+lockDir+" if it crashed.")
		}
		time.Sleep(lockInterval)
	}
}

// Release drops the lock. Safe to call on a nil lock.
func (l *Lock) Release() {
	if l == nil || l.dir == "" {
		return
	}
	_ = os.RemoveAll(l.dir)
	l.dir = ""
}
