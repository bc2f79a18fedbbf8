package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStoreAt(t.TempDir())

	want := &Context{
		Org:      "acme",
		Target:   "site",
		Pipeline: "full",
		Env:      "prod",
		Items:    []string{"index", "posts"},
		Modified: true,
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStoreMissingFile(t *testing.T) {
	store := NewStoreAt(t.TempDir())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, &Context{}, got)
}

func TestStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreAt(dir)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not yaml: ["), 0o644))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, &Context{}, got)
}

func TestStoreUpdate(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	require.NoError(t, store.Save(&Context{Target: "site"}))

	err := store.Update(func(ctx *Context) error {
		ctx.Env = "prod"
		return nil
	})
	require.NoError(t, err)

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "site", got.Target)
	assert.Equal(t, "prod", got.Env)
}

func TestStoreUpdateErrorDoesNotSave(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	require.NoError(t, store.Save(&Context{Target: "site"}))

	err := store.Update(func(ctx *Context) error {
		ctx.Target = "other"
		return os.ErrInvalid
	})
	require.Error(t, err)

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "site", got.Target)
}

func TestLockAcquireRelease(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir)
	require.NoError(t, err)
	lock.Release()

	// Released lock can be taken again right away.
	lock, err = Acquire(dir)
	require.NoError(t, err)
	lock.Release()
}

func TestLockStaleTakeover(t *testing.T) {
	dir := t.TempDir()
	lockDir := filepath.Join(dir, lockDirName)
	require.NoError(t, os.Mkdir(lockDir, 0o755))

	stale := time.Now().Add(-time.Minute)
	require.NoError(t, os.Chtimes(lockDir, stale, stale))

	lock, err := Acquire(dir)
	require.NoError(t, err)
	lock.Release()
}

func TestLockReleaseNil(t *testing.T) {
	var lock *Lock
	lock.Release()
}
