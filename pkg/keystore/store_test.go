package keystore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	ks := New(NewMemoryBackend(), 0)

	key, err := ks.NewKey("pd-101", 0, false)
	require.NoError(t, err)
	assert.Len(t, key, 16)

	_, err = ks.NewKey("pd-101", 16, false)
	assert.ErrorIs(t, err, ErrKeyExists)
	assert.ErrorIs(t, err, ErrKeyStore)

	stored, err := ks.GetKey("pd-101")
	require.NoError(t, err)
	assert.Equal(t, key, stored)

	rotated, err := ks.NewKey("pd-101", 16, true)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(key, rotated))

	_, err = ks.NewKey("pd-102", 8, false)
	assert.ErrorIs(t, err, ErrKeyLength)
}

func TestGetAndUpdateKey(t *testing.T) {
	ks := New(NewMemoryBackend(), 0)

	_, err := ks.GetKey("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	err = ks.UpdateKey("missing", make([]byte, 16))
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = ks.NewKey("a", 0, false)
	require.NoError(t, err)

	err = ks.UpdateKey("a", []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrKeyLength)

	next := bytes.Repeat([]byte{7}, 16)
	require.NoError(t, ks.UpdateKey("a", next))

	got, err := ks.GetKey("a")
	require.NoError(t, err)
	assert.Equal(t, next, got)

	// Returned slices are copies.
	got[0] = 0
	again, _ := ks.GetKey("a")
	assert.Equal(t, byte(7), again[0])
}

func TestSetKey(t *testing.T) {
	ks := New(NewMemoryBackend(), 0)
	key := bytes.Repeat([]byte{7}, 16)

	require.NoError(t, ks.SetKey("pd-9", key))
	got, err := ks.GetKey("pd-9")
	require.NoError(t, err)
	assert.Equal(t, key, got)

	key[0] = 0
	got, err = ks.GetKey("pd-9")
	require.NoError(t, err)
	assert.Equal(t, byte(7), got[0], "stored key must not alias the caller's slice")

	assert.ErrorIs(t, ks.SetKey("pd-9", []byte{1}), ErrKeyLength)
	assert.ErrorIs(t, ks.SetKey("../x", key), ErrInvalidName)
}

func TestCommitAndLoad(t *testing.T) {
	dir := t.TempDir()
	ks, err := Open(dir)
	require.NoError(t, err)

	key, err := ks.NewKey("pd-101", 0, false)
	require.NoError(t, err)
	require.NoError(t, ks.CommitKey("pd-101"))
	require.NoError(t, ks.Close())

	raw, err := os.ReadFile(filepath.Join(dir, "key_pd-101.bin"))
	require.NoError(t, err)
	assert.Len(t, raw, 32)
	assert.Equal(t, bytes.ToLower(raw), raw)
	assert.NotContains(t, string(raw), "\n")

	// Caller-supplied directory survives Close.
	_, err = os.Stat(dir)
	require.NoError(t, err)

	other, err := Open(dir)
	require.NoError(t, err)
	loaded, err := other.LoadKey("pd-101", 16)
	require.NoError(t, err)
	assert.Equal(t, key, loaded)
	assert.Equal(t, []string{"pd-101"}, other.Names())

	names, err := other.Backend().List()
	require.NoError(t, err)
	assert.Equal(t, []string{"pd-101"}, names)
}

func TestLoadKeyErrors(t *testing.T) {
	dir := t.TempDir()
	ks, err := Open(dir)
	require.NoError(t, err)

	t.Run("Missing", func(t *testing.T) {
		_, err := ks.LoadKey("nope", 0)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("Corrupt", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "key_bad.bin"), []byte("zz not hex"), 0o600))
		_, err := ks.LoadKey("bad", 0)
		assert.ErrorIs(t, err, ErrKeyEncoding)
	})

	t.Run("Undersized", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "key_short.bin"), []byte("0102"), 0o600))
		_, err := ks.LoadKey("short", 0)
		assert.ErrorIs(t, err, ErrKeyLength)
	})

	t.Run("Empty", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "key_empty.bin"), nil, 0o600))
		_, err := ks.LoadKey("empty", 0)
		assert.ErrorIs(t, err, ErrKeyLength)
	})

	t.Run("TrailingNewline", func(t *testing.T) {
		want := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f}
		require.NoError(t, os.WriteFile(filepath.Join(dir, "key_pd-101.bin"), []byte("000102030405060708090a0b0c0d0e0f\n"), 0o600))
		got, err := ks.LoadKey("pd-101", 16)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("SurroundingWhitespace", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "key_pd-102.bin"), []byte("  0F0E0D0C0B0A09080706050403020100\r\n"), 0o600))
		got, err := ks.LoadKey("pd-102", 16)
		require.NoError(t, err)
		assert.Equal(t, byte(0x0f), got[0])
		assert.Equal(t, byte(0x00), got[15])
	})

	t.Run("WhitespaceOnly", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "key_blank.bin"), []byte("\n"), 0o600))
		_, err := ks.LoadKey("blank", 0)
		assert.ErrorIs(t, err, ErrKeyLength)
	})

	t.Run("InvalidName", func(t *testing.T) {
		_, err := ks.LoadKey("../etc", 0)
		assert.ErrorIs(t, err, ErrInvalidName)
	})
}

func TestCommitUnknownKey(t *testing.T) {
	ks := New(NewMemoryBackend(), 0)
	assert.ErrorIs(t, ks.CommitKey("ghost"), ErrKeyNotFound)
}

func TestTempStoreRemovedOnClose(t *testing.T) {
	ks, err := NewTemp()
	require.NoError(t, err)

	dir := ks.Backend().(*DirBackend).Dir()
	_, err = ks.NewKey("x", 0, false)
	require.NoError(t, err)
	require.NoError(t, ks.CommitKey("x"))

	_, err = os.Stat(filepath.Join(dir, "key_x.bin"))
	require.NoError(t, err)

	require.NoError(t, ks.Close())
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestDeriveKey(t *testing.T) {
	master := bytes.Repeat([]byte{0x42}, 32)

	a1, err := DeriveKey(master, "pd-101", 0)
	require.NoError(t, err)
	a2, err := DeriveKey(master, "pd-101", 16)
	require.NoError(t, err)
	b, err := DeriveKey(master, "pd-102", 16)
	require.NoError(t, err)

	assert.Len(t, a1, 16)
	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)

	_, err = DeriveKey(nil, "pd-101", 16)
	assert.ErrorIs(t, err, ErrKeyLength)
}

func TestGenKey(t *testing.T) {
	k, err := GenKey(0)
	require.NoError(t, err)
	assert.Len(t, k, DefaultKeyLength)

	k, err = GenKey(32)
	require.NoError(t, err)
	assert.Len(t, k, 32)
}

func TestMemoryBackend(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Write("b", []byte("2")))
	require.NoError(t, b.Write("a", []byte("1")))

	names, err := b.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, b.Remove("a"))
	_, err = b.Read("a")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	require.NoError(t, b.Remove("a"))
}
