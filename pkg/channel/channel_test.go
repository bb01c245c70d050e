package channel

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPair(t *testing.T) {
	a, b := NewMemoryPair()
	defer a.Close()

	t.Run("ReadEmpty", func(t *testing.T) {
		buf := make([]byte, 8)
		n, err := b.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("WriteThenRead", func(t *testing.T) {
		n, err := a.Write([]byte{0x53, 0x65, 0x00})
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		buf := make([]byte, 8)
		n, err = b.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x53, 0x65, 0x00}, buf[:n])
	})

	t.Run("Flush", func(t *testing.T) {
		_, _ = b.Write([]byte("stale"))
		require.NoError(t, a.Flush())

		buf := make([]byte, 8)
		n, _ := a.Read(buf)
		assert.Equal(t, 0, n)
	})

	t.Run("DistinctIDs", func(t *testing.T) {
		assert.NotEqual(t, a.ID(), b.ID())
	})
}

func TestMemoryPairShortWrite(t *testing.T) {
	a, b := NewMemoryPairSize(4)

	n, err := a.Write([]byte("abcdef"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	buf := make([]byte, 8)
	n, _ = b.Read(buf)
	assert.Equal(t, "abcd", string(buf[:n]))
}

func TestMemoryPairClose(t *testing.T) {
	a, b := NewMemoryPair()
	_, _ = a.Write([]byte("x"))
	require.NoError(t, a.Close())

	buf := make([]byte, 4)
	n, err := b.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = b.Read(buf)
	assert.ErrorIs(t, err, ErrClosed)

	_, err = a.Write([]byte("y"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestReadWriter(t *testing.T) {
	var buf bytes.Buffer
	c := NewReadWriter(&buf)

	_, err := c.Write([]byte("osdp"))
	require.NoError(t, err)

	out := make([]byte, 8)
	n, err := c.Read(out)
	require.NoError(t, err)
	assert.Equal(t, "osdp", string(out[:n]))

	// EOF from the wrapped reader is reported as "nothing pending".
	n, err = c.Read(out)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, c.Close())
	_, err = c.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestUnixChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pd.sock")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srvCh := make(chan *Conn, 1)
	errCh := make(chan error, 1)
	go func() {
		c, err := ListenUnix(ctx, path)
		if err != nil {
			errCh <- err
			return
		}
		srvCh <- c
	}()

	var client *Conn
	require.Eventually(t, func() bool {
		c, err := DialUnix(ctx, path)
		if err != nil {
			return false
		}
		client = c
		return true
	}, 2*time.Second, 10*time.Millisecond)
	defer client.Close()

	var server *Conn
	select {
	case server = <-srvCh:
	case err := <-errCh:
		t.Fatalf("ListenUnix failed: %v", err)
	}
	defer server.Close()

	buf := make([]byte, 16)
	n, err := server.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = client.Write([]byte{0xFF, 0x53})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		n, err = server.Read(buf)
		return err == nil && n == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []byte{0xFF, 0x53}, buf[:2])
}
