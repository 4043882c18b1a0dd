package rt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixedcap/ringbuf"
)

func TestBytesOf(t *testing.T) {
	assert.Nil(t, bytesOf[uint64](nil))
	s := []uint32{1, 2, 3}
	b := bytesOf(s)
	require.Len(t, b, 12)
	for i := 0; i < 4; i++ {
		b[i] = 0
	}
	assert.Zero(t, s[0], "view aliases the slice")
	assert.Equal(t, uint32(2), s[1])
}

func TestLockEmptyIsNoop(t *testing.T) {
	assert.NoError(t, LockSlice[byte](nil))
	assert.NoError(t, UnlockSlice([]int{}))
}

func TestPinCPURejectsNegative(t *testing.T) {
	assert.Error(t, PinCPU(-1))
}

// TestLockRingStorage pins a ring built over caller memory.  Hosts with a
// zero RLIMIT_MEMLOCK refuse the call, which is not a bug here.
func TestLockRingStorage(t *testing.T) {
	storage := make([]byte, 4096)
	if err := LockSlice(storage); err != nil {
		t.Skipf("mlock unavailable: %v", err)
	}
	defer func() { require.NoError(t, UnlockSlice(storage)) }()

	r := ringbuf.Over(storage)
	require.True(t, r.Put([]byte("resident")))
	assert.Equal(t, 8, r.Len())
}
