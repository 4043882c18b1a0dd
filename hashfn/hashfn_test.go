package hashfn

import (
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	assert.Equal(t, uint64(11), Identity(11))
	assert.Equal(t, uint64(3), Identity(uint8(3)))
	assert.Equal(t, uint64(11)%8, Identity(11)%8)
}

func TestMixSpreadsSequentialKeys(t *testing.T) {
	const buckets = 16
	var hist [buckets]int
	for i := 0; i < 1<<12; i++ {
		hist[Mix(i*buckets)%buckets]++
	}
	// identity would put every key in bucket 0
	for b, n := range hist {
		assert.Greater(t, n, 128, "bucket %d underfilled", b)
	}
	assert.Equal(t, Mix(uint32(7)), Mix(uint64(7)))
}

func TestFNVMatchesStdlib(t *testing.T) {
	for _, s := range []string{"", "a", "fixed capacity", "\x00\xff"} {
		ref := fnv.New64a()
		ref.Write([]byte(s))
		assert.Equal(t, ref.Sum64(), String(s), "%q", s)
		assert.Equal(t, ref.Sum64(), Bytes([]byte(s)), "%q", s)
	}
}

func TestKeyed(t *testing.T) {
	k1, err := NewKeyed([]byte("seed-one"))
	require.NoError(t, err)
	k2, err := NewKeyed([]byte("seed-two"))
	require.NoError(t, err)

	assert.Equal(t, k1.String("key"), k1.String("key"), "deterministic")
	assert.Equal(t, k1.String("key"), k1.Bytes([]byte("key")))
	assert.NotEqual(t, k1.String("key"), k2.String("key"), "seed changes output")
	assert.NotEqual(t, k1.String("key"), k1.String("kez"))
	assert.Equal(t, k1.String(""), k1.Bytes(nil))

	_, err = NewKeyed(make([]byte, KeySize+1))
	assert.Error(t, err)
}

func TestHashesDoNotAllocate(t *testing.T) {
	k, err := NewKeyed([]byte("alloc-check"))
	require.NoError(t, err)
	b := []byte("some key bytes")
	s := "some key string"
	var sink uint64
	allocs := testing.AllocsPerRun(100, func() {
		sink ^= k.Bytes(b)
		sink ^= k.String(s)
		sink ^= Bytes(b)
		sink ^= String(s)
		sink ^= Mix(sink)
		sink ^= Identity(uint32(7))
	})
	assert.Zero(t, allocs)
}
