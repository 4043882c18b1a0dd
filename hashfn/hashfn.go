// Package hashfn collects pure hash functions for fixedmap.
//
// None of them keep global state; the keyed variant keeps its state in a
// value the caller owns.  All are allocation-free.
package hashfn

import (
	"encoding/binary"
	"hash"
	"unsafe"

	"golang.org/x/crypto/blake2b"
)

///////////////////////////////////////////////////////////////////////////////
// Integer keys
///////////////////////////////////////////////////////////////////////////////

// Integer matches every built-in integer kind.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Identity returns k unchanged.  With fixedmap's modulo reduction this is
// the classic hash(k) = k mod TABLE_SIZE, handy for deterministic tests and
// for dense keys that are already well spread.
//
//go:nosplit
func Identity[K Integer](k K) uint64 {
	return uint64(k)
}

// Mix applies a Murmur3-style avalanche to k.  Use it for clustered integer
// keys such as sequential IDs or aligned addresses.
//
//go:nosplit
func Mix[K Integer](k K) uint64 {
	x := uint64(k)
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

///////////////////////////////////////////////////////////////////////////////
// Byte and string keys
///////////////////////////////////////////////////////////////////////////////

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// Bytes is FNV-1a over b.
func Bytes(b []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

// String is FNV-1a over s.
func String(s string) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

///////////////////////////////////////////////////////////////////////////////
// Keyed hashing
///////////////////////////////////////////////////////////////////////////////

// KeySize is the largest BLAKE2b key NewKeyed accepts.
const KeySize = blake2b.Size

// Keyed is a seeded BLAKE2b-64 hasher for keys an adversary can choose.  A
// secret seed makes probe chains unpredictable, so crafted keys cannot pile
// into one run.  Slower than FNV; use it at trust boundaries only.
//
// A Keyed reuses one digest and scratch buffer and is not safe for
// concurrent use.
type Keyed struct {
	d   hash.Hash
	out [8]byte
}

// NewKeyed returns a hasher seeded with key, at most KeySize bytes.
func NewKeyed(key []byte) (*Keyed, error) {
	d, err := blake2b.New(8, key)
	if err != nil {
		return nil, err
	}
	return &Keyed{d: d}, nil
}

// Bytes hashes b.
func (k *Keyed) Bytes(b []byte) uint64 {
	k.d.Reset()
	k.d.Write(b)
	return binary.LittleEndian.Uint64(k.d.Sum(k.out[:0]))
}

// String hashes s without copying it.
func (k *Keyed) String(s string) uint64 {
	if len(s) == 0 {
		return k.Bytes(nil)
	}
	return k.Bytes(unsafe.Slice(unsafe.StringData(s), len(s)))
}
