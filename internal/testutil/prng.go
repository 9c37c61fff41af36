// Package testutil provides a keyed, deterministic byte stream for tests
// that need reproducible "random" input — e.g. exercising the enumerator
// or checkers against many pseudo-random divisors without depending on
// crypto/rand's non-determinism. Grounded on utils/sampling/prng_test.go's
// KeyedPRNG API shape (NewKeyedPRNG(key) returning a Read/Reset stream),
// reimplemented here over blake2b since that is the primitive the teacher
// pack actually vendors (golang.org/x/crypto), rather than the teacher's
// own blake3-backed PRNG which this module already uses for checkpoint
// fingerprints and prime sharding.
package testutil

import (
	"golang.org/x/crypto/blake2b"
)

// KeyedPRNG is a keyed byte stream: the same key always produces the same
// sequence, and Reset rewinds the stream to its start, matching the
// Read/Reset contract utils/sampling/prng_test.go exercises.
type KeyedPRNG struct {
	key    []byte
	hash   uint64 // block counter, hashed alongside the key for each block
	buf    []byte
	bufPos int
}

// NewKeyedPRNG returns a KeyedPRNG seeded with key (nil selects an empty
// key, i.e. unkeyed blake2b, matching NewKeyedPRNG(nil)'s "no key" mode).
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	k := make([]byte, len(key))
	copy(k, key)
	p := &KeyedPRNG{key: k}
	p.fill()
	return p, nil
}

func (p *KeyedPRNG) fill() {
	var block [8]byte
	for i := 0; i < 8; i++ {
		block[i] = byte(p.hash >> (8 * i))
	}
	h, _ := blake2b.New256(p.key)
	h.Write(block[:])
	p.buf = h.Sum(nil)
	p.bufPos = 0
	p.hash++
}

// Read fills buf with the next len(buf) bytes of the keyed stream.
func (p *KeyedPRNG) Read(buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		if p.bufPos == len(p.buf) {
			p.fill()
		}
		c := copy(buf[n:], p.buf[p.bufPos:])
		n += c
		p.bufPos += c
	}
	return n, nil
}

// Reset rewinds the stream to its initial state, so a subsequent Read
// reproduces the same bytes as the stream's very first Read.
func (p *KeyedPRNG) Reset() {
	p.hash = 0
	p.buf = nil
	p.bufPos = 0
	p.fill()
}
