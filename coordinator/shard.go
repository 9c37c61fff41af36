// Package coordinator runs the prime feeder and a fixed pool of worker
// goroutines: one goroutine per worker plus the calling goroutine acting as
// feeder, communicating over channels, coordinated by context.Context for
// cancellation and sync.WaitGroup for shutdown, and sharing the same
// read-only *tables.Tables pointer across every worker.
package coordinator

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// ShardOf deterministically assigns prime p to one of n workers via a
// blake3 hash, so a given prime always lands on the same worker index
// regardless of delivery order or how fast other workers drain their
// queues — useful for reproducing a specific worker's behavior when
// debugging a stuck run; content-addressed routing over round robin.
func ShardOf(p uint64, n int) int {
	if n <= 1 {
		return 0
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], p)
	sum := blake3.Sum256(buf[:])
	h := binary.LittleEndian.Uint64(sum[:8])
	return int(h % uint64(n))
}
