// Package payload generates the byte buffer uploaded by every worker.
//
// The buffer is created once per process so that every level and every worker
// uploads byte-identical content. Its content only needs to be large and
// incompressible enough to exercise a real transfer, so a fast non-cryptographic
// stream is used.
package payload

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"
)

// Generate returns size pseudorandom bytes derived from seed.
// The same seed always yields the same bytes. size must be positive.
func Generate(size int, seed uint64) []byte {
	if size < 1 {
		panic(fmt.Sprintf("payload: size must be positive, got %d", size))
	}

	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	binary.LittleEndian.PutUint64(key[8:16], ^seed)

	buf := make([]byte, size)
	// ChaCha8.Read never returns an error
	_, _ = rand.NewChaCha8(key).Read(buf)
	return buf
}

// Seed returns a seed for non-deterministic runs.
func Seed() uint64 {
	return uint64(time.Now().UnixNano()) ^ rand.Uint64()
}
