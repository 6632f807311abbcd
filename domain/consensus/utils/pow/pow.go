// Package pow implements the memory-hard proof-of-work verifier: a
// pre-pow-hash, a BLAKE3-XOF seed derivation, and a memory-hard mixing
// function whose round count and S-box are fixed by the header alone, so
// that grinding the nonce only varies the inner workload rather than its
// cost.
package pow

import (
	"encoding/binary"
	"math/big"

	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/kaspad/domain/consensus/utils/hashes"
	"github.com/kaspanet/kaspad/domain/consensus/utils/math"
	"lukechampine.com/blake3"
)

const (
	seedSize = 32

	// scratchpadSize is the 4 KiB memory-hard scratchpad, addressed as
	// little-endian uint32 words.
	scratchpadSize     = 4 * 1024
	scratchpadWords    = scratchpadSize / 4
	stateWords         = 8
	minRounds          = 16
	maxRoundsExclusive = 32 // round count is minRounds + (x % 16), so in [16, 31]
)

// State is the 8-word mixing state threaded through the memory-hard rounds.
type State [stateWords]uint32

// Hash runs the full proof-of-work hash for a header and nonce: pre-pow-hash,
// seed derivation, memory-hard mixing, and final digest.
//
// The S-box and round count are derived from the pre-pow-hash and timestamp
// alone (never the nonce), so grinding the nonce can only change the inner
// workload of the memory-hard mixing, not its cost. The scratchpad fill and
// initial state, which do vary with the nonce, are derived from a separate
// BLAKE3-XOF seed that folds the nonce in.
func Hash(header *externalapi.DomainBlockHeader, nonce uint64) *externalapi.DomainHash {
	prePowHash := consensushashing.PreProofOfWorkHash(header)
	keySeed := hashes.PoWHash(prePowHash[:], leUint64(uint64(header.TimeInMilliseconds)))
	seed := deriveSeed(prePowHash, header.TimeInMilliseconds, nonce)
	return memHash(keySeed[:], seed, nonce)
}

// CheckProofOfWork reports whether a header's claimed nonce produces a PoW
// hash at or below the target implied by its Bits field.
func CheckProofOfWork(header *externalapi.DomainBlockHeader) bool {
	target := math.CompactToBig(header.Bits)
	return CheckProofOfWorkWithTarget(header, target)
}

// CheckProofOfWorkWithTarget reports whether a header's PoW hash is at or
// below an explicitly supplied target, letting callers reuse an
// already-decoded target across many checks.
func CheckProofOfWorkWithTarget(header *externalapi.DomainBlockHeader, target *big.Int) bool {
	if target.Sign() <= 0 {
		return false
	}
	powHash := Hash(header, header.Nonce)
	return hashes.ToBig(powHash).Cmp(target) <= 0
}

// deriveSeed computes the BLAKE3-extendable-output seed from the pre-pow-hash,
// timestamp, a 32 zero-byte separator, and the nonce.
func deriveSeed(prePowHash *externalapi.DomainHash, timestamp int64, nonce uint64) []byte {
	xof := blake3.New(seedSize, nil)
	xof.Write(prePowHash[:])
	xof.Write(leUint64(uint64(timestamp)))
	var zeroes [32]byte
	xof.Write(zeroes[:])
	xof.Write(leUint64(nonce))

	seed := make([]byte, seedSize)
	xof.Sum(seed[:0])
	return seed
}

// RoundCount returns the number of memory-hard mixing rounds a header will
// run, independent of any candidate nonce.
func RoundCount(header *externalapi.DomainBlockHeader) int {
	prePowHash := consensushashing.PreProofOfWorkHash(header)
	keySeed := hashes.PoWHash(prePowHash[:], leUint64(uint64(header.TimeInMilliseconds)))
	return roundCount(keySeed[:])
}

// memHash is the memory-hard mixing function. keySeed fixes the S-box and
// round count; seed and nonce drive the scratchpad fill, initial state, and
// per-round index derivation.
func memHash(keySeed []byte, seed []byte, nonce uint64) *externalapi.DomainHash {
	sbox := generateSBox(keySeed)
	rounds := roundCount(keySeed)
	scratchpad := fillScratchpad(seed, nonce)
	state := initState(seed)

	for round := 0; round < rounds; round++ {
		indexBytes := hashes.PoWHash(leUint64(nonce), leUint64(uint64(round)), leUint32(state[0]))

		for i := 0; i < stateWords; i++ {
			wordIndex := binary.LittleEndian.Uint32(indexBytes[(i*4)%seedSize:]) % scratchpadWords
			v := readWord(scratchpad, wordIndex)
			v ^= state[i]

			mixWith := state[(i+1)%stateWords]
			switch v & 0xff % 4 {
			case 0:
				v += mixWith
			case 1:
				v -= mixWith
			case 2:
				v = rotateLeft32(v, mixWith&0x1f)
			case 3:
				v ^= mixWith
			}

			v = applySBox(sbox, v)

			writeWord(scratchpad, wordIndex, v)
			state[i] = v
		}
	}

	var stateBytes [stateWords * 4]byte
	for i, word := range state {
		binary.LittleEndian.PutUint32(stateBytes[i*4:], word)
	}
	return hashes.PoWHash(stateBytes[:])
}

// generateSBox derives a 32-byte substitution box from the seed by
// XOR-mixing each byte with its neighbors.
func generateSBox(seed []byte) [32]byte {
	var sbox [32]byte
	for i := 0; i < 32; i++ {
		prev := seed[(i+31)%32]
		next := seed[(i+1)%32]
		sbox[i] = seed[i] ^ prev ^ next
	}
	return sbox
}

// applySBox permutes each byte of v through the S-box.
func applySBox(sbox [32]byte, v uint32) uint32 {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	for i := range b {
		b[i] = sbox[b[i]%32]
	}
	return binary.LittleEndian.Uint32(b[:])
}

// roundCount picks R in [16, 31] from the key seed, which is itself derived
// from header fields alone.
func roundCount(keySeed []byte) int {
	digest := hashes.PoWHash(keySeed)
	x := binary.LittleEndian.Uint32(digest[:4])
	return minRounds + int(x%(maxRoundsExclusive-minRounds))
}

// fillScratchpad fills the 4 KiB scratchpad by iterated BLAKE3 chained over
// (seed, nonce): each 32-byte block is the PoW-domain hash of the previous
// block (starting from (seed, nonce) itself).
func fillScratchpad(seed []byte, nonce uint64) []byte {
	scratchpad := make([]byte, scratchpadSize)
	block := hashes.PoWHash(seed, leUint64(nonce))
	offset := 0
	for offset < scratchpadSize {
		n := copy(scratchpad[offset:], block[:])
		offset += n
		block = hashes.PoWHash(block[:])
	}
	return scratchpad
}

// initState initializes the 8-word state from the 32-byte seed.
func initState(seed []byte) State {
	var state State
	for i := 0; i < stateWords; i++ {
		state[i] = binary.LittleEndian.Uint32(seed[i*4:])
	}
	return state
}

func readWord(scratchpad []byte, wordIndex uint32) uint32 {
	return binary.LittleEndian.Uint32(scratchpad[wordIndex*4:])
}

func writeWord(scratchpad []byte, wordIndex uint32, v uint32) {
	binary.LittleEndian.PutUint32(scratchpad[wordIndex*4:], v)
}

func rotateLeft32(v uint32, n uint32) uint32 {
	n &= 31
	return v<<n | v>>(32-n)
}

func leUint64(v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return buf[:]
}

func leUint32(v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return buf[:]
}

// BlockLevel computes the block's level, used as an index into
// parents_by_level: the number of leading zero bits of the PoW hash beyond
// maxBlockLevel's bit length, floored at zero.
func BlockLevel(powHash *externalapi.DomainHash, maxBlockLevel int) int {
	bitLen := hashes.ToBig(powHash).BitLen()
	level := maxBlockLevel - bitLen
	if level < 0 {
		return 0
	}
	return level
}
