// Package hashes provides the domain-separated BLAKE3 hash functions used
// throughout consensus: block headers, transactions, merkle trees and the
// proof-of-work pre-image each get their own derive-key context so that a
// hash computed for one purpose can never collide with one computed for
// another, even over identical bytes.
package hashes

import (
	"encoding/binary"
	"math/big"

	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"lukechampine.com/blake3"
)

const (
	blockHeaderDomain     = "kaspa-blockheader"
	transactionIDDomain   = "kaspa-transactionid"
	transactionHashDomain = "kaspa-transactionhash"
	merkleBranchDomain    = "kaspa-merklebranch"
	proofOfWorkDomain     = "kaspa-pow"
)

// HashWriter incrementally feeds bytes into a domain-separated BLAKE3 hasher
type HashWriter struct {
	hasher *blake3.Hasher
}

// NewHashWriter returns a HashWriter for the given domain separation context
func newHashWriter(domain string) *HashWriter {
	return &HashWriter{hasher: blake3.NewDeriveKey(domain)}
}

// InfallibleWrite writes bytes into the hasher; BLAKE3 writes never fail
func (hw *HashWriter) InfallibleWrite(p []byte) {
	_, err := hw.hasher.Write(p)
	if err != nil {
		panic(err)
	}
}

// WriteUint64 writes a little-endian uint64
func (hw *HashWriter) WriteUint64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	hw.InfallibleWrite(buf[:])
}

// WriteUint32 writes a little-endian uint32
func (hw *HashWriter) WriteUint32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	hw.InfallibleWrite(buf[:])
}

// WriteUint16 writes a little-endian uint16
func (hw *HashWriter) WriteUint16(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	hw.InfallibleWrite(buf[:])
}

// Finalize returns the 32-byte digest as a DomainHash
func (hw *HashWriter) Finalize() *externalapi.DomainHash {
	var sum [externalapi.DomainHashSize]byte
	hw.hasher.Sum(sum[:0])
	return externalapi.NewDomainHashFromByteArray(&sum)
}

// NewBlockHeaderHashWriter returns a HashWriter domain-separated for block headers
func NewBlockHeaderHashWriter() *HashWriter { return newHashWriter(blockHeaderDomain) }

// NewTransactionIDHashWriter returns a HashWriter domain-separated for transaction IDs
func NewTransactionIDHashWriter() *HashWriter { return newHashWriter(transactionIDDomain) }

// NewTransactionHashWriter returns a HashWriter domain-separated for full transaction hashing
func NewTransactionHashWriter() *HashWriter { return newHashWriter(transactionHashDomain) }

// NewMerkleBranchHashWriter returns a HashWriter domain-separated for merkle tree nodes
func NewMerkleBranchHashWriter() *HashWriter { return newHashWriter(merkleBranchDomain) }

// NewPoWHashWriter returns a HashWriter domain-separated for the proof-of-work pre-image
func NewPoWHashWriter() *HashWriter { return newHashWriter(proofOfWorkDomain) }

// PoWHash hashes arbitrary bytes under the PoW domain in one shot, used by the
// memory-hard mixer to derive per-round index bytes and scratchpad chaining
func PoWHash(data ...[]byte) *externalapi.DomainHash {
	hw := NewPoWHashWriter()
	for _, d := range data {
		hw.InfallibleWrite(d)
	}
	return hw.Finalize()
}

// ToBig interprets a hash's bytes as a big-endian big.Int, for comparison
// against a compact-encoded target
func ToBig(hash *externalapi.DomainHash) *big.Int {
	// the hash is naturally little-endian as a 32-byte digest; reverse it
	// so the comparison treats the hash as a big-endian number, matching
	// the byte order of CompactToBig's target
	buf := make([]byte, externalapi.DomainHashSize)
	for i, b := range hash {
		buf[externalapi.DomainHashSize-1-i] = b
	}
	return new(big.Int).SetBytes(buf)
}
