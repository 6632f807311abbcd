// Package consensushashing computes the canonical, domain-separated hashes of
// headers and transactions that every other component treats as opaque
// identifiers.
package consensushashing

import (
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/hashes"
)

// HeaderHash returns a block header's hash: the domain-separated BLAKE3 of its
// canonical encoding, with every ParentsByLevel entry written in order.
func HeaderHash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	hw := hashes.NewBlockHeaderHashWriter()
	hw.WriteUint16(header.Version)
	hw.WriteUint64(uint64(len(header.ParentsByLevel)))
	for _, level := range header.ParentsByLevel {
		hw.WriteUint64(uint64(len(level)))
		for _, parent := range level {
			hw.InfallibleWrite(parent[:])
		}
	}
	hw.InfallibleWrite(header.HashMerkleRoot[:])
	hw.InfallibleWrite(header.AcceptedIDMerkleRoot[:])
	hw.InfallibleWrite(header.UTXOCommitment[:])
	hw.WriteUint64(uint64(header.TimeInMilliseconds))
	hw.WriteUint32(header.Bits)
	hw.WriteUint64(header.Nonce)
	hw.WriteUint64(header.DAAScore)
	blueWorkBytes := header.BlueWork.Bytes()
	hw.WriteUint64(uint64(len(blueWorkBytes)))
	hw.InfallibleWrite(blueWorkBytes)
	hw.WriteUint64(header.BlueScore)
	hw.InfallibleWrite(header.PruningPoint[:])
	return hw.Finalize()
}

// PreProofOfWorkHash returns the pre-pow-hash used by the PoW verifier: the
// same canonical header encoding, but with nonce and timestamp zeroed, per
// §4.8. This lets a miner vary nonce (and within tolerance, timestamp)
// without re-deriving every other field's contribution.
func PreProofOfWorkHash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	zeroed := header.Clone()
	zeroed.Nonce = 0
	zeroed.TimeInMilliseconds = 0
	return HeaderHash(zeroed)
}
