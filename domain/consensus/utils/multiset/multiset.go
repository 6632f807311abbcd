// Package multiset wraps go-muhash's incremental, order-independent set hash
// behind the model.Multiset interface, so the consensus-state manager can
// fold UTXO entries into a single utxo_commitment regardless of the order
// they're applied in.
package multiset

import (
	"github.com/kaspanet/go-muhash"
	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
)

// multiset adapts a *muhash.MuHash to model.Multiset.
type multiset struct {
	muHash *muhash.MuHash
}

// New returns a new, empty Multiset.
func New() model.Multiset {
	return &multiset{muHash: muhash.NewMuHash()}
}

// FromBytes reconstructs a Multiset from bytes previously produced by
// Serialize.
func FromBytes(serialized []byte) (model.Multiset, error) {
	var serializedMuHash muhash.SerializedMuHash
	if len(serialized) != len(serializedMuHash) {
		return nil, errInvalidSerializedMultisetLength(len(serialized))
	}
	copy(serializedMuHash[:], serialized)

	muHash, err := muhash.DeserializeMuHash(&serializedMuHash)
	if err != nil {
		return nil, err
	}
	return &multiset{muHash: muHash}, nil
}

// Add incrementally folds data into the set hash.
func (m *multiset) Add(data []byte) {
	m.muHash.Add(data)
}

// Remove incrementally unfolds data from the set hash, undoing a prior Add.
func (m *multiset) Remove(data []byte) {
	m.muHash.Remove(data)
}

// Hash finalizes the current set hash into the 32-byte utxo_commitment.
// Finalizing does not consume the underlying accumulator: further Add/Remove
// calls may still follow.
func (m *multiset) Hash() *externalapi.DomainHash {
	finalized := m.muHash.Finalize()
	hash := externalapi.DomainHash(finalized)
	return &hash
}

// Clone returns an independent copy of the set hash.
func (m *multiset) Clone() model.Multiset {
	return &multiset{muHash: m.muHash.Clone()}
}

// Serialize returns the serialized MuHash accumulator state, for storage in
// the multiset store.
func (m *multiset) Serialize() []byte {
	serialized := m.muHash.Serialize()
	return serialized[:]
}
