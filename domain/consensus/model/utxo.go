package model

import "github.com/kaspanet/kaspad/domain/consensus/model/externalapi"

// UTXODiff represents a difference between two UTXO sets: the set of
// outpoints added and the set of outpoints removed in going from the base
// set to the derived one
type UTXODiff interface {
	ToAdd() UTXOCollection
	ToRemove() UTXOCollection
	WithDiff(other UTXODiff) (UTXODiff, error)
	DiffFrom(other UTXODiff) (UTXODiff, error)
	CloneMutable() MutableUTXODiff
}

// MutableUTXODiff is a UTXODiff that can be updated in place
type MutableUTXODiff interface {
	UTXODiff
	AddEntry(outpoint externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error
	RemoveEntry(outpoint externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error
	ToImmutable() UTXODiff
}

// UTXOCollection maps outpoints to the UTXO entry they reference
type UTXOCollection map[externalapi.DomainOutpoint]*externalapi.UTXOEntry

// ReadOnlyUTXOSetIterator iterates over a read-only view of a UTXO set, e.g.
// the virtual's past UTXO set at some historical block
type ReadOnlyUTXOSetIterator interface {
	First() bool
	Next() bool
	Get() (outpoint *externalapi.DomainOutpoint, utxoEntry *externalapi.UTXOEntry, err error)
}

// Multiset is an incremental, order-independent set hash (MuHash) supporting
// Add/Remove of individual UTXO entries and producing the 32-byte
// utxo_commitment for a block
type Multiset interface {
	Add(data []byte)
	Remove(data []byte)
	Hash() *externalapi.DomainHash
	Clone() Multiset
	Serialize() []byte
}
