// Package utxo provides helpers for building and combining UTXO entries and
// diffs: the pieces every consensus UTXO-set mutation (block processing,
// pruning, mempool orphan resolution, wallet transaction building) works with.
package utxo

import (
	"bytes"
	"encoding/gob"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// NewUTXOEntry creates a new externalapi.UTXOEntry representing the given txOut
func NewUTXOEntry(amount uint64, scriptPubKey []byte, isCoinbase bool, blockBlueScore uint64) *externalapi.UTXOEntry {
	return externalapi.NewUTXOEntry(amount, scriptPubKey, isCoinbase, blockBlueScore)
}

// SerializeUTXO serializes a UTXOEntry/DomainOutpoint pair into a single byte
// slice, as used by the pruning point UTXO set proof
func SerializeUTXO(entry *externalapi.UTXOEntry, outpoint *externalapi.DomainOutpoint) ([]byte, error) {
	s := serializableOutpointAndEntry{
		TransactionID:   outpoint.TransactionID,
		Index:           outpoint.Index,
		Amount:          entry.Amount,
		ScriptPublicKey: entry.ScriptPublicKey,
		BlockBlueScore:  entry.BlockBlueScore,
		IsCoinbase:      entry.IsCoinbase,
	}
	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeserializeUTXO is the inverse of SerializeUTXO
func DeserializeUTXO(utxoBytes []byte) (*externalapi.DomainOutpoint, *externalapi.UTXOEntry, error) {
	var s serializableOutpointAndEntry
	if err := gob.NewDecoder(bytes.NewReader(utxoBytes)).Decode(&s); err != nil {
		return nil, nil, err
	}
	outpoint := &externalapi.DomainOutpoint{TransactionID: s.TransactionID, Index: s.Index}
	entry := externalapi.NewUTXOEntry(s.Amount, s.ScriptPublicKey, s.IsCoinbase, s.BlockBlueScore)
	return outpoint, entry, nil
}

type serializableOutpointAndEntry struct {
	TransactionID   externalapi.DomainTransactionID
	Index           uint32
	Amount          uint64
	ScriptPublicKey []byte
	BlockBlueScore  uint64
	IsCoinbase      bool
}

// utxoDiff is the straightforward toAdd/toRemove implementation of model.MutableUTXODiff
type utxoDiff struct {
	toAdd    model.UTXOCollection
	toRemove model.UTXOCollection
}

// NewUTXODiff creates a new, empty MutableUTXODiff
func NewUTXODiff() model.MutableUTXODiff {
	return &utxoDiff{
		toAdd:    make(model.UTXOCollection),
		toRemove: make(model.UTXOCollection),
	}
}

func (d *utxoDiff) ToAdd() model.UTXOCollection {
	return d.toAdd
}

func (d *utxoDiff) ToRemove() model.UTXOCollection {
	return d.toRemove
}

// AddEntry adds an entry to the diff's toAdd collection, cancelling out a
// matching toRemove entry for the same outpoint if one exists
func (d *utxoDiff) AddEntry(outpoint externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error {
	if existing, ok := d.toRemove[outpoint]; ok {
		delete(d.toRemove, outpoint)
		if existing.BlockBlueScore != entry.BlockBlueScore {
			return errors.Errorf("AddEntry: outpoint %s already in toRemove with a different blue score", outpoint)
		}
		return nil
	}
	if _, ok := d.toAdd[outpoint]; ok {
		return errors.Errorf("AddEntry: outpoint %s already in toAdd", outpoint)
	}
	d.toAdd[outpoint] = entry
	return nil
}

// RemoveEntry adds an entry to the diff's toRemove collection, cancelling out a
// matching toAdd entry for the same outpoint if one exists
func (d *utxoDiff) RemoveEntry(outpoint externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error {
	if existing, ok := d.toAdd[outpoint]; ok {
		delete(d.toAdd, outpoint)
		if existing.BlockBlueScore != entry.BlockBlueScore {
			return errors.Errorf("RemoveEntry: outpoint %s already in toAdd with a different blue score", outpoint)
		}
		return nil
	}
	if _, ok := d.toRemove[outpoint]; ok {
		return errors.Errorf("RemoveEntry: outpoint %s already in toRemove", outpoint)
	}
	d.toRemove[outpoint] = entry
	return nil
}

// WithDiff returns the diff that results from applying other on top of d
func (d *utxoDiff) WithDiff(other model.UTXODiff) (model.UTXODiff, error) {
	result := &utxoDiff{
		toAdd:    cloneCollection(d.toAdd),
		toRemove: cloneCollection(d.toRemove),
	}

	for outpoint, entry := range other.ToRemove() {
		if err := result.RemoveEntry(outpoint, entry); err != nil {
			return nil, err
		}
	}
	for outpoint, entry := range other.ToAdd() {
		if err := result.AddEntry(outpoint, entry); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// DiffFrom returns the diff that, when applied to a UTXO set already carrying d,
// results in a UTXO set also carrying other. Assumes d and other share the same base.
func (d *utxoDiff) DiffFrom(other model.UTXODiff) (model.UTXODiff, error) {
	result := &utxoDiff{
		toAdd:    make(model.UTXOCollection, len(d.toRemove)+len(other.ToAdd())),
		toRemove: make(model.UTXOCollection, len(d.toAdd)+len(other.ToRemove())),
	}

	for outpoint, entry := range d.toAdd {
		if otherEntry, ok := other.ToAdd()[outpoint]; !ok || otherEntry.BlockBlueScore != entry.BlockBlueScore {
			result.toRemove[outpoint] = entry
		}
	}
	for outpoint, entry := range d.toRemove {
		if otherEntry, ok := other.ToRemove()[outpoint]; !ok || otherEntry.BlockBlueScore != entry.BlockBlueScore {
			result.toAdd[outpoint] = entry
		}
	}
	for outpoint, entry := range other.ToAdd() {
		if existing, ok := d.toAdd[outpoint]; !ok || existing.BlockBlueScore != entry.BlockBlueScore {
			result.toAdd[outpoint] = entry
		}
	}
	for outpoint, entry := range other.ToRemove() {
		if existing, ok := d.toRemove[outpoint]; !ok || existing.BlockBlueScore != entry.BlockBlueScore {
			result.toRemove[outpoint] = entry
		}
	}

	return result, nil
}

func (d *utxoDiff) CloneMutable() model.MutableUTXODiff {
	return &utxoDiff{toAdd: cloneCollection(d.toAdd), toRemove: cloneCollection(d.toRemove)}
}

func (d *utxoDiff) ToImmutable() model.UTXODiff {
	return d
}

func cloneCollection(collection model.UTXOCollection) model.UTXOCollection {
	clone := make(model.UTXOCollection, len(collection))
	for outpoint, entry := range collection {
		clone[outpoint] = entry.Clone()
	}
	return clone
}
