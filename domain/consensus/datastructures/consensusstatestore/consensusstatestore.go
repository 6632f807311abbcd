// Package consensusstatestore persists the virtual's own UTXO set (the UTXO
// set committed as of the current sink) plus the current DAG tips.
package consensusstatestore

import (
	"bytes"
	"encoding/gob"

	"github.com/kaspanet/kaspad/domain/consensus/model"
	"github.com/kaspanet/kaspad/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspad/domain/consensus/utils/dbkeys"
)

var utxoSetBucket = dbkeys.MakeBucket([]byte("virtual-utxo-set"))
var tipsKey = dbkeys.MakeBucket().Key([]byte("tips"))

// consensusStateStore represents a store for the current consensus state
type consensusStateStore struct{}

// New instantiates a new ConsensusStateStore
func New() model.ConsensusStateStore {
	return &consensusStateStore{}
}

type consensusStateStagingShard struct {
	store         *consensusStateStore
	virtualDiff   model.UTXODiff
	stagedTips    []*externalapi.DomainHash
	tipsAreStaged bool
}

func (css *consensusStateStore) stagingShard(stagingArea *model.StagingArea) *consensusStateStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDConsensusState, func() model.StagingShard {
		return &consensusStateStagingShard{store: css}
	}).(*consensusStateStagingShard)
}

func (csss *consensusStateStagingShard) Commit(dbTx model.DBTransaction) error {
	if csss.virtualDiff != nil {
		for outpoint := range csss.virtualDiff.ToRemove() {
			if err := dbTx.Delete(outpointAsKey(&outpoint)); err != nil {
				return err
			}
		}
		for outpoint, entry := range csss.virtualDiff.ToAdd() {
			entryBytes, err := serializeUTXOEntry(entry)
			if err != nil {
				return err
			}
			if err := dbTx.Put(outpointAsKey(&outpoint), entryBytes); err != nil {
				return err
			}
		}
	}

	if csss.tipsAreStaged {
		tipsBytes, err := serializeTips(csss.stagedTips)
		if err != nil {
			return err
		}
		if err := dbTx.Put(tipsKey, tipsBytes); err != nil {
			return err
		}
	}

	return nil
}

// StageVirtualUTXODiff stages the given utxoDiff to be applied to the virtual's UTXO set on commit
func (css *consensusStateStore) StageVirtualUTXODiff(stagingArea *model.StagingArea, utxoDiff model.UTXODiff) {
	css.stagingShard(stagingArea).virtualDiff = utxoDiff
}

// UTXOByOutpoint returns the UTXOEntry the virtual's UTXO set has for outpoint, if any
func (css *consensusStateStore) UTXOByOutpoint(dbContext model.DBReader, stagingArea *model.StagingArea, outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, error) {
	stagingShard := css.stagingShard(stagingArea)
	if stagingShard.virtualDiff != nil {
		if entry, ok := stagingShard.virtualDiff.ToAdd()[*outpoint]; ok {
			return entry.Clone(), nil
		}
		if _, ok := stagingShard.virtualDiff.ToRemove()[*outpoint]; ok {
			return nil, errNotFound(outpoint)
		}
	}

	entryBytes, err := dbContext.Get(outpointAsKey(outpoint))
	if err != nil {
		return nil, err
	}
	return deserializeUTXOEntry(entryBytes)
}

// HasUTXOByOutpoint returns whether the virtual's UTXO set contains outpoint
func (css *consensusStateStore) HasUTXOByOutpoint(dbContext model.DBReader, stagingArea *model.StagingArea, outpoint *externalapi.DomainOutpoint) (bool, error) {
	stagingShard := css.stagingShard(stagingArea)
	if stagingShard.virtualDiff != nil {
		if _, ok := stagingShard.virtualDiff.ToAdd()[*outpoint]; ok {
			return true, nil
		}
		if _, ok := stagingShard.virtualDiff.ToRemove()[*outpoint]; ok {
			return false, nil
		}
	}
	return dbContext.Has(outpointAsKey(outpoint))
}

// VirtualUTXOSetIterator iterates over the virtual's committed UTXO set. It does not
// reflect any diff staged but not yet committed.
func (css *consensusStateStore) VirtualUTXOSetIterator(dbContext model.DBReader, stagingArea *model.StagingArea) (model.ReadOnlyUTXOSetIterator, error) {
	cursor, err := dbContext.Cursor(utxoSetBucket)
	if err != nil {
		return nil, err
	}
	return &utxoSetIterator{cursor: cursor}, nil
}

// StageTips stages the given tip hashes as the current set of DAG tips
func (css *consensusStateStore) StageTips(stagingArea *model.StagingArea, tipHashes []*externalapi.DomainHash) {
	stagingShard := css.stagingShard(stagingArea)
	stagingShard.tipsAreStaged = true
	stagingShard.stagedTips = externalapi.CloneHashes(tipHashes)
}

// Tips returns the current set of DAG tips
func (css *consensusStateStore) Tips(dbContext model.DBReader, stagingArea *model.StagingArea) ([]*externalapi.DomainHash, error) {
	stagingShard := css.stagingShard(stagingArea)
	if stagingShard.tipsAreStaged {
		return externalapi.CloneHashes(stagingShard.stagedTips), nil
	}

	tipsBytes, err := dbContext.Get(tipsKey)
	if err != nil {
		return nil, err
	}
	return deserializeTips(tipsBytes)
}

func (css *consensusStateStore) IsStaged(stagingArea *model.StagingArea) bool {
	stagingShard := css.stagingShard(stagingArea)
	return stagingShard.virtualDiff != nil || stagingShard.tipsAreStaged
}

type notFoundError struct {
	outpoint *externalapi.DomainOutpoint
}

func (e *notFoundError) Error() string {
	return "outpoint " + e.outpoint.TransactionID.String() + " not found in virtual UTXO set"
}

func errNotFound(outpoint *externalapi.DomainOutpoint) error {
	return &notFoundError{outpoint: outpoint}
}

func outpointAsKey(outpoint *externalapi.DomainOutpoint) *model.DBKey {
	outpointBytes, err := serializeOutpoint(outpoint)
	if err != nil {
		panic(err)
	}
	return utxoSetBucket.Key(outpointBytes)
}

type serializableOutpoint struct {
	TransactionID externalapi.DomainHash
	Index         uint32
}

func serializeOutpoint(outpoint *externalapi.DomainOutpoint) ([]byte, error) {
	buf := &bytes.Buffer{}
	s := serializableOutpoint{TransactionID: externalapi.DomainHash(outpoint.TransactionID), Index: outpoint.Index}
	if err := gob.NewEncoder(buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeOutpoint(outpointBytes []byte) (*externalapi.DomainOutpoint, error) {
	var s serializableOutpoint
	if err := gob.NewDecoder(bytes.NewReader(outpointBytes)).Decode(&s); err != nil {
		return nil, err
	}
	return &externalapi.DomainOutpoint{
		TransactionID: externalapi.DomainTransactionID(s.TransactionID),
		Index:         s.Index,
	}, nil
}

type serializableUTXOEntry struct {
	Amount          uint64
	ScriptPublicKey []byte
	BlockBlueScore  uint64
	IsCoinbase      bool
}

func serializeUTXOEntry(entry *externalapi.UTXOEntry) ([]byte, error) {
	s := serializableUTXOEntry{
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

func deserializeUTXOEntry(entryBytes []byte) (*externalapi.UTXOEntry, error) {
	var s serializableUTXOEntry
	if err := gob.NewDecoder(bytes.NewReader(entryBytes)).Decode(&s); err != nil {
		return nil, err
	}
	return &externalapi.UTXOEntry{
		Amount:          s.Amount,
		ScriptPublicKey: s.ScriptPublicKey,
		BlockBlueScore:  s.BlockBlueScore,
		IsCoinbase:      s.IsCoinbase,
	}, nil
}

func serializeTips(tips []*externalapi.DomainHash) ([]byte, error) {
	hashes := make([]externalapi.DomainHash, len(tips))
	for i, h := range tips {
		hashes[i] = *h
	}
	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(hashes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeTips(tipsBytes []byte) ([]*externalapi.DomainHash, error) {
	var hashes []externalapi.DomainHash
	if err := gob.NewDecoder(bytes.NewReader(tipsBytes)).Decode(&hashes); err != nil {
		return nil, err
	}
	tips := make([]*externalapi.DomainHash, len(hashes))
	for i := range hashes {
		h := hashes[i]
		tips[i] = &h
	}
	return tips, nil
}

type utxoSetIterator struct {
	cursor  model.DBCursor
	started bool
}

func (it *utxoSetIterator) First() bool {
	it.started = true
	return it.cursor.Next()
}

func (it *utxoSetIterator) Next() bool {
	if !it.started {
		it.started = true
	}
	return it.cursor.Next()
}

func (it *utxoSetIterator) Get() (*externalapi.DomainOutpoint, *externalapi.UTXOEntry, error) {
	key, err := it.cursor.Key()
	if err != nil {
		return nil, nil, err
	}
	valueBytes, err := it.cursor.Value()
	if err != nil {
		return nil, nil, err
	}

	outpoint, err := deserializeOutpoint(key.Suffix(utxoSetBucket))
	if err != nil {
		return nil, nil, err
	}
	entry, err := deserializeUTXOEntry(valueBytes)
	if err != nil {
		return nil, nil, err
	}
	return outpoint, entry, nil
}
